// internal/spatial/index.go
package spatial

import (
	"context"
	"fmt"
	"strconv"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// geoKey is the sorted set holding technician positions; members are
	// technician names.
	geoKey = "technicians:geo"
	// hashPrefix keys the per-technician metadata hash (rating, address).
	hashPrefix = "technician:"
)

// Index is the Redis GEO nearest-technician index. Query results carry the
// index-derived fields only (address, distance); raw coordinates live in the
// registry table and are re-fetched by name during reconciliation.
type Index struct {
	rdb      *redis.Client
	radiusKM float64
	logger   logger.Logger
}

func NewIndex(rdb *redis.Client, radiusKM float64, log logger.Logger) *Index {
	return &Index{
		rdb:      rdb,
		radiusKM: radiusKM,
		logger:   log.WithFields(map[string]interface{}{"component": "spatial-index"}),
	}
}

// FindNearest returns up to limit technicians ordered by distance from the
// point. An empty result without error means no technician is within the
// search radius.
func (i *Index) FindNearest(ctx context.Context, lat, lon float64, limit int) ([]dispatch.TechnicianCandidate, error) {
	locations, err := i.rdb.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius:   i.radiusKM,
		Unit:     "km",
		WithDist: true,
		Count:    limit,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo radius query failed: %w", err)
	}

	candidates := make([]dispatch.TechnicianCandidate, 0, len(locations))
	for _, loc := range locations {
		rating, address := i.lookupMeta(ctx, loc.Name)
		candidates = append(candidates, dispatch.NewDerivedCandidate(loc.Name, rating, address, loc.Dist))
	}
	return candidates, nil
}

// lookupMeta reads the technician's rating and address hash. Missing metadata
// is tolerated; the candidate still identifies the technician by name.
func (i *Index) lookupMeta(ctx context.Context, name string) (float64, string) {
	vals, err := i.rdb.HGetAll(ctx, hashPrefix+name).Result()
	if err != nil {
		i.logger.Debug("technician metadata lookup failed", map[string]interface{}{
			"technician": name,
			"error":      err.Error(),
		})
		return 0, ""
	}

	rating, _ := strconv.ParseFloat(vals["rating"], 64)
	return rating, vals["address"]
}

// Add registers or moves a technician in the index. Used by seeding and by
// the admin surface; resolution itself never writes.
func (i *Index) Add(ctx context.Context, tech models.Technician) error {
	if err := i.rdb.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      tech.Name,
		Latitude:  tech.Latitude,
		Longitude: tech.Longitude,
	}).Err(); err != nil {
		return fmt.Errorf("geo add failed: %w", err)
	}

	return i.rdb.HSet(ctx, hashPrefix+tech.Name, map[string]interface{}{
		"rating":  strconv.FormatFloat(tech.Rating, 'f', 1, 64),
		"address": tech.Address,
	}).Err()
}
