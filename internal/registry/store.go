// internal/registry/store.go
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
)

// ErrTechnicianNotFound is returned when no technician row matches the name.
var ErrTechnicianNotFound = errors.New("TECHNICIAN_NOT_FOUND")

// Store is the Postgres-backed technician registry. It serves the degraded
// lookup path (well-known fallback technician) and the reconciler's secondary
// coordinate fetch. Lookups key on the display name, matching the upstream
// data model; the table also carries a stable id for an eventual migration.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "registry"}),
	}
}

// GetByName returns the direct-shape candidate for an exact name match.
func (s *Store) GetByName(ctx context.Context, name string) (dispatch.TechnicianCandidate, error) {
	query := `SELECT name, rating, latitude, longitude FROM technicians WHERE name = $1`

	var (
		techName string
		rating   float64
		lat      float64
		lon      float64
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(&techName, &rating, &lat, &lon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dispatch.TechnicianCandidate{}, fmt.Errorf("%w: %q", ErrTechnicianNotFound, name)
		}
		return dispatch.TechnicianCandidate{}, fmt.Errorf("technician lookup failed: %w", err)
	}

	return dispatch.NewDirectCandidate(techName, rating, lat, lon), nil
}
