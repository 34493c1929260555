// internal/dispatch/resolver.go
package dispatch

import (
	"context"
	"fmt"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/common/metrics"
)

// Resolver sequences geolocation output through spatial lookup (with
// fallback), coordinate reconciliation, and route estimation. Collaborators
// are injected at construction so tests can substitute doubles. Each Resolve
// call is independent and read-only; nothing is cached across calls.
type Resolver struct {
	index      SpatialIndex
	registry   TechnicianRegistry
	reconciler *Reconciler
	estimator  *Estimator
	config     *Config
	logger     logger.Logger
}

func NewResolver(config *Config, index SpatialIndex, registry TechnicianRegistry, router RouteService, log logger.Logger) *Resolver {
	return &Resolver{
		index:      index,
		registry:   registry,
		reconciler: NewReconciler(registry, log),
		estimator:  NewEstimator(router, config, log),
		config:     config,
		logger:     log.WithFields(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve assigns the nearest technician to the customer and estimates the
// trip. Call depth is bounded: at most one spatial query, one fallback
// lookup, one coordinate sub-lookup, and one routing call. The three network
// steps are strictly sequential because each depends on the previous result.
func (r *Resolver) Resolve(ctx context.Context, customer Coordinate) (*TechnicianAssignment, error) {
	if !customer.Valid() {
		metrics.ResolutionsTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: latitude %.4f, longitude %.4f", ErrInvalidInput, customer.Latitude, customer.Longitude)
	}

	candidate, err := r.findTechnician(ctx, customer)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("no_technician").Inc()
		return nil, err
	}

	location, err := r.reconciler.Reconcile(ctx, candidate)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("invalid_technician_data").Inc()
		return nil, err
	}

	// Never fails the resolution: routing problems degrade to placeholders
	// inside the estimator.
	estimate := r.estimator.Estimate(ctx, customer, location)

	metrics.ResolutionsTotal.WithLabelValues("assigned").Inc()
	return &TechnicianAssignment{
		Technician:         Technician{Name: candidate.Name, Rating: candidate.Rating},
		TechnicianLocation: location,
		DistanceText:       estimate.DistanceText,
		DurationText:       estimate.DurationText,
		Route:              estimate.Raw,
	}, nil
}

// findTechnician queries the spatial index and folds both failure modes
// (index errored, index empty) into the same registry fallback branch, so the
// customer always gets a technician as long as the well-known registry entry
// exists.
func (r *Resolver) findTechnician(ctx context.Context, customer Coordinate) (TechnicianCandidate, error) {
	indexCtx, cancel := context.WithTimeout(ctx, r.config.IndexTimeout)
	defer cancel()

	candidates, err := r.index.FindNearest(indexCtx, customer.Latitude, customer.Longitude, 1)
	if err == nil && len(candidates) > 0 {
		metrics.TechnicianSource.WithLabelValues("spatial_index").Inc()
		return candidates[0], nil
	}

	reason := "index_empty"
	if err != nil {
		reason = "index_error"
		r.logger.Warn("spatial index query failed, using fallback registry", map[string]interface{}{
			"error": err.Error(),
		})
	}
	metrics.FallbackLookups.WithLabelValues(reason).Inc()

	registryCtx, cancel := context.WithTimeout(ctx, r.config.RegistryTimeout)
	defer cancel()

	fallback, err := r.registry.GetByName(registryCtx, r.config.FallbackTechnician)
	if err != nil {
		r.logger.Error("fallback registry lookup failed", map[string]interface{}{
			"technician": r.config.FallbackTechnician,
			"error":      err.Error(),
		})
		return TechnicianCandidate{}, fmt.Errorf("%w: fallback lookup for %q: %v", ErrNoTechnicianAvailable, r.config.FallbackTechnician, err)
	}

	metrics.TechnicianSource.WithLabelValues("fallback_registry").Inc()
	return fallback, nil
}
