// internal/dispatch/reconciler.go
package dispatch

import (
	"context"
	"fmt"

	"repair-dispatch/internal/common/logger"
)

// Reconciler normalizes the two candidate shapes into a single coordinate
// pair. It is the one seam where the structural divergence between the index
// RPC and the registry fetch is resolved; everything above it is
// shape-agnostic.
type Reconciler struct {
	registry TechnicianRegistry
	logger   logger.Logger
}

func NewReconciler(registry TechnicianRegistry, log logger.Logger) *Reconciler {
	return &Reconciler{
		registry: registry,
		logger:   log.WithFields(map[string]interface{}{"component": "reconciler"}),
	}
}

// Reconcile returns the candidate's coordinates. Direct-shape candidates are
// validated in place; derived-shape candidates trigger a secondary name
// lookup because the index response carries no raw coordinates. A candidate
// with neither shape fails immediately without any lookup.
func (r *Reconciler) Reconcile(ctx context.Context, candidate TechnicianCandidate) (Coordinate, error) {
	switch candidate.Shape {
	case ShapeDirect:
		coord, err := NewCoordinate(candidate.Latitude, candidate.Longitude)
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: out-of-range coordinates for %q", ErrInvalidTechnicianData, candidate.Name)
		}
		return coord, nil

	case ShapeDerived:
		if candidate.Name == "" {
			return Coordinate{}, fmt.Errorf("%w: derived candidate without a name", ErrInvalidTechnicianData)
		}
		resolved, err := r.registry.GetByName(ctx, candidate.Name)
		if err != nil {
			r.logger.Warn("secondary coordinate lookup failed", map[string]interface{}{
				"technician": candidate.Name,
				"error":      err.Error(),
			})
			return Coordinate{}, fmt.Errorf("%w: coordinate lookup for %q: %v", ErrInvalidTechnicianData, candidate.Name, err)
		}
		if resolved.Shape != ShapeDirect {
			return Coordinate{}, fmt.Errorf("%w: registry returned no coordinates for %q", ErrInvalidTechnicianData, candidate.Name)
		}
		coord, err := NewCoordinate(resolved.Latitude, resolved.Longitude)
		if err != nil {
			return Coordinate{}, fmt.Errorf("%w: out-of-range coordinates for %q", ErrInvalidTechnicianData, candidate.Name)
		}
		return coord, nil

	default:
		return Coordinate{}, fmt.Errorf("%w: candidate %q has no populated shape", ErrInvalidTechnicianData, candidate.Name)
	}
}
