// internal/dispatch/ports.go
package dispatch

import "context"

// SpatialIndex answers "nearest technician(s) to point (lat, lon)". A zero
// result without error is a valid outcome.
type SpatialIndex interface {
	FindNearest(ctx context.Context, lat, lon float64, limit int) ([]TechnicianCandidate, error)
}

// TechnicianRegistry is an exact-match lookup keyed on technician name. It
// serves both the degraded lookup path and the reconciler's secondary
// coordinate fetch.
type TechnicianRegistry interface {
	GetByName(ctx context.Context, name string) (TechnicianCandidate, error)
}

// RouteService is a driving-directions provider.
type RouteService interface {
	Route(ctx context.Context, origin, destination Coordinate) (*RouteDetail, error)
}
