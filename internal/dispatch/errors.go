// internal/dispatch/errors.go
package dispatch

import "errors"

// Sentinel errors for the resolution taxonomy. Routing failures are not here
// on purpose: they are absorbed into a degraded RouteEstimate and never
// surface to callers.
var (
	ErrInvalidInput          = errors.New("INVALID_INPUT")
	ErrLocationUnavailable   = errors.New("LOCATION_UNAVAILABLE")
	ErrNoTechnicianAvailable = errors.New("NO_TECHNICIAN_AVAILABLE")
	ErrInvalidTechnicianData = errors.New("INVALID_TECHNICIAN_DATA")
)
