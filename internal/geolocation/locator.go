// internal/geolocation/locator.go
package geolocation

import (
	"context"
	"errors"
	"time"

	"repair-dispatch/internal/dispatch"
)

// ErrUnavailable is returned when no position can be supplied. Retry is a
// caller-level decision; locators make a single attempt.
var ErrUnavailable = errors.New("LOCATION_UNAVAILABLE")

// Options mirror the platform geolocation knobs: how long to wait for a fix
// and how old a previous fix may be before it must be refreshed.
type Options struct {
	Timeout    time.Duration
	MaximumAge time.Duration
}

// Locator supplies the customer's current position.
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (dispatch.Coordinate, error)
}
