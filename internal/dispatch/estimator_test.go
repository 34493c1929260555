// internal/dispatch/estimator_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-dispatch/internal/common/logger"
)

func newTestEstimator(t *testing.T, router *fakeRouter) *Estimator {
	return NewEstimator(router, LoadConfig(), logger.NewTestLogger(t))
}

func TestEstimator_Success(t *testing.T) {
	router := &fakeRouter{detail: routeDetail("8.2 km", "22 mins")}
	estimator := newTestEstimator(t, router)

	estimate := estimator.Estimate(context.Background(),
		Coordinate{Latitude: 45.5017, Longitude: -73.5673},
		Coordinate{Latitude: 45.52, Longitude: -73.58})

	assert.Equal(t, "8.2 km", estimate.DistanceText)
	assert.Equal(t, "22 mins", estimate.DurationText)
	require.NotNil(t, estimate.Raw)
	assert.False(t, estimate.Degraded())
}

func TestEstimator_Degradation(t *testing.T) {
	tests := []struct {
		name   string
		router *fakeRouter
	}{
		{name: "call errors", router: &fakeRouter{err: errors.New("connection reset")}},
		{name: "nil detail", router: &fakeRouter{}},
		{name: "zero routes", router: &fakeRouter{detail: &RouteDetail{Status: "OK"}}},
		{name: "route without legs", router: &fakeRouter{detail: &RouteDetail{Routes: []Route{{}}}}},
		{
			name: "leg missing text fields",
			router: &fakeRouter{detail: &RouteDetail{Routes: []Route{{
				Legs: []Leg{{Distance: TextValue{Value: 8200}}},
			}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator := newTestEstimator(t, tt.router)
			estimate := estimator.Estimate(context.Background(), Coordinate{}, Coordinate{})

			assert.Equal(t, "~10 km", estimate.DistanceText)
			assert.Equal(t, "~30 min", estimate.DurationText)
			assert.Nil(t, estimate.Raw)
			assert.True(t, estimate.Degraded())
		})
	}
}

func TestEstimator_SingleAttempt(t *testing.T) {
	// Failures degrade identically every time; no retry is ever attempted.
	router := &fakeRouter{err: errors.New("down")}
	estimator := newTestEstimator(t, router)

	first := estimator.Estimate(context.Background(), Coordinate{}, Coordinate{})
	second := estimator.Estimate(context.Background(), Coordinate{}, Coordinate{})

	assert.Equal(t, first, second)
	assert.Equal(t, 2, router.calls, "exactly one routing call per estimate")
}
