// internal/dispatch/reconciler_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-dispatch/internal/common/logger"
)

func TestReconciler_DirectShape(t *testing.T) {
	registry := &fakeRegistry{}
	reconciler := NewReconciler(registry, logger.NewTestLogger(t))

	coord, err := reconciler.Reconcile(context.Background(), hassenDirect())
	require.NoError(t, err)

	assert.Equal(t, Coordinate{Latitude: 45.52, Longitude: -73.58}, coord)
	assert.Equal(t, 0, registry.calls, "direct shape needs no lookup")
}

func TestReconciler_ShapeAgnostic(t *testing.T) {
	// A direct candidate and a derived candidate for the same technician
	// must reconcile to equal coordinates.
	registry := &fakeRegistry{candidate: hassenDirect()}
	reconciler := NewReconciler(registry, logger.NewTestLogger(t))

	direct, err := reconciler.Reconcile(context.Background(), hassenDirect())
	require.NoError(t, err)

	derived, err := reconciler.Reconcile(context.Background(),
		NewDerivedCandidate("Hassen", 4.8, "1234 Rue Sainte-Catherine", 2.3))
	require.NoError(t, err)

	assert.Equal(t, direct, derived)
}

func TestReconciler_NoShape_FailsWithoutLookup(t *testing.T) {
	registry := &fakeRegistry{candidate: hassenDirect()}
	reconciler := NewReconciler(registry, logger.NewTestLogger(t))

	_, err := reconciler.Reconcile(context.Background(), TechnicianCandidate{Name: "Hassen", Rating: 4.8})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTechnicianData)
	assert.Equal(t, 0, registry.calls, "no network call on invalid input")
}

func TestReconciler_DerivedShape_Failures(t *testing.T) {
	tests := []struct {
		name      string
		candidate TechnicianCandidate
		registry  *fakeRegistry
	}{
		{
			name:      "secondary lookup errors",
			candidate: NewDerivedCandidate("Hassen", 4.8, "addr", 2.3),
			registry:  &fakeRegistry{err: errors.New("registry down")},
		},
		{
			name:      "registry yields no coordinates",
			candidate: NewDerivedCandidate("Hassen", 4.8, "addr", 2.3),
			registry:  &fakeRegistry{candidate: NewDerivedCandidate("Hassen", 4.8, "addr", 2.3)},
		},
		{
			name:      "derived candidate missing name",
			candidate: NewDerivedCandidate("", 4.8, "addr", 2.3),
			registry:  &fakeRegistry{candidate: hassenDirect()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciler := NewReconciler(tt.registry, logger.NewTestLogger(t))
			_, err := reconciler.Reconcile(context.Background(), tt.candidate)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTechnicianData)
		})
	}
}

func TestReconciler_DirectShape_OutOfRange(t *testing.T) {
	reconciler := NewReconciler(&fakeRegistry{}, logger.NewTestLogger(t))

	_, err := reconciler.Reconcile(context.Background(), NewDirectCandidate("Hassen", 4.8, 95.0, -73.58))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTechnicianData)
}
