// internal/geolocation/ipapi_test.go
package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
)

func TestIPLocator_CurrentPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "success", "lat": 45.5017, "lon": -73.5673, "city": "Montreal"}`))
	}))
	t.Cleanup(srv.Close)

	locator := NewIPLocator(srv.URL, 2*time.Second, logger.NewTestLogger(t))
	coord, err := locator.CurrentPosition(context.Background(), Options{Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, dispatch.Coordinate{Latitude: 45.5017, Longitude: -73.5673}, coord)
}

func TestIPLocator_MaximumAgeReusesFix(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"status": "success", "lat": 45.5017, "lon": -73.5673}`))
	}))
	t.Cleanup(srv.Close)

	locator := NewIPLocator(srv.URL, 2*time.Second, logger.NewTestLogger(t))
	opts := Options{Timeout: time.Second, MaximumAge: time.Minute}

	first, err := locator.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	second, err := locator.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "fresh fix reused within max age")
}

func TestIPLocator_ZeroMaxAgeAlwaysFetches(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`{"status": "success", "lat": 45.5017, "lon": -73.5673}`))
	}))
	t.Cleanup(srv.Close)

	locator := NewIPLocator(srv.URL, 2*time.Second, logger.NewTestLogger(t))
	opts := Options{Timeout: time.Second}

	_, err := locator.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	_, err = locator.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestIPLocator_ProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "fail", "message": "private range"}`))
	}))
	t.Cleanup(srv.Close)

	locator := NewIPLocator(srv.URL, 2*time.Second, logger.NewTestLogger(t))
	_, err := locator.CurrentPosition(context.Background(), Options{Timeout: time.Second})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIPLocator_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"status": "success", "lat": 1, "lon": 1}`))
	}))
	t.Cleanup(srv.Close)

	locator := NewIPLocator(srv.URL, 2*time.Second, logger.NewTestLogger(t))
	_, err := locator.CurrentPosition(context.Background(), Options{Timeout: 30 * time.Millisecond})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
