// internal/geolocation/ipapi.go
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"sync"
	"time"

	commonhttp "repair-dispatch/internal/common/http"
	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
)

// ipResponse is the ip-api style payload.
type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city,omitempty"`
}

// IPLocator resolves a coarse position from an IP-geolocation HTTP provider.
// A previous fix is reused while younger than Options.MaximumAge; past that
// age a fresh attempt is made, and failure means ErrUnavailable rather than a
// silently stale position.
type IPLocator struct {
	httpClient *commonhttp.Client
	baseURL    string
	logger     logger.Logger

	mu      sync.Mutex
	lastFix dispatch.Coordinate
	fixedAt time.Time
	hasFix  bool
}

func NewIPLocator(baseURL string, timeout time.Duration, log logger.Logger) *IPLocator {
	return &IPLocator{
		httpClient: commonhttp.NewClient(timeout),
		baseURL:    baseURL,
		logger:     log.WithFields(map[string]interface{}{"component": "ip-locator"}),
	}
}

// CurrentPosition returns the current coarse position, honoring the timeout
// and maximum-age options.
func (l *IPLocator) CurrentPosition(ctx context.Context, opts Options) (dispatch.Coordinate, error) {
	l.mu.Lock()
	if l.hasFix && opts.MaximumAge > 0 && time.Since(l.fixedAt) <= opts.MaximumAge {
		fix := l.lastFix
		l.mu.Unlock()
		return fix, nil
	}
	l.mu.Unlock()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	coord, err := l.fetch(ctx)
	if err != nil {
		l.logger.Warn("position fetch failed", map[string]interface{}{"error": err.Error()})
		return dispatch.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	l.mu.Lock()
	l.lastFix = coord
	l.fixedAt = time.Now()
	l.hasFix = true
	l.mu.Unlock()

	return coord, nil
}

func (l *IPLocator) fetch(ctx context.Context) (dispatch.Coordinate, error) {
	req, err := nethttp.NewRequest(nethttp.MethodGet, l.baseURL, nil)
	if err != nil {
		return dispatch.Coordinate{}, err
	}

	resp, err := l.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return dispatch.Coordinate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return dispatch.Coordinate{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return dispatch.Coordinate{}, err
	}

	if payload.Status != "" && payload.Status != "success" {
		return dispatch.Coordinate{}, fmt.Errorf("provider status %q: %s", payload.Status, payload.Message)
	}

	return dispatch.NewCoordinate(payload.Lat, payload.Lon)
}
