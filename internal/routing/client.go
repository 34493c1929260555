// internal/routing/client.go
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"time"

	commonhttp "repair-dispatch/internal/common/http"
	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
)

// Client calls the external driving-directions provider. It makes exactly one
// attempt per call; the dispatch estimator owns degradation, so errors here
// are returned as-is.
type Client struct {
	httpClient *commonhttp.Client
	baseURL    string
	apiKey     string
	logger     logger.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: commonhttp.NewClient(timeout),
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     log.WithFields(map[string]interface{}{"component": "routing-client"}),
	}
}

// Route fetches driving directions for origin -> destination.
func (c *Client) Route(ctx context.Context, origin, destination dispatch.Coordinate) (*dispatch.RouteDetail, error) {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude))
	params.Set("mode", "driving")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := nethttp.NewRequest(nethttp.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build directions request: %w", err)
	}

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directions call returned status %d: %s", resp.StatusCode, string(body))
	}

	var detail dispatch.RouteDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	if detail.Status != "" && detail.Status != "OK" {
		return nil, fmt.Errorf("directions provider status %q", detail.Status)
	}

	return &detail, nil
}
