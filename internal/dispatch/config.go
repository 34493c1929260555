// internal/dispatch/config.go
package dispatch

import "time"

// Config bounds each external call and fixes the degraded-estimate output.
type Config struct {
	FallbackTechnician   string
	IndexTimeout         time.Duration
	RegistryTimeout      time.Duration
	RouteTimeout         time.Duration
	FallbackDistanceText string
	FallbackDurationText string
}

func LoadConfig() *Config {
	return &Config{
		FallbackTechnician:   "Hassen",
		IndexTimeout:         2 * time.Second,
		RegistryTimeout:      2 * time.Second,
		RouteTimeout:         3 * time.Second,
		FallbackDistanceText: "~10 km",
		FallbackDurationText: "~30 min",
	}
}
