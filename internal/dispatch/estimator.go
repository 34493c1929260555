// internal/dispatch/estimator.go
package dispatch

import (
	"context"
	"time"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/common/metrics"
)

// Estimator computes the driving distance/duration between two points. It
// never returns an error: any routing failure, malformed response, or empty
// route set degrades to the fixed placeholder pair so the caller always has a
// displayable estimate. Exactly one attempt is made per call; repeated
// failures produce the same placeholder every time.
type Estimator struct {
	router RouteService
	config *Config
	logger logger.Logger
}

func NewEstimator(router RouteService, config *Config, log logger.Logger) *Estimator {
	return &Estimator{
		router: router,
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "estimator"}),
	}
}

// Estimate returns the route estimate for origin -> destination.
func (e *Estimator) Estimate(ctx context.Context, origin, destination Coordinate) RouteEstimate {
	callCtx, cancel := context.WithTimeout(ctx, e.config.RouteTimeout)
	defer cancel()

	start := time.Now()
	detail, err := e.router.Route(callCtx, origin, destination)
	metrics.RouteEstimateDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		e.logger.Warn("routing call failed, serving placeholder estimate", map[string]interface{}{
			"error": err.Error(),
		})
		return e.fallback()
	}

	leg, ok := firstLeg(detail)
	if !ok {
		e.logger.Warn("routing response has no usable route, serving placeholder estimate", nil)
		return e.fallback()
	}

	if leg.Distance.Text == "" || leg.Duration.Text == "" {
		e.logger.Warn("routing leg missing distance or duration text, serving placeholder estimate", nil)
		return e.fallback()
	}

	return RouteEstimate{
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
		Raw:          detail,
	}
}

func (e *Estimator) fallback() RouteEstimate {
	metrics.DegradedEstimates.Inc()
	return RouteEstimate{
		DistanceText: e.config.FallbackDistanceText,
		DurationText: e.config.FallbackDurationText,
		Raw:          nil,
	}
}

// firstLeg extracts the first leg of the first route, if any.
func firstLeg(detail *RouteDetail) (Leg, bool) {
	if detail == nil || len(detail.Routes) == 0 || len(detail.Routes[0].Legs) == 0 {
		return Leg{}, false
	}
	return detail.Routes[0].Legs[0], true
}
