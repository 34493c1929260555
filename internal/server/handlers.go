// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	commonerrors "repair-dispatch/internal/common/errors"
	"repair-dispatch/internal/dispatch"
	"repair-dispatch/internal/geolocation"
	"repair-dispatch/internal/models"
)

type resolveRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type bookingRequest struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	CustomerEmail string   `json:"customerEmail,omitempty"`
	CustomerPhone string   `json:"customerPhone,omitempty"`
	DeviceType    string   `json:"deviceType"`
	Issue         string   `json:"issue,omitempty"`
}

// handleResolve runs one resolution. An empty body means "locate me": the
// customer position comes from the geolocation source instead of the request.
func (s *Server) handleResolve(c *gin.Context) {
	start := time.Now()

	customer, stdErr := s.customerPosition(c)
	if stdErr != nil {
		s.writeError(c, stdErr)
		s.record(c, start, string(stdErr.Code))
		return
	}

	assignment, err := s.resolver.Resolve(c.Request.Context(), customer)
	if err != nil {
		stdErr := mapResolutionError(err)
		s.writeError(c, stdErr)
		s.record(c, start, string(stdErr.Code))
		return
	}

	s.record(c, start, "assigned")
	c.JSON(http.StatusOK, gin.H{
		"customerLocation": customer,
		"assignment":       assignment,
	})
}

// handleCreateBooking resolves a technician and confirms the booking. The
// confirmation notification is fire-and-forget; its failure never fails the
// booking.
func (s *Server) handleCreateBooking(c *gin.Context) {
	start := time.Now()

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		s.writeError(c, commonerrors.NewInvalidInputError("request body is required"))
		return
	}
	if err := validateJSON(bookingSchema, body); err != nil {
		s.writeError(c, commonerrors.NewInvalidInputError(err.Error()))
		return
	}

	var req bookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(c, commonerrors.NewInvalidInputError(err.Error()))
		return
	}

	var customer dispatch.Coordinate
	if req.Latitude != nil && req.Longitude != nil {
		customer, err = dispatch.NewCoordinate(*req.Latitude, *req.Longitude)
		if err != nil {
			s.writeError(c, commonerrors.NewInvalidInputError("coordinates out of range"))
			return
		}
	} else {
		var stdErr *commonerrors.StandardError
		customer, stdErr = s.locate(c.Request.Context())
		if stdErr != nil {
			s.writeError(c, stdErr)
			return
		}
	}

	assignment, err := s.resolver.Resolve(c.Request.Context(), customer)
	if err != nil {
		stdErr := mapResolutionError(err)
		s.writeError(c, stdErr)
		s.record(c, start, string(stdErr.Code))
		return
	}

	booking := models.Booking{
		ID:            uuid.NewString(),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		DeviceType:    req.DeviceType,
		Issue:         req.Issue,
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	if s.notifier != nil {
		go func(b models.Booking, a *dispatch.TechnicianAssignment) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.BookingConfirmed(ctx, b, a); err != nil {
				s.logger.Warn("booking confirmation delivery failed", map[string]interface{}{
					"bookingId": b.ID,
					"error":     err.Error(),
				})
			}
		}(booking, assignment)
	}

	s.record(c, start, "booked")
	c.JSON(http.StatusCreated, gin.H{
		"booking":    booking,
		"assignment": assignment,
	})
}

// customerPosition reads the coordinate from the body, or asks the locator
// when the body is empty.
func (s *Server) customerPosition(c *gin.Context) (dispatch.Coordinate, *commonerrors.StandardError) {
	body, err := c.GetRawData()
	if err != nil {
		return dispatch.Coordinate{}, commonerrors.NewInvalidInputError(err.Error())
	}

	if len(body) == 0 {
		return s.locate(c.Request.Context())
	}

	if err := validateJSON(resolveSchema, body); err != nil {
		return dispatch.Coordinate{}, commonerrors.NewInvalidInputError(err.Error())
	}

	var req resolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return dispatch.Coordinate{}, commonerrors.NewInvalidInputError(err.Error())
	}

	coord, err := dispatch.NewCoordinate(req.Latitude, req.Longitude)
	if err != nil {
		return dispatch.Coordinate{}, commonerrors.NewInvalidInputError("coordinates out of range")
	}
	return coord, nil
}

func (s *Server) locate(ctx context.Context) (dispatch.Coordinate, *commonerrors.StandardError) {
	if s.locator == nil {
		return dispatch.Coordinate{}, commonerrors.NewLocationUnavailableError(geolocation.ErrUnavailable)
	}

	opts := geolocation.Options{
		Timeout:    time.Duration(s.cfg.Geolocation.Timeout) * time.Millisecond,
		MaximumAge: time.Duration(s.cfg.Geolocation.MaxAge) * time.Millisecond,
	}
	coord, err := s.locator.CurrentPosition(ctx, opts)
	if err != nil {
		return dispatch.Coordinate{}, commonerrors.NewLocationUnavailableError(err)
	}
	return coord, nil
}

// mapResolutionError translates core sentinel errors into the structured
// taxonomy served to clients.
func mapResolutionError(err error) *commonerrors.StandardError {
	switch {
	case errors.Is(err, dispatch.ErrInvalidInput):
		return commonerrors.NewInvalidInputError(err.Error())
	case errors.Is(err, dispatch.ErrNoTechnicianAvailable):
		return commonerrors.NewNoTechnicianAvailableError(err)
	case errors.Is(err, dispatch.ErrInvalidTechnicianData):
		return commonerrors.NewInvalidTechnicianDataError(err.Error())
	case errors.Is(err, dispatch.ErrLocationUnavailable), errors.Is(err, geolocation.ErrUnavailable):
		return commonerrors.NewLocationUnavailableError(err)
	default:
		return &commonerrors.StandardError{
			Code:      "INTERNAL_ERROR",
			Message:   "Unexpected resolution failure",
			Details:   err.Error(),
			Retryable: true,
			Timestamp: time.Now().UTC(),
		}
	}
}

func (s *Server) writeError(c *gin.Context, stdErr *commonerrors.StandardError) {
	s.logger.Warn("request failed", map[string]interface{}{
		"path":      c.FullPath(),
		"code":      string(stdErr.Code),
		"retryable": stdErr.Retryable,
		"details":   stdErr.Details,
	})
	c.JSON(commonerrors.HTTPStatus(stdErr.Code), gin.H{"error": stdErr})
}

func (s *Server) record(c *gin.Context, start time.Time, status string) {
	if s.obs == nil {
		return
	}
	s.obs.RecordResolution(c.Request.Context(), status)
	s.obs.RecordResolutionDuration(c.Request.Context(), time.Since(start), status)
}
