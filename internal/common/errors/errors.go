// Package errors provides the standardized error taxonomy for dispatch resolution.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Resolution errors surfaced to callers.
const (
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeLocationUnavailable   ErrorCode = "LOCATION_UNAVAILABLE"
	ErrCodeNoTechnicianAvailable ErrorCode = "NO_TECHNICIAN_AVAILABLE"
	ErrCodeInvalidTechnicianData ErrorCode = "INVALID_TECHNICIAN_DATA"
)

// Infrastructure errors logged internally; they fold into the codes above
// before reaching a caller.
const (
	ErrCodeSpatialQueryFailed       ErrorCode = "SPATIAL_QUERY_FAILED"
	ErrCodeRegistryLookupFailed     ErrorCode = "REGISTRY_LOOKUP_FAILED"
	ErrCodeRouteCallFailed          ErrorCode = "ROUTE_CALL_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Customer coordinate failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLocationUnavailableError creates a retryable geolocation error. The
// caller may offer a manual retry affordance.
func NewLocationUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLocationUnavailable,
		Message:   "Current position could not be determined",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoTechnicianAvailableError creates a retryable error for the case where
// both the spatial index and the fallback registry failed to yield a technician.
func NewNoTechnicianAvailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoTechnicianAvailable,
		Message:   "No technician could be assigned",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTechnicianDataError creates a non-retryable error for technician
// records that cannot be reconciled to coordinates. Kept distinct from
// NO_TECHNICIAN_AVAILABLE so operators can tell "no technician" apart from
// "bad technician data".
func NewInvalidTechnicianDataError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTechnicianData,
		Message:   "Technician record cannot be reconciled to coordinates",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSpatialQueryFailedError creates a retryable spatial index error.
func NewSpatialQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSpatialQueryFailed,
		Message:   "Spatial technician query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryLookupFailedError creates a retryable registry lookup error.
func NewRegistryLookupFailedError(name string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryLookupFailed,
		Message:   "Technician registry lookup failed",
		Details:   fmt.Sprintf("name: %s, error: %s", name, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRouteCallFailedError creates a retryable routing service error. Routing
// failures are absorbed into a degraded estimate and never reach a caller.
func NewRouteCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRouteCallFailed,
		Message:   "Routing service call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to the HTTP status returned by the API.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeLocationUnavailable:   http.StatusServiceUnavailable,
	ErrCodeNoTechnicianAvailable: http.StatusServiceUnavailable,
	ErrCodeInvalidTechnicianData: http.StatusBadGateway,
}

// HTTPStatus returns the HTTP status for a code, defaulting to 500.
func HTTPStatus(code ErrorCode) int {
	if status, exists := HTTPStatusMapping[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidTechnicianData:
		return false
	default:
		return true
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TECHNICIAN"):
		return "DISPATCH"
	case strings.Contains(codeStr, "LOCATION") || strings.Contains(codeStr, "SPATIAL"):
		return "GEO"
	case strings.Contains(codeStr, "ROUTE"):
		return "ROUTING"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "REGISTRY"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
