// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidInput))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeLocationUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrCodeNoTechnicianAvailable))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrCodeInvalidTechnicianData))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrorCode("SOMETHING_ELSE")))
}

func TestRetryableClassification(t *testing.T) {
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidTechnicianData))
	assert.True(t, IsRetryableErrorCode(ErrCodeNoTechnicianAvailable))
	assert.True(t, IsRetryableErrorCode(ErrCodeLocationUnavailable))
}

func TestConstructorsCarryDetails(t *testing.T) {
	cause := errors.New("connection refused")

	stdErr := NewNoTechnicianAvailableError(cause)
	assert.Equal(t, ErrCodeNoTechnicianAvailable, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "connection refused")

	stdErr = NewInvalidTechnicianDataError("no populated shape")
	assert.Equal(t, ErrCodeInvalidTechnicianData, stdErr.Code)
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Error(), "INVALID_TECHNICIAN_DATA")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DISPATCH", GetErrorCategory(ErrCodeNoTechnicianAvailable))
	assert.Equal(t, "GEO", GetErrorCategory(ErrCodeLocationUnavailable))
	assert.Equal(t, "ROUTING", GetErrorCategory(ErrCodeRouteCallFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
}
