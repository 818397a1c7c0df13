// Package response writes the JSON envelopes shared by every API endpoint.
package response

import (
	"net/http"

	deliverycontext "gatekeeper/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Meta    *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`          // User-friendly error message
	Code    string    `json:"code"`             // Machine-readable error code, e.g., "VALIDATION_ERROR"
	Errors  any       `json:"errors,omitempty"` // Field-level details (only for 4xx errors)
	Meta    *MetaInfo `json:"meta"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta(c),
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	// Details should not be included for 5xx errors or authentication errors
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized {
		details = nil
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Code:    errorCode,
		Errors:  details,
		Meta:    meta(c),
	})
}

// NotFound returns a 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}
