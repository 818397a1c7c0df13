package middleware

import (
	"log/slog"
	"net/http"

	"gatekeeper/internal/delivery/api/response"
	deliverycontext "gatekeeper/internal/delivery/context"
	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// StatusForKind maps an error kind to its HTTP status code.
func StatusForKind(kind domainerrors.Kind) int {
	switch kind {
	case domainerrors.KindValidation, domainerrors.KindDuplicateEmail:
		return http.StatusBadRequest
	case domainerrors.KindInvalidCredentials, domainerrors.KindMissingToken, domainerrors.KindInvalidToken:
		return http.StatusUnauthorized
	case domainerrors.KindUserNotFound:
		return http.StatusNotFound
	case domainerrors.KindTooManyRequests:
		return http.StatusTooManyRequests
	case domainerrors.KindStorageUnavailable, domainerrors.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		status := StatusForKind(appErr.Kind())
		if status >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
		}

		_ = response.Error(c, status, appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		m.handleEchoError(c, httpErr)

		return
	}

	// Log the error but return a generic message (do not expose internal details)
	m.logUnhandled(c, err)
	_ = response.InternalServerError(c, domainerrors.ErrInternalError.ErrorCode(), domainerrors.ErrInternalError.Message())
}

func (m *ErrorMiddleware) handleEchoError(c echo.Context, httpErr *echo.HTTPError) {
	switch httpErr.Code {
	case http.StatusNotFound:
		_ = response.NotFound(c, "ROUTE_NOT_FOUND", "Route not found")
	case http.StatusMethodNotAllowed:
		_ = response.Error(c, httpErr.Code, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	case http.StatusRequestEntityTooLarge:
		_ = response.Error(c, httpErr.Code, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		_ = response.Error(c, httpErr.Code, domainerrors.ErrValidationFailed.ErrorCode(), "Invalid request body", nil)
	default:
		if httpErr.Code >= http.StatusInternalServerError {
			m.logUnhandled(c, httpErr)
			_ = response.InternalServerError(c, domainerrors.ErrInternalError.ErrorCode(), domainerrors.ErrInternalError.Message())

			return
		}

		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)
	}
}

func (m *ErrorMiddleware) logUnhandled(c echo.Context, err error) {
	ctx := c.Request().Context()
	deliverycontext.GetLoggerOrDefault(ctx, m.logger).LogAttrs(ctx, slog.LevelError, "Unhandled error",
		slog.String("error", err.Error()),
		slog.String("kind", domainerrors.KindOf(err).String()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
