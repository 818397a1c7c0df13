package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "gatekeeper/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	deliverycontext.SetRequestID(c, "req-1")

	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestSuccess(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Success(c, http.StatusCreated, map[string]string{"token": "t"}, "User registered successfully"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])
	assert.Equal(t, map[string]any{"token": "t"}, body["data"])
	assert.Equal(t, map[string]any{"request_id": "req-1"}, body["meta"])
}

func TestError_KeepsDetailsForClientErrors(t *testing.T) {
	c, rec := newContext()
	details := []map[string]string{{"field": "email", "message": "email is required"}}

	require.NoError(t, Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation error", details))

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "Validation error", body["message"])
	assert.Len(t, body["errors"], 1)
}

func TestError_DropsDetailsForServerAndAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusInternalServerError} {
		c, rec := newContext()

		require.NoError(t, Error(c, status, "X", "", "secret detail"))

		body := decode(t, rec)
		assert.NotContains(t, body, "errors")
		assert.Equal(t, http.StatusText(status), body["message"])
	}
}
