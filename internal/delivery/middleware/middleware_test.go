package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gatekeeper/config"
	deliverycontext "gatekeeper/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	mw := NewRequestIDMiddleware(logger)

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when absent", incoming: "", keep: false},
		{name: "propagated when valid", incoming: "client-req-42", keep: true},
		{name: "replaced when too long", incoming: strings.Repeat("a", maxRequestIDLength+1), keep: false},
		{name: "replaced when not printable", incoming: "bad id\n", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen string
			err := mw.Process(func(c echo.Context) error {
				seen = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				assert.NotNil(t, deliverycontext.GetLogger(c.Request().Context()))

				return nil
			})(c)
			require.NoError(t, err)

			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, deliverycontext.GetRequestID(c))
			assert.Equal(t, seen, rec.Header().Get(deliverycontext.HeaderXRequestID))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

func TestLoggerMiddleware_LogsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mw := NewLoggerMiddleware(logger, &config.Config{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw.Handle(func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP Request", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
	assert.Equal(t, "/missing", entry["uri"])
}
