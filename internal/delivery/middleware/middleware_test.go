package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"account/config"
	deliverycontext "account/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "propagates client id", header: "req-123", wantSame: true},
		{name: "generates when missing", header: ""},
		{name: "replaces overlong id", header: strings.Repeat("x", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenID string
			var seenLogger *slog.Logger
			mw := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
			err := mw.Process(func(c echo.Context) error {
				seenID = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				seenLogger = deliverycontext.GetLogger(c.Request().Context())

				return nil
			})(c)
			require.NoError(t, err)

			require.NotEmpty(t, seenID)
			assert.NotNil(t, seenLogger)
			assert.Equal(t, seenID, rec.Header().Get(deliverycontext.HeaderXRequestID))
			assert.Equal(t, seenID, deliverycontext.GetRequestID(c))
			if tt.wantSame {
				assert.Equal(t, tt.header, seenID)
			} else {
				assert.NotEqual(t, tt.header, seenID)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	for _, debug := range []bool{true, false} {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		cfg := &config.Config{}
		cfg.Env.Debug = debug

		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())

		err := NewLoggerMiddleware(logger, cfg).Handle(func(c echo.Context) error {
			return c.NoContent(http.StatusTeapot)
		})(c)
		require.NoError(t, err)

		if debug {
			assert.Contains(t, buf.String(), "HTTP Request")
			assert.Contains(t, buf.String(), "status=418")
		} else {
			assert.Empty(t, buf.String())
		}
	}
}

func TestLoggerMiddleware_LogsRenderedError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := &config.Config{}
	cfg.Env.Debug = true

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/users", nil), rec)

	err := NewLoggerMiddleware(logger, cfg).Handle(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "email taken")
	})(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.True(t, c.Response().Committed)
	assert.Contains(t, buf.String(), "status=409")
	assert.Contains(t, buf.String(), "email taken")
	assert.Contains(t, buf.String(), "level=WARN")
}
