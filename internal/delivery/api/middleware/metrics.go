package middleware

import (
	"time"

	"account/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts and latencies per route.
type MetricsMiddleware struct {
	recorder *metrics.Recorder
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(recorder *metrics.Recorder) *MetricsMiddleware {
	return &MetricsMiddleware{recorder: recorder}
}

// Handle records the request after the handler chain completes.
// Errors are rendered here so the recorded status matches the response.
func (m *MetricsMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		m.recorder.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))

		return nil
	}
}
