package main

import (
	"time"

	"github.com/labstack/echo/v4"

	"taskchat/internal/logging"
)

// requestLogger writes one structured logrus line per request carrying the
// echo request-id, method, path, status and duration (SPEC_FULL.md §12).
// The request-id is not passed down into the context, so agent, tool and
// LLM-adapter log lines do not carry it; those correlate by trace_id instead.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			entry := logging.Log.WithFields(map[string]interface{}{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"method":     c.Request().Method,
				"path":       c.Path(),
				"status":     status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if err != nil {
				entry.WithError(err).Error("request_failed")
			} else {
				entry.Info("request_handled")
			}
			return err
		}
	}
}
