package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger emits one structured line per request. Lines on patient or record
// routes carry the addressed ids so log searches can follow a single chart
// across both stores.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", c.Response().Status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			// Patient routes bind the id as :id, record routes as :patientId.
			if pid := firstParam(c, "patientId", "id"); pid != "" {
				evt = evt.Str("patient_id", pid)
			}
			if recID := c.Param("recordId"); recID != "" {
				evt = evt.Str("record_id", recID)
			}
			evt.Msg("request")

			return err
		}
	}
}

func firstParam(c echo.Context, names ...string) string {
	for _, name := range names {
		if v := c.Param(name); v != "" {
			return v
		}
	}
	return ""
}
