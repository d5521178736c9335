package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/indrhi/suministros-api/internal/infrastructure/metrics"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// RequestLogger registra cada petición (método, ruta, estado, latencia) y alimenta las métricas HTTP.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// El estado final lo fija el ErrorHandler; se invoca aquí para medirlo.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("usuario", GetUserID(c)).
			Msg("petición")
		return nil
	}
}
