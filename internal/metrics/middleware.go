package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const slowRequestThreshold = time.Second

// HTTPMetricsMiddleware records request counts, latency and response size per
// route template. Errors are rendered here so the recorded status is the one
// the client receives. Paths in skip bypass recording.
func HTTPMetricsMiddleware(metrics *Metrics, logger *zap.Logger, skip ...string) fiber.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skipped[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		size := len(c.Response().Body())
		elapsed := time.Since(start)

		metrics.RecordHTTPRequest(c.Method(), route, strconv.Itoa(status), elapsed, size)

		if elapsed > slowRequestThreshold || status >= fiber.StatusInternalServerError {
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
				zap.String("track_id", string(c.Response().Header.Peek("X-Track-Id"))),
			}
			if status >= fiber.StatusInternalServerError {
				logger.Error("HTTP request failed", fields...)
			} else {
				logger.Warn("Slow HTTP request", fields...)
			}
		}

		return nil
	}
}
