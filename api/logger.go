package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kfenech/ferrywatch/infra/logger"
)

// NewLogger returns a request logging middleware writing through the given
// component logger.
func NewLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		msg := "request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()

		ipAddress := c.IP()
		if forwardedIP := c.Get("X-Forwarded-For", ""); forwardedIP != "" {
			ipAddress = forwardedIP
		}

		format := "%d %s %s ip=%s latency=%s agent=%q: %s"
		args := []any{code, c.Method(), c.Path(), ipAddress,
			time.Since(startTime), c.Get(fiber.HeaderUserAgent), msg}

		switch {
		case code >= fiber.StatusInternalServerError:
			log.Errorf(format, args...)
		case code >= fiber.StatusBadRequest:
			log.Warnf(format, args...)
		default:
			log.Infof(format, args...)
		}

		return nil
	}
}
