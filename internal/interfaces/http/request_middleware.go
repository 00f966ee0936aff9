package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/dealerhub-api/internal/application/dto"
	"github.com/jhoicas/dealerhub-api/internal/application/ports"
)

// RequestLogger registra cada petición con zerolog: método, ruta, status, latencia, request id y dealer.
// Se monta después de requestid.New() y antes de las rutas.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error().Err(err)
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP())
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ev = ev.Str("request_id", rid)
		}
		if dealerID := GetDealerID(c); dealerID != "" {
			ev = ev.Str("dealer_id", dealerID)
		}
		ev.Msg("http")
		return err
	}
}

// RateLimit limita las peticiones por IP del cliente dentro de window (429 al superar limit).
// limiter nil o limit <= 0 deshabilita el control; un fallo de Redis deja pasar la petición.
func RateLimit(limiter ports.RateLimiter, scope string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}
		allowed, err := limiter.Allow(c.Context(), scope+":"+c.IP(), limit, window)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limit no disponible; se permite la petición")
			return c.Next()
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window/time.Second)))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos, intente más tarde",
			})
		}
		return c.Next()
	}
}
