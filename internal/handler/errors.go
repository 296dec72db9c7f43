package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/backend"
)

// backendError maps a POS backend failure onto the gateway response. A 404
// from the backend stays a 404; everything else collapses to 502 so the
// client can tell a missing record from an unreachable upstream.
func backendError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return c.Status(499).JSON(fiber.Map{"error": "Request superseded"})
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == fiber.StatusNotFound {
			return c.Status(404).JSON(fiber.Map{"error": apiErr.Message})
		}
		return c.Status(502).JSON(fiber.Map{"error": msg})
	}
	return c.Status(502).JSON(fiber.Map{"error": msg})
}
