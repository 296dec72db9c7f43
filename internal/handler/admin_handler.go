package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/middleware"
)

// AdminBackend is the slice of the POS client behind the admin routes.
// These are passthroughs, the gateway adds auth and nothing else.
type AdminBackend interface {
	Users(ctx context.Context, token string) (json.RawMessage, error)
	DeleteUser(ctx context.Context, token, id string) error
	AuditLogs(ctx context.Context, token string) (json.RawMessage, error)
	Backup(ctx context.Context, token string) (io.ReadCloser, error)
}

type AdminHandler struct {
	backend AdminBackend
}

func NewAdminHandler(b AdminBackend) *AdminHandler {
	return &AdminHandler{backend: b}
}

func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	raw, err := h.backend.Users(c.UserContext(), middleware.Token(c))
	if err != nil {
		return backendError(c, err, "Failed to fetch users")
	}
	return rawJSON(c, raw)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.backend.DeleteUser(c.UserContext(), middleware.Token(c), c.Params("id")); err != nil {
		return backendError(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *AdminHandler) GetAuditLogs(c *fiber.Ctx) error {
	raw, err := h.backend.AuditLogs(c.UserContext(), middleware.Token(c))
	if err != nil {
		return backendError(c, err, "Failed to fetch audit logs")
	}
	return rawJSON(c, raw)
}

// GetBackup streams the backend's database dump straight through.
func (h *AdminHandler) GetBackup(c *fiber.Ctx) error {
	body, err := h.backend.Backup(c.UserContext(), middleware.Token(c))
	if err != nil {
		return backendError(c, err, "Failed to fetch backup")
	}

	c.Set(fiber.HeaderContentType, "application/octet-stream")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="Backup_%s.sql"`, time.Now().Format("2006-01-02")))
	return c.SendStream(body)
}

func rawJSON(c *fiber.Ctx, raw json.RawMessage) error {
	if len(raw) == 0 {
		raw = json.RawMessage("[]")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send([]byte(`{"data":` + string(raw) + `}`))
}
