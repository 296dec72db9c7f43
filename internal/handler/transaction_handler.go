package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/middleware"
	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/pkg/daterange"
	"github.com/posadmin/reports-gateway/pkg/supersede"
)

type TransactionHandler struct {
	service service.ReportService
	guard   *supersede.Guard
	now     func() time.Time
}

func NewTransactionHandler(s service.ReportService) *TransactionHandler {
	return &TransactionHandler{service: s, guard: supersede.NewGuard(), now: time.Now}
}

// GetTransactions returns the history table.
// Query params: start_date, end_date, search, status, limit (default 100).
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	rng := daterange.Trailing(h.now(), 30)
	start, okStart := daterange.ParseISO(c.Query("start_date"))
	end, okEnd := daterange.ParseISO(c.Query("end_date"))
	if okStart && okEnd && !end.Before(start) {
		rng = daterange.Range{Start: start, End: end}
	}

	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	query := backend.TransactionQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Limit:  limit,
	}

	// Search keystrokes arrive as rapid re-requests; the guard keeps only
	// the latest one per user.
	key := guardKey(c, "transactions")
	ctx, tok := h.guard.Begin(c.UserContext(), key)

	view := h.service.Transactions(ctx, middleware.Token(c), rng, query)

	if !h.guard.Commit(tok, func() {}) {
		return c.Status(499).JSON(fiber.Map{"error": "Request superseded"})
	}
	return c.JSON(view)
}

// GetTransaction returns one receipt for the detail modal.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	detail, err := h.service.Transaction(c.UserContext(), middleware.Token(c), c.Params("id"))
	if err != nil {
		return backendError(c, err, "Failed to fetch transaction")
	}
	return c.JSON(detail)
}
