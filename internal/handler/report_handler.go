package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/middleware"
	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/pkg/daterange"
	"github.com/posadmin/reports-gateway/pkg/supersede"
)

type ReportHandler struct {
	service service.ReportService
	guard   *supersede.Guard
	now     func() time.Time
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s, guard: supersede.NewGuard(), now: time.Now}
}

// GetSalesReport builds the sales page payload.
// Query params: period, anchor, start_date, end_date, trend, category.
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	rng, period, resolved := resolveRange(c, h.now, daterange.Trailing(h.now(), 30))

	opts := service.SalesOptions{
		TrendMetric:    c.Query("trend", "revenue"),
		CategoryMetric: c.Query("category", "revenue"),
		Resolved:       resolved,
		Period:         period,
	}

	view := h.fetchSales(c, rng, opts)
	if view == nil {
		return c.Status(499).JSON(fiber.Map{"error": "Request superseded"})
	}
	return c.JSON(view)
}

// fetchSales runs the aggregation under the per-user supersede guard so a
// newer request for the same report cancels and discards an in-flight
// older one.
func (h *ReportHandler) fetchSales(c *fiber.Ctx, rng daterange.Range, opts service.SalesOptions) *service.SalesView {
	key := guardKey(c, "sales")
	ctx, tok := h.guard.Begin(c.UserContext(), key)

	view := h.service.SalesReport(ctx, middleware.Token(c), rng, opts)

	var out *service.SalesView
	if h.guard.Commit(tok, func() { out = view }) {
		return out
	}
	return nil
}

// GetProfitabilityReport builds the margin ranking payload. Defaults to
// the current calendar month.
func (h *ReportHandler) GetProfitabilityReport(c *fiber.Ctx) error {
	rng, _, _ := resolveRange(c, h.now, daterange.Resolve(daterange.Monthly, h.now()))

	key := guardKey(c, "profitability")
	ctx, tok := h.guard.Begin(c.UserContext(), key)

	view := h.service.ProfitabilityReport(ctx, middleware.Token(c), rng)

	committed := h.guard.Commit(tok, func() {})
	if !committed {
		return c.Status(499).JSON(fiber.Map{"error": "Request superseded"})
	}
	return c.JSON(view)
}

// GetInventoryReport builds the stock overview payload. Inventory is a
// point-in-time snapshot, no date range applies.
func (h *ReportHandler) GetInventoryReport(c *fiber.Ctx) error {
	key := guardKey(c, "inventory")
	ctx, tok := h.guard.Begin(c.UserContext(), key)

	view := h.service.InventoryReport(ctx, middleware.Token(c))

	if !h.guard.Commit(tok, func() {}) {
		return c.Status(499).JSON(fiber.Map{"error": "Request superseded"})
	}
	return c.JSON(view)
}

// guardKey scopes supersession to one user and one report so concurrent
// users never cancel each other.
func guardKey(c *fiber.Ctx, report string) string {
	userID, _ := c.Locals("user_id").(string)
	return userID + "/" + report
}
