package handler

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/internal/backend"
	"github.com/posadmin/reports-gateway/internal/export"
	"github.com/posadmin/reports-gateway/internal/middleware"
	"github.com/posadmin/reports-gateway/internal/service"
	"github.com/posadmin/reports-gateway/pkg/daterange"
)

// ExportHandler serves the CSV download variants of each report page.
type ExportHandler struct {
	service service.ReportService
	now     func() time.Time
}

func NewExportHandler(s service.ReportService) *ExportHandler {
	return &ExportHandler{service: s, now: time.Now}
}

func (h *ExportHandler) ExportSales(c *fiber.Ctx) error {
	rng, period, resolved := resolveRange(c, h.now, daterange.Trailing(h.now(), 30))
	opts := service.SalesOptions{
		TrendMetric:    c.Query("trend", "revenue"),
		CategoryMetric: c.Query("category", "revenue"),
		Resolved:       resolved,
		Period:         period,
	}

	view := h.service.SalesReport(c.UserContext(), middleware.Token(c), rng, opts)
	if view.Degraded {
		return c.Status(502).JSON(fiber.Map{"error": "Report data unavailable"})
	}

	return sendCSV(c, view.Filename, func(w *bufio.Writer) error {
		return export.WriteSales(w, view)
	})
}

func (h *ExportHandler) ExportProfitability(c *fiber.Ctx) error {
	rng, _, _ := resolveRange(c, h.now, daterange.Resolve(daterange.Monthly, h.now()))

	view := h.service.ProfitabilityReport(c.UserContext(), middleware.Token(c), rng)
	if view.Degraded {
		return c.Status(502).JSON(fiber.Map{"error": "Report data unavailable"})
	}

	return sendCSV(c, view.Filename, func(w *bufio.Writer) error {
		return export.WriteProfitability(w, view)
	})
}

func (h *ExportHandler) ExportInventory(c *fiber.Ctx) error {
	view := h.service.InventoryReport(c.UserContext(), middleware.Token(c))
	if view.Degraded {
		return c.Status(502).JSON(fiber.Map{"error": "Report data unavailable"})
	}

	return sendCSV(c, view.Filename, func(w *bufio.Writer) error {
		return export.WriteInventory(w, view)
	})
}

func (h *ExportHandler) ExportTransactions(c *fiber.Ctx) error {
	rng, _, _ := resolveRange(c, h.now, daterange.Trailing(h.now(), 30))
	query := backend.TransactionQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Limit:  0,
	}

	view := h.service.Transactions(c.UserContext(), middleware.Token(c), rng, query)
	if view.Degraded {
		return c.Status(502).JSON(fiber.Map{"error": "Report data unavailable"})
	}

	return sendCSV(c, view.Filename, func(w *bufio.Writer) error {
		return export.WriteTransactions(w, view)
	})
}

func sendCSV(c *fiber.Ctx, filename string, write func(w *bufio.Writer) error) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.csv"`, filename))

	w := bufio.NewWriter(c.Response().BodyWriter())
	if err := write(w); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to write export"})
	}
	return w.Flush()
}
