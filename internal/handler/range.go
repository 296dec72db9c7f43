package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/posadmin/reports-gateway/pkg/daterange"
)

// resolveRange reads the date window from query params. A period filter
// (period + optional anchor) wins over explicit start_date/end_date; with
// neither, or with an inverted explicit range, fallback applies.
func resolveRange(c *fiber.Ctx, now func() time.Time, fallback daterange.Range) (daterange.Range, daterange.Period, bool) {
	if p := c.Query("period"); p != "" {
		period := daterange.ParsePeriod(p)
		anchor := now()
		if a, ok := daterange.ParseISO(c.Query("anchor")); ok {
			anchor = a
		}
		return daterange.Resolve(period, anchor), period, true
	}

	start, okStart := daterange.ParseISO(c.Query("start_date"))
	end, okEnd := daterange.ParseISO(c.Query("end_date"))
	if okStart && okEnd && !end.Before(start) {
		return daterange.Range{Start: start, End: end}, daterange.Daily, false
	}

	return fallback, daterange.Daily, false
}
