package daterange

import (
	"fmt"
	"strings"
	"time"
)

// Period is the coarse filter selection from the dashboard calendar filter.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// ParsePeriod maps the raw filter string to a Period. Unknown values fall
// back to Daily, matching the calendar filter's default branch.
func ParsePeriod(s string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly
	case Monthly:
		return Monthly
	case Yearly:
		return Yearly
	default:
		return Daily
	}
}

// Range is an immutable start/end date pair. Start <= End always holds for
// ranges produced by Resolve.
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve maps a period + anchor date to the concrete date range the reports
// are fetched for. Times are truncated to midnight in the anchor's location.
func Resolve(period Period, anchor time.Time) Range {
	loc := anchor.Location()
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	switch period {
	case Weekly:
		// ISO week, Monday start. time.Weekday has Sunday == 0.
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := day.AddDate(0, 0, -(weekday - 1))
		return Range{Start: start, End: start.AddDate(0, 0, 6)}
	case Monthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 1, -1)}
	case Yearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, loc)}
	default: // Daily
		return Range{Start: day, End: day}
	}
}

// Previous returns the range immediately preceding r for the same period,
// used for real period-over-period comparisons.
func Previous(period Period, r Range) Range {
	switch period {
	case Weekly:
		return Range{Start: r.Start.AddDate(0, 0, -7), End: r.End.AddDate(0, 0, -7)}
	case Monthly:
		start := r.Start.AddDate(0, -1, 0)
		return Range{Start: start, End: start.AddDate(0, 1, -1)}
	case Yearly:
		return Range{Start: r.Start.AddDate(-1, 0, 0), End: r.End.AddDate(-1, 0, 0)}
	default:
		return Range{Start: r.Start.AddDate(0, 0, -1), End: r.End.AddDate(0, 0, -1)}
	}
}

// ShiftBack returns the window of the same length immediately preceding r.
// Used for period-over-period baselines when r is a custom range rather
// than a resolved period.
func ShiftBack(r Range) Range {
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	return Range{Start: r.Start.AddDate(0, 0, -days), End: r.End.AddDate(0, 0, -days)}
}

// Trailing returns the last n days ending today, the default window the
// dashboard loads before any filter is applied.
func Trailing(now time.Time, days int) Range {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return Range{Start: end.AddDate(0, 0, -days), End: end}
}

const isoDate = "2006-01-02"

// StartISO returns the range start as yyyy-MM-dd.
func (r Range) StartISO() string { return r.Start.Format(isoDate) }

// EndISO returns the range end as yyyy-MM-dd.
func (r Range) EndISO() string { return r.End.Format(isoDate) }

// Filename builds the export file name stem for a report covering r,
// e.g. "Sales_Report_2024-02-01_to_2024-02-29".
func (r Range) Filename(reportName string) string {
	return fmt.Sprintf("%s_%s_to_%s", reportName, r.StartISO(), r.EndISO())
}

// ParseISO parses a yyyy-MM-dd query value. The ok flag is false for empty
// or malformed input so callers can fall back to their default window.
func ParseISO(s string) (time.Time, bool) {
	t, err := time.Parse(isoDate, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
