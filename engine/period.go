package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// PERIOD SELECTOR - Month / quarter / year, exactly one active
// =============================================================================

// Granularity is one of the three interchangeable period granularities.
type Granularity string

const (
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ValidGranularity reports whether s names a known granularity.
func ValidGranularity(s string) bool {
	switch Granularity(s) {
	case GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// Selector holds all three period values side by side plus the active
// granularity. Switching granularity keeps the other two values so the
// user can toggle back without losing their pick; only the active value
// is ever read by the filter.
type Selector struct {
	Granularity Granularity `json:"granularity"`
	Month       string      `json:"month"`   // YYYY-MM
	Quarter     string      `json:"quarter"` // YYYY-Qn
	Year        string      `json:"year"`    // YYYY
}

// Value returns the period value for the active granularity.
func (s Selector) Value() string {
	switch s.Granularity {
	case GranularityQuarter:
		return s.Quarter
	case GranularityYear:
		return s.Year
	default:
		return s.Month
	}
}

// Key returns a compact identifier for the selected period, used to
// scope per-period data such as objectives.
func (s Selector) Key() string {
	switch s.Granularity {
	case GranularityQuarter:
		return "Q-" + s.Quarter
	case GranularityYear:
		return "Y-" + s.Year
	default:
		return "M-" + s.Month
	}
}

// DefaultSelector selects the month containing now, pre-filling the
// quarter and year values for quick toggling.
func DefaultSelector(now time.Time) Selector {
	return Selector{
		Granularity: GranularityMonth,
		Month:       now.Format("2006-01"),
		Quarter:     fmt.Sprintf("%d-Q%d", now.Year(), QuarterOf(now)),
		Year:        strconv.Itoa(now.Year()),
	}
}

// =============================================================================
// DATE PARSING AND PERIOD MEMBERSHIP
// =============================================================================

// dateLayouts are tried in order when parsing record dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date from a cell value. The boolean is
// false for empty or unparseable input; callers exclude such rows
// rather than erroring.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// QuarterOf returns the calendar quarter of t, Q1 = January through
// March. The same convention is used everywhere a quarter is derived.
func QuarterOf(t time.Time) int { return (int(t.Month())-1)/3 + 1 }

// InPeriod reports whether the date string falls inside the selected
// period. Invalid dates and malformed selector values exclude the row;
// the filter never errors.
func InPeriod(dateStr string, sel Selector) bool {
	d, ok := ParseDate(dateStr)
	if !ok {
		return false
	}
	switch sel.Granularity {
	case GranularityMonth:
		year, month, ok := splitYearMonth(sel.Month)
		return ok && d.Year() == year && int(d.Month()) == month
	case GranularityQuarter:
		year, quarter, ok := splitYearQuarter(sel.Quarter)
		return ok && d.Year() == year && QuarterOf(d) == quarter
	case GranularityYear:
		year, err := strconv.Atoi(strings.TrimSpace(sel.Year))
		return err == nil && d.Year() == year
	default:
		return false
	}
}

func splitYearMonth(s string) (int, int, bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func splitYearQuarter(s string) (int, int, bool) {
	parts := strings.SplitN(s, "-Q", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	quarter, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || quarter < 1 || quarter > 4 {
		return 0, 0, false
	}
	return year, quarter, true
}
