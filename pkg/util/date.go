package util

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
	time.RFC3339Nano,
}

// TruncateDate drops a trailing time-of-day component ("2024-01-02 00:00:00"
// or "2024-01-02T00:00:00Z") and surrounding whitespace.
func TruncateDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " T"); i > 0 {
		return s[:i]
	}
	return s
}

// NormalizeDate truncates s and rewrites any parseable date as YYYY-MM-DD,
// so "2024-1-9" and "2024-01-09 00:00:00" share one key. Unparseable input
// is returned truncated.
func NormalizeDate(s string) string {
	s = TruncateDate(s)
	if t, ok := ParseDate(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

// ParseDate tries the supported calendar layouts. Returns (t, true) if any worked.
func ParseDate(s string) (time.Time, bool) {
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

// CompareDates orders by calendar date. Strings that do not parse sort after
// every parseable date and compare lexically among themselves.
func CompareDates(a, b string) int {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	switch {
	case okA && okB:
		if c := ta.Compare(tb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
