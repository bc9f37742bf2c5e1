// Package period resolves symbolic analysis periods into calendar ranges.
package period

import (
	"errors"
	"fmt"
	"time"
)

// Supported period tokens.
const (
	OneWeek    = "1-week"
	TwoWeeks   = "2-weeks"
	OneMonth   = "1-month"
	OneQuarter = "1-quarter"
	SixMonths  = "6-months"
	OneYear    = "1-year"
)

// ErrUnsupportedPeriod reports a period token outside the supported set.
var ErrUnsupportedPeriod = errors.New("unsupported period")

// Tokens lists the supported period tokens in display order.
func Tokens() []string {
	return []string{OneWeek, TwoWeeks, OneMonth, OneQuarter, SixMonths, OneYear}
}

// Valid reports whether token is a supported period.
func Valid(token string) bool {
	switch token {
	case OneWeek, TwoWeeks, OneMonth, OneQuarter, SixMonths, OneYear:
		return true
	}
	return false
}

// Range is an inclusive calendar date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// StartDate computes the start of the period ending at end. Month-based
// periods clamp the day to the last valid day of the target month; the
// year period clamps Feb 29 to Feb 28 on non-leap targets. The result is
// never earlier than minDate (the archive holds no data before it).
func StartDate(end time.Time, token string, minDate time.Time) (time.Time, error) {
	var start time.Time
	switch token {
	case OneWeek:
		start = end.AddDate(0, 0, -7)
	case TwoWeeks:
		start = end.AddDate(0, 0, -14)
	case OneMonth:
		start = subtractMonths(end, 1)
	case OneQuarter:
		start = subtractMonths(end, 3)
	case SixMonths:
		start = subtractMonths(end, 6)
	case OneYear:
		start = subtractYears(end, 1)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedPeriod, token)
	}
	if start.Before(minDate) {
		return minDate, nil
	}
	return start, nil
}

// SplitRange partitions [start, end] into consecutive, gap-free sub-ranges
// of at most maxSpanDays days each (inclusive bounds). The first sub-range
// starts at start and the last ends at end. Requires start <= end.
func SplitRange(start, end time.Time, maxSpanDays int) []Range {
	var ranges []Range
	cur := start
	for !cur.After(end) {
		chunkEnd := cur.AddDate(0, 0, maxSpanDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		ranges = append(ranges, Range{Start: cur, End: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return ranges
}

// subtractMonths moves d back by whole months, rolling the year over and
// clamping the day to the target month's length. time.AddDate is not used
// here because it normalizes overflow (Mar 31 - 1 month would land on
// Mar 2/3) instead of clamping.
func subtractMonths(d time.Time, months int) time.Time {
	year := d.Year()
	month := int(d.Month()) - months
	for month <= 0 {
		month += 12
		year--
	}
	day := d.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, d.Location())
}

func subtractYears(d time.Time, years int) time.Time {
	year := d.Year() - years
	day := d.Day()
	if d.Month() == time.February && day == 29 && daysInMonth(year, time.February) < 29 {
		day = 28
	}
	return time.Date(year, d.Month(), day, 0, 0, 0, 0, d.Location())
}

// daysInMonth relies on day zero of the following month normalizing to the
// last day of m.
func daysInMonth(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
