package analytics

import "time"

// Period selects the window length for stats queries.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

const dateLayout = "2006-01-02"

// ParsePeriod normalises a raw period string, falling back to week for
// anything unrecognised.
func ParsePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodMonth:
		return PeriodMonth
	case PeriodQuarter:
		return PeriodQuarter
	default:
		return PeriodWeek
	}
}

// DateRange is an inclusive calendar-day window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange returns the inclusive N-day window ending on today:
// 7 days for week, 30 for month, 90 for quarter. Unknown periods fall
// back to week. Both bounds are truncated to midnight UTC so range
// arithmetic is stable regardless of the wall clock time of day.
func ResolveRange(period Period, today time.Time) DateRange {
	days := 7
	switch period {
	case PeriodMonth:
		days = 30
	case PeriodQuarter:
		days = 90
	}
	end := truncateDay(today)
	start := end.AddDate(0, 0, -(days - 1))
	return DateRange{Start: start, End: end}
}

// Days returns the inclusive day count of the range. A degenerate
// range (end before start) counts as zero.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// StartKey returns the yyyy-MM-dd key of the first day.
func (r DateRange) StartKey() string {
	return r.Start.Format(dateLayout)
}

// EndKey returns the yyyy-MM-dd key of the last day.
func (r DateRange) EndKey() string {
	return r.End.Format(dateLayout)
}

// DayKey normalises a timestamp to its yyyy-MM-dd grouping key.
func DayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
