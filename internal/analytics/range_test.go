package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRangeWindows(t *testing.T) {
	today := time.Date(2024, 5, 20, 15, 4, 5, 0, time.UTC)

	cases := []struct {
		period Period
		days   int
		start  string
	}{
		{PeriodWeek, 7, "2024-05-14"},
		{PeriodMonth, 30, "2024-04-21"},
		{PeriodQuarter, 90, "2024-02-21"},
		{Period("bogus"), 7, "2024-05-14"},
	}
	for _, tc := range cases {
		r := ResolveRange(tc.period, today)
		assert.Equal(t, tc.days, r.Days(), string(tc.period))
		assert.Equal(t, tc.start, r.StartKey(), string(tc.period))
		assert.Equal(t, "2024-05-20", r.EndKey(), string(tc.period))
	}
}

func TestResolveRangeTruncatesClock(t *testing.T) {
	morning := ResolveRange(PeriodWeek, time.Date(2024, 5, 20, 0, 0, 1, 0, time.UTC))
	evening := ResolveRange(PeriodWeek, time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, morning, evening)
}

func TestDateRangeDaysDegenerate(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 0, r.Days())
}

func TestDayKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	late := time.Date(2024, 5, 21, 3, 0, 0, 0, loc)
	assert.Equal(t, "2024-05-20", DayKey(late))
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodWeek, ParsePeriod("week"))
	assert.Equal(t, PeriodMonth, ParsePeriod("month"))
	assert.Equal(t, PeriodQuarter, ParsePeriod("quarter"))
	assert.Equal(t, PeriodWeek, ParsePeriod(""))
	assert.Equal(t, PeriodWeek, ParsePeriod("decade"))
}
