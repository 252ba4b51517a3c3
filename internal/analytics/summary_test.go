package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekOf(end time.Time) DateRange {
	return ResolveRange(PeriodWeek, end)
}

func TestComputeSummaryDerivedMetrics(t *testing.T) {
	r := weekOf(day(2024, 5, 7))
	bySubject := map[string]int{"Math": 90, "English": 40}
	byDay := map[string]int{"2024-05-05": 70, "2024-05-06": 60}

	s := ComputeSummary(bySubject, byDay, r)

	assert.Equal(t, 130, s.TotalMinutes)
	assert.Equal(t, 2, s.TotalHours)
	assert.Equal(t, 10, s.RemainderMinutes)
	assert.Equal(t, 2, s.DaysStudied)
	assert.Equal(t, 7, s.TotalDays)
	assert.Equal(t, 65, s.AverageMinutesPerDay)
	assert.Equal(t, 1, s.AverageHours)
	assert.Equal(t, 5, s.AverageRemainderMinutes)
	assert.Equal(t, 29, s.StudyRatePercent) // round(2/7*100)
	assert.Equal(t, SubjectStat{Name: "Math", Minutes: 90}, s.MostStudiedSubject)
	require.NotNil(t, s.MostActiveDay)
	assert.Equal(t, DayStat{Date: "2024-05-05", Minutes: 70}, *s.MostActiveDay)
}

func TestComputeSummaryEmptyInput(t *testing.T) {
	s := ComputeSummary(nil, nil, weekOf(day(2024, 5, 7)))

	assert.Equal(t, 0, s.TotalMinutes)
	assert.Equal(t, 0, s.DaysStudied)
	assert.Equal(t, 0, s.AverageMinutesPerDay)
	assert.Equal(t, 0, s.AverageHours)
	assert.Equal(t, 0, s.AverageRemainderMinutes)
	assert.Equal(t, 0, s.StudyRatePercent)
	assert.Equal(t, SubjectStat{Name: NoSubject, Minutes: 0}, s.MostStudiedSubject)
	assert.Nil(t, s.MostActiveDay)
}

func TestComputeSummaryZeroTotalDays(t *testing.T) {
	degenerate := DateRange{Start: day(2024, 5, 8), End: day(2024, 5, 7)}
	s := ComputeSummary(nil, map[string]int{"2024-05-07": 30}, degenerate)
	assert.Equal(t, 0, s.StudyRatePercent)
	assert.Equal(t, 30, s.AverageMinutesPerDay)
}

func TestComputeSummaryTieBreaksLexicographic(t *testing.T) {
	bySubject := map[string]int{"Science": 60, "Math": 60, "Art": 60}
	byDay := map[string]int{"2024-05-03": 50, "2024-05-01": 50, "2024-05-02": 50}

	s := ComputeSummary(bySubject, byDay, weekOf(day(2024, 5, 7)))

	assert.Equal(t, "Art", s.MostStudiedSubject.Name)
	require.NotNil(t, s.MostActiveDay)
	assert.Equal(t, "2024-05-01", s.MostActiveDay.Date)
}

func TestEvaluationAverages(t *testing.T) {
	evals := []Evaluation{
		{Date: day(2024, 5, 1), Satisfaction: 4, Achievement: 3, Focus: 5},
		{Date: day(2024, 5, 2), Satisfaction: 5, Achievement: 4, Focus: 4},
		{Date: day(2024, 5, 3), Satisfaction: 3, Achievement: 3, Focus: 2},
	}
	avg := EvaluationAverages(evals)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.0, avg.Satisfaction, 0.001)
	assert.InDelta(t, 3.3, avg.Achievement, 0.001)
	assert.InDelta(t, 3.7, avg.Focus, 0.001)
}

func TestEvaluationAveragesEmptyIsNil(t *testing.T) {
	assert.Nil(t, EvaluationAverages(nil))
	assert.Nil(t, EvaluationAverages([]Evaluation{}))
}

func TestHoursRounding(t *testing.T) {
	assert.InDelta(t, 1.5, Hours(90), 0.001)
	assert.InDelta(t, 0.8, Hours(50), 0.001)
	assert.InDelta(t, 0.0, Hours(0), 0.001)
	assert.InDelta(t, 1.0, Hours(62), 0.001)
}
