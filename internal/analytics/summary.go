package analytics

import "math"

// NoSubject is the sentinel name reported when no study time exists.
const NoSubject = "none"

// SubjectStat names a subject with its accumulated minutes.
type SubjectStat struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

// DayStat names a calendar day with its accumulated minutes.
type DayStat struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// Summary is the derived-metric block for a student over a range.
type Summary struct {
	TotalMinutes            int         `json:"total_minutes"`
	TotalHours              int         `json:"total_hours"`
	RemainderMinutes        int         `json:"remainder_minutes"`
	DaysStudied             int         `json:"days_studied"`
	TotalDays               int         `json:"total_days"`
	AverageMinutesPerDay    int         `json:"average_minutes_per_day"`
	AverageHours            int         `json:"average_hours"`
	AverageRemainderMinutes int         `json:"average_remainder_minutes"`
	StudyRatePercent        int         `json:"study_rate_percent"`
	MostStudiedSubject   SubjectStat `json:"most_studied_subject"`
	MostActiveDay        *DayStat    `json:"most_active_day"`
}

// EvaluationAverage holds one-decimal means of the three levels.
type EvaluationAverage struct {
	Satisfaction float64 `json:"satisfaction"`
	Achievement  float64 `json:"achievement"`
	Focus        float64 `json:"focus"`
}

// ComputeSummary derives the metric block from the grouped totals.
// Divisions are guarded: averages and the study rate are zero when
// their denominator is zero. Extrema scans break ties towards the
// lexicographically smallest key so results do not depend on map
// iteration order.
func ComputeSummary(bySubject, byDay map[string]int, r DateRange) Summary {
	total := 0
	for _, minutes := range byDay {
		total += minutes
	}

	s := Summary{
		TotalMinutes:       total,
		TotalHours:         total / 60,
		RemainderMinutes:   total % 60,
		DaysStudied:        len(byDay),
		TotalDays:          r.Days(),
		MostStudiedSubject: SubjectStat{Name: NoSubject},
	}

	if s.DaysStudied > 0 {
		s.AverageMinutesPerDay = int(math.Round(float64(total) / float64(s.DaysStudied)))
		s.AverageHours = s.AverageMinutesPerDay / 60
		s.AverageRemainderMinutes = s.AverageMinutesPerDay % 60
	}
	if s.TotalDays > 0 {
		s.StudyRatePercent = int(math.Round(float64(s.DaysStudied) / float64(s.TotalDays) * 100))
	}

	if name, minutes, ok := maxEntry(bySubject); ok {
		s.MostStudiedSubject = SubjectStat{Name: name, Minutes: minutes}
	}
	if date, minutes, ok := maxEntry(byDay); ok {
		s.MostActiveDay = &DayStat{Date: date, Minutes: minutes}
	}

	return s
}

// EvaluationAverages returns one-decimal means of the levels, or nil
// when no evaluations exist. Callers serialise nil as JSON null.
func EvaluationAverages(evals []Evaluation) *EvaluationAverage {
	if len(evals) == 0 {
		return nil
	}
	var satisfaction, achievement, focus int
	for _, e := range evals {
		satisfaction += e.Satisfaction
		achievement += e.Achievement
		focus += e.Focus
	}
	n := float64(len(evals))
	return &EvaluationAverage{
		Satisfaction: roundOne(float64(satisfaction) / n),
		Achievement:  roundOne(float64(achievement) / n),
		Focus:        roundOne(float64(focus) / n),
	}
}

// Hours converts minutes to hours rounded to one decimal place.
func Hours(minutes int) float64 {
	return roundOne(float64(minutes) / 60)
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

func maxEntry(totals map[string]int) (key string, max int, ok bool) {
	for k, v := range totals {
		if !ok || v > max || (v == max && k < key) {
			key, max, ok = k, v, true
		}
	}
	return key, max, ok
}
