package analytics

import (
	"fmt"
	"sort"
)

// DailyPoint is a chart-ready entry for one calendar day.
type DailyPoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// EvaluationPoint is a chart-ready self-evaluation entry.
type EvaluationPoint struct {
	Date         string `json:"date"`
	Satisfaction int    `json:"satisfaction"`
	Achievement  int    `json:"achievement"`
	Focus        int    `json:"focus"`
}

// SubjectRank is a leaderboard row for subjects.
type SubjectRank struct {
	Name    string  `json:"name"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// StudentRank is a leaderboard row for the admin overview.
type StudentRank struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	Minutes   int     `json:"minutes"`
	Hours     float64 `json:"hours"`
}

// BuildDailySeries expands the per-day totals into one point per
// calendar day of the range, ascending, with zero minutes for days
// without entries. Labels use the short M/d form charts display.
func BuildDailySeries(byDay map[string]int, r DateRange) []DailyPoint {
	days := r.Days()
	series := make([]DailyPoint, 0, days)
	for i := 0; i < days; i++ {
		day := r.Start.AddDate(0, 0, i)
		key := day.Format(dateLayout)
		minutes := byDay[key]
		series = append(series, DailyPoint{
			Date:    key,
			Label:   fmt.Sprintf("%d/%d", int(day.Month()), day.Day()),
			Minutes: minutes,
			Hours:   Hours(minutes),
		})
	}
	return series
}

// BuildEvaluationTrend sorts evaluations ascending by day without gap
// filling. When a day appears more than once the last entry wins,
// matching the one-evaluation-per-day write path.
func BuildEvaluationTrend(evals []Evaluation) []EvaluationPoint {
	byDay := make(map[string]Evaluation, len(evals))
	for _, e := range evals {
		byDay[DayKey(e.Date)] = e
	}
	points := make([]EvaluationPoint, 0, len(byDay))
	for key, e := range byDay {
		points = append(points, EvaluationPoint{
			Date:         key,
			Satisfaction: e.Satisfaction,
			Achievement:  e.Achievement,
			Focus:        e.Focus,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// BuildSubjectRanking orders subjects by minutes descending, ties
// broken by name ascending.
func BuildSubjectRanking(bySubject map[string]int) []SubjectRank {
	ranking := make([]SubjectRank, 0, len(bySubject))
	for name, minutes := range bySubject {
		ranking = append(ranking, SubjectRank{Name: name, Minutes: minutes, Hours: Hours(minutes)})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Minutes != ranking[j].Minutes {
			return ranking[i].Minutes > ranking[j].Minutes
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}

// BuildStudentRanking orders students by minutes descending, ties
// broken by name then ID ascending.
func BuildStudentRanking(byStudent map[string]StudentTotal) []StudentRank {
	ranking := make([]StudentRank, 0, len(byStudent))
	for id, total := range byStudent {
		ranking = append(ranking, StudentRank{
			StudentID: id,
			Name:      total.Name,
			Minutes:   total.Minutes,
			Hours:     Hours(total.Minutes),
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		a, b := ranking[i], ranking[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.StudentID < b.StudentID
	})
	return ranking
}
