package analytics

import "time"

// UnknownSubject buckets entries whose subject was deleted or never set.
const UnknownSubject = "Unknown"

// StudyEntry is a single raw study-time record. Minutes may be zero for
// timer rows that were started but never finished; reducers count them
// towards days studied but not towards totals.
type StudyEntry struct {
	StudentID   string
	StudentName string
	SubjectName string
	Date        time.Time
	Minutes     int
}

// Evaluation is a single daily self-evaluation with 1..5 levels.
type Evaluation struct {
	Date         time.Time
	Satisfaction int
	Achievement  int
	Focus        int
}

// StudentTotal accumulates per-student minutes for admin rankings.
type StudentTotal struct {
	Name    string
	Minutes int
}

// GroupBySubject folds entries into total minutes per subject name.
// Entries without a subject land in the UnknownSubject bucket. The
// result is empty but non-nil for empty input.
func GroupBySubject(entries []StudyEntry) map[string]int {
	totals := make(map[string]int, len(entries))
	for _, e := range entries {
		name := e.SubjectName
		if name == "" {
			name = UnknownSubject
		}
		totals[name] += e.Minutes
	}
	return totals
}

// GroupByDay folds entries into total minutes per yyyy-MM-dd key.
func GroupByDay(entries []StudyEntry) map[string]int {
	totals := make(map[string]int, len(entries))
	for _, e := range entries {
		totals[DayKey(e.Date)] += e.Minutes
	}
	return totals
}

// GroupByStudent folds entries into per-student totals keyed by
// student ID. The last non-empty name seen for a student wins.
func GroupByStudent(entries []StudyEntry) map[string]StudentTotal {
	totals := make(map[string]StudentTotal, len(entries))
	for _, e := range entries {
		t := totals[e.StudentID]
		if e.StudentName != "" {
			t.Name = e.StudentName
		}
		t.Minutes += e.Minutes
		totals[e.StudentID] = t
	}
	return totals
}
