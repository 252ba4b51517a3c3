package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGroupBySubjectSumsAndBucketsUnknown(t *testing.T) {
	entries := []StudyEntry{
		{SubjectName: "Math", Date: day(2024, 5, 1), Minutes: 30},
		{SubjectName: "Math", Date: day(2024, 5, 2), Minutes: 45},
		{SubjectName: "", Date: day(2024, 5, 2), Minutes: 10},
	}
	totals := GroupBySubject(entries)
	assert.Equal(t, map[string]int{"Math": 75, UnknownSubject: 10}, totals)
}

func TestGroupByDayKeysByCalendarDay(t *testing.T) {
	entries := []StudyEntry{
		{SubjectName: "Math", Date: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), Minutes: 20},
		{SubjectName: "English", Date: time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC), Minutes: 40},
		{SubjectName: "Math", Date: day(2024, 5, 3), Minutes: 15},
	}
	totals := GroupByDay(entries)
	assert.Equal(t, map[string]int{"2024-05-01": 60, "2024-05-03": 15}, totals)
}

func TestGroupByStudentAccumulates(t *testing.T) {
	entries := []StudyEntry{
		{StudentID: "s1", StudentName: "Ana", Minutes: 30, Date: day(2024, 5, 1)},
		{StudentID: "s2", StudentName: "Ben", Minutes: 20, Date: day(2024, 5, 1)},
		{StudentID: "s1", StudentName: "Ana", Minutes: 25, Date: day(2024, 5, 2)},
	}
	totals := GroupByStudent(entries)
	assert.Equal(t, StudentTotal{Name: "Ana", Minutes: 55}, totals["s1"])
	assert.Equal(t, StudentTotal{Name: "Ben", Minutes: 20}, totals["s2"])
}

func TestGroupingNilAndEmptyInput(t *testing.T) {
	assert.Empty(t, GroupBySubject(nil))
	assert.NotNil(t, GroupBySubject(nil))
	assert.Empty(t, GroupByDay([]StudyEntry{}))
	assert.Empty(t, GroupByStudent(nil))
}

func TestGroupingOrderIndependent(t *testing.T) {
	entries := []StudyEntry{
		{StudentID: "s1", SubjectName: "Math", Date: day(2024, 5, 1), Minutes: 30},
		{StudentID: "s1", SubjectName: "English", Date: day(2024, 5, 2), Minutes: 45},
		{StudentID: "s2", SubjectName: "Math", Date: day(2024, 5, 1), Minutes: 10},
	}
	reversed := []StudyEntry{entries[2], entries[1], entries[0]}

	assert.Equal(t, GroupBySubject(entries), GroupBySubject(reversed))
	assert.Equal(t, GroupByDay(entries), GroupByDay(reversed))
	assert.Equal(t, GroupByStudent(entries), GroupByStudent(reversed))
}
