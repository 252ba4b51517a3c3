package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/analytics"
	"github.com/noah-isme/edulog-api/internal/models"
)

type studyDataStub struct {
	entries []models.StudyTimeEntry
	logs    []models.StudyLogDetail
	evals   []models.SelfEvaluation
}

func (s *studyDataStub) ListStudyTimeEntries(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyTimeEntry, error) {
	return s.entries, nil
}

func (s *studyDataStub) ListAllStudyTimeEntries(ctx context.Context, from, to time.Time) ([]models.StudyTimeEntry, error) {
	return s.entries, nil
}

func (s *studyDataStub) ListStudyLogs(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyLogDetail, error) {
	return s.logs, nil
}

func (s *studyDataStub) ListSelfEvaluations(ctx context.Context, studentID string, from, to time.Time) ([]models.SelfEvaluation, error) {
	return s.evals, nil
}

type studentCounterStub struct {
	total  int
	active int
}

func (s studentCounterStub) CountStudents(ctx context.Context) (int, int, error) {
	return s.total, s.active, nil
}

func subjectName(name string) *string {
	return &name
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
}

func newStatsServiceForTest(repo *studyDataStub, counter studentCounterStub) *LearningStatsService {
	return NewLearningStatsService(repo, counter, nil, nil, time.Minute, zap.NewNop()).
		WithNow(fixedClock(2024, time.May, 7))
}

func TestStudentStatsAggregates(t *testing.T) {
	repo := &studyDataStub{
		entries: []models.StudyTimeEntry{
			{StudyTimeLog: models.StudyTimeLog{StudentID: "s1", DurationMinutes: 60, StartedAt: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)}, SubjectName: subjectName("Math"), StudentName: "Ana"},
			{StudyTimeLog: models.StudyTimeLog{StudentID: "s1", DurationMinutes: 30, StartedAt: time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC)}, SubjectName: subjectName("Science"), StudentName: "Ana"},
		},
		logs: []models.StudyLogDetail{
			{StudyLog: models.StudyLog{ID: "l1", SubjectID: "sub-1", Content: "notes", LogDate: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)}, SubjectName: subjectName("Math")},
		},
		evals: []models.SelfEvaluation{
			{StudentID: "s1", EvalDate: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), Satisfaction: 4, Achievement: 3, Focus: 5},
		},
	}
	svc := newStatsServiceForTest(repo, studentCounterStub{})

	resp, cached, err := svc.StudentStats(context.Background(), "s1", analytics.PeriodWeek, 1, 20)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "s1", resp.StudentID)
	assert.Equal(t, "2024-05-01", resp.Range.Start)
	assert.Equal(t, "2024-05-07", resp.Range.End)
	assert.Equal(t, 90, resp.Summary.TotalMinutes)
	assert.Equal(t, 2, resp.Summary.DaysStudied)
	require.Len(t, resp.DailySeries, 7)
	assert.Equal(t, 0, resp.DailySeries[0].Minutes)
	assert.Equal(t, 30, resp.DailySeries[6].Minutes)
	require.NotNil(t, resp.EvaluationAverages)
	assert.InDelta(t, 4.0, resp.EvaluationAverages.Satisfaction, 0.001)
	require.Len(t, resp.SubjectRanking, 2)
	assert.Equal(t, "Math", resp.SubjectRanking[0].Name)
	require.Len(t, resp.StudyLogs, 1)
	assert.Equal(t, "Math", resp.StudyLogs[0].SubjectName)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 1, resp.Pagination.TotalItems)
}

func TestStudentStatsEmptyWindow(t *testing.T) {
	svc := newStatsServiceForTest(&studyDataStub{}, studentCounterStub{})

	resp, _, err := svc.StudentStats(context.Background(), "s1", analytics.PeriodWeek, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.TotalMinutes)
	assert.Equal(t, analytics.NoSubject, resp.Summary.MostStudiedSubject.Name)
	assert.Nil(t, resp.Summary.MostActiveDay)
	assert.Nil(t, resp.EvaluationAverages)
	require.Len(t, resp.DailySeries, 7)
	assert.Empty(t, resp.StudyLogs)
}

func TestStudentStatsRequiresID(t *testing.T) {
	svc := newStatsServiceForTest(&studyDataStub{}, studentCounterStub{})
	_, _, err := svc.StudentStats(context.Background(), "", analytics.PeriodWeek, 1, 20)
	require.Error(t, err)
}

func TestOverallStats(t *testing.T) {
	repo := &studyDataStub{
		entries: []models.StudyTimeEntry{
			{StudyTimeLog: models.StudyTimeLog{StudentID: "s1", DurationMinutes: 60, StartedAt: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)}, SubjectName: subjectName("Math"), StudentName: "Ana"},
			{StudyTimeLog: models.StudyTimeLog{StudentID: "s2", DurationMinutes: 30, StartedAt: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)}, SubjectName: subjectName("Math"), StudentName: "Ben"},
		},
	}
	svc := newStatsServiceForTest(repo, studentCounterStub{total: 3, active: 2})

	resp, cached, err := svc.OverallStats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, resp.TotalStudents)
	assert.Equal(t, 2, resp.ActiveStudents)
	assert.Equal(t, 90, resp.TotalMinutes)
	assert.InDelta(t, 1.5, resp.TotalHours, 0.001)
	require.Len(t, resp.DailySeries, 30)
	require.Len(t, resp.StudentRankings, 2)
	assert.Equal(t, "Ana", resp.StudentRankings[0].Name)
	require.Len(t, resp.SubjectTotals, 1)
	assert.Equal(t, 90, resp.SubjectTotals[0].Minutes)
}

func TestStudentReportDocument(t *testing.T) {
	svc := newStatsServiceForTest(&studyDataStub{}, studentCounterStub{})

	doc, err := svc.StudentReport(context.Background(), "s1", analytics.PeriodWeek)
	require.NoError(t, err)
	assert.Equal(t, string(models.ReportTypeLearningStats), doc.ReportType)
	assert.Equal(t, "2024-05-07T12:00:00Z", doc.GeneratedAt)
	assert.Equal(t, "s1", doc.Stats.StudentID)
}
