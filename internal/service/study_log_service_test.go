package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulog-api/internal/dto"
	"github.com/noah-isme/edulog-api/internal/models"
)

type studyLogStoreStub struct {
	logs   []*models.StudyLog
	timers map[string]*models.StudyTimeLog
	evals  []*models.SelfEvaluation
	ended  map[string]int
}

func newStudyLogStoreStub() *studyLogStoreStub {
	return &studyLogStoreStub{
		timers: map[string]*models.StudyTimeLog{},
		ended:  map[string]int{},
	}
}

func (s *studyLogStoreStub) UpsertStudyLog(ctx context.Context, log *models.StudyLog) error {
	log.ID = "log-1"
	s.logs = append(s.logs, log)
	return nil
}

func (s *studyLogStoreStub) CreateStudyTime(ctx context.Context, log *models.StudyTimeLog) error {
	log.ID = "timer-1"
	s.timers[log.ID] = log
	return nil
}

func (s *studyLogStoreStub) GetStudyTime(ctx context.Context, id string) (*models.StudyTimeLog, error) {
	timer, ok := s.timers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *timer
	return &copied, nil
}

func (s *studyLogStoreStub) EndStudyTime(ctx context.Context, id string, durationMinutes int, endedAt time.Time) error {
	s.ended[id] = durationMinutes
	return nil
}

func (s *studyLogStoreStub) UpsertSelfEvaluation(ctx context.Context, eval *models.SelfEvaluation) error {
	eval.ID = "eval-1"
	s.evals = append(s.evals, eval)
	return nil
}

type subjectGetterStub struct {
	missing bool
}

func (s subjectGetterStub) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	if s.missing {
		return nil, sql.ErrNoRows
	}
	return &models.Subject{ID: id, Name: "Math"}, nil
}

func newStudyLogServiceForTest(store *studyLogStoreStub, subjects subjectGetterStub) *StudyLogService {
	return NewStudyLogService(store, subjects, nil, zap.NewNop()).
		WithNow(fixedClock(2024, time.May, 7))
}

func TestAddStudyLog(t *testing.T) {
	store := newStudyLogStoreStub()
	svc := newStudyLogServiceForTest(store, subjectGetterStub{})

	log, err := svc.AddStudyLog(context.Background(), "s1", dto.AddStudyLogRequest{
		SubjectID: "sub-1",
		Content:   "reviewed chapter 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", log.StudentID)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), log.LogDate)
	require.Len(t, store.logs, 1)
}

func TestAddStudyLogRejectsLongContent(t *testing.T) {
	svc := newStudyLogServiceForTest(newStudyLogStoreStub(), subjectGetterStub{})

	_, err := svc.AddStudyLog(context.Background(), "s1", dto.AddStudyLogRequest{
		SubjectID: "sub-1",
		Content:   strings.Repeat("x", models.MaxStudyLogContentLength+1),
	})
	require.Error(t, err)
}

func TestAddStudyLogUnknownSubject(t *testing.T) {
	svc := newStudyLogServiceForTest(newStudyLogStoreStub(), subjectGetterStub{missing: true})

	_, err := svc.AddStudyLog(context.Background(), "s1", dto.AddStudyLogRequest{
		SubjectID: "missing",
		Content:   "notes",
	})
	require.Error(t, err)
}

func TestStartAndEndStudyTime(t *testing.T) {
	store := newStudyLogStoreStub()
	svc := newStudyLogServiceForTest(store, subjectGetterStub{})

	timer, err := svc.StartStudyTime(context.Background(), "s1", dto.StartStudyTimeRequest{SubjectID: "sub-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, timer.DurationMinutes)
	assert.Nil(t, timer.EndedAt)

	ended, err := svc.EndStudyTime(context.Background(), "s1", dto.EndStudyTimeRequest{LogID: timer.ID, DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, 45, ended.DurationMinutes)
	require.NotNil(t, ended.EndedAt)
	assert.Equal(t, 45, store.ended[timer.ID])
}

func TestEndStudyTimeOwnership(t *testing.T) {
	store := newStudyLogStoreStub()
	svc := newStudyLogServiceForTest(store, subjectGetterStub{})

	timer, err := svc.StartStudyTime(context.Background(), "s1", dto.StartStudyTimeRequest{SubjectID: "sub-1"})
	require.NoError(t, err)

	_, err = svc.EndStudyTime(context.Background(), "s2", dto.EndStudyTimeRequest{LogID: timer.ID, DurationMinutes: 20})
	require.Error(t, err)
}

func TestEndStudyTimeAlreadyEnded(t *testing.T) {
	store := newStudyLogStoreStub()
	svc := newStudyLogServiceForTest(store, subjectGetterStub{})

	endedAt := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	store.timers["done"] = &models.StudyTimeLog{ID: "done", StudentID: "s1", SubjectID: "sub-1", DurationMinutes: 30, EndedAt: &endedAt}

	_, err := svc.EndStudyTime(context.Background(), "s1", dto.EndStudyTimeRequest{LogID: "done", DurationMinutes: 10})
	require.Error(t, err)
}

func TestEndStudyTimeRejectsNonPositiveDuration(t *testing.T) {
	svc := newStudyLogServiceForTest(newStudyLogStoreStub(), subjectGetterStub{})
	_, err := svc.EndStudyTime(context.Background(), "s1", dto.EndStudyTimeRequest{LogID: "any", DurationMinutes: 0})
	require.Error(t, err)
}

func TestAddSelfEvaluation(t *testing.T) {
	store := newStudyLogStoreStub()
	svc := newStudyLogServiceForTest(store, subjectGetterStub{})

	eval, err := svc.AddSelfEvaluation(context.Background(), "s1", dto.AddSelfEvaluationRequest{
		Satisfaction: 4,
		Achievement:  3,
		Focus:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), eval.EvalDate)
	require.Len(t, store.evals, 1)
}

func TestAddSelfEvaluationRejectsOutOfRangeLevels(t *testing.T) {
	svc := newStudyLogServiceForTest(newStudyLogStoreStub(), subjectGetterStub{})
	_, err := svc.AddSelfEvaluation(context.Background(), "s1", dto.AddSelfEvaluationRequest{
		Satisfaction: 6,
		Achievement:  3,
		Focus:        1,
	})
	require.Error(t, err)
}
