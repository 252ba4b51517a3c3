package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulog-api/internal/models"
)

// StudyLogRepository persists study logs, timed sessions, and daily
// self-evaluations.
type StudyLogRepository struct {
	db *sqlx.DB
}

// NewStudyLogRepository constructs the repository.
func NewStudyLogRepository(db *sqlx.DB) *StudyLogRepository {
	return &StudyLogRepository{db: db}
}

// UpsertStudyLog inserts or replaces the log row for the student,
// subject, and calendar day carried by the model.
func (r *StudyLogRepository) UpsertStudyLog(ctx context.Context, log *models.StudyLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	log.UpdatedAt = now
	const query = `INSERT INTO study_logs (id, student_id, subject_id, content, log_date, created_at, updated_at)
VALUES (:id, :student_id, :subject_id, :content, :log_date, :created_at, :updated_at)
ON CONFLICT (student_id, subject_id, log_date)
DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("upsert study log: %w", err)
	}
	return nil
}

// ListStudyLogs returns the student's logs within [from, to] newest first.
func (r *StudyLogRepository) ListStudyLogs(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyLogDetail, error) {
	const query = `SELECT l.id, l.student_id, l.subject_id, l.content, l.log_date, l.created_at, l.updated_at, s.name AS subject_name
FROM study_logs l
LEFT JOIN subjects s ON s.id = l.subject_id
WHERE l.student_id = $1 AND l.log_date >= $2 AND l.log_date <= $3
ORDER BY l.log_date DESC, l.created_at DESC`
	var logs []models.StudyLogDetail
	if err := r.db.SelectContext(ctx, &logs, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list study logs: %w", err)
	}
	return logs, nil
}

// CreateStudyTime inserts a timer row. Duration zero marks a running timer.
func (r *StudyLogRepository) CreateStudyTime(ctx context.Context, log *models.StudyTimeLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if log.CreatedAt.IsZero() {
		log.CreatedAt = now
	}
	if log.StartedAt.IsZero() {
		log.StartedAt = now
	}
	const query = `INSERT INTO study_time_logs (id, student_id, subject_id, duration_minutes, started_at, ended_at, created_at)
VALUES (:id, :student_id, :subject_id, :duration_minutes, :started_at, :ended_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create study time log: %w", err)
	}
	return nil
}

// GetStudyTime returns a timer row by its identifier.
func (r *StudyLogRepository) GetStudyTime(ctx context.Context, id string) (*models.StudyTimeLog, error) {
	const query = `SELECT id, student_id, subject_id, duration_minutes, started_at, ended_at, created_at
FROM study_time_logs WHERE id = $1`
	var log models.StudyTimeLog
	if err := r.db.GetContext(ctx, &log, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get study time log: %w", err)
	}
	return &log, nil
}

// EndStudyTime records the final duration for a running timer.
func (r *StudyLogRepository) EndStudyTime(ctx context.Context, id string, durationMinutes int, endedAt time.Time) error {
	const query = `UPDATE study_time_logs SET duration_minutes = $2, ended_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, durationMinutes, endedAt); err != nil {
		return fmt.Errorf("end study time log: %w", err)
	}
	return nil
}

// ListStudyTimeEntries returns a student's sessions within [from, to)
// with subject and student names joined for aggregation.
func (r *StudyLogRepository) ListStudyTimeEntries(ctx context.Context, studentID string, from, to time.Time) ([]models.StudyTimeEntry, error) {
	const query = `SELECT t.id, t.student_id, t.subject_id, t.duration_minutes, t.started_at, t.ended_at, t.created_at,
s.name AS subject_name, u.full_name AS student_name
FROM study_time_logs t
LEFT JOIN subjects s ON s.id = t.subject_id
JOIN users u ON u.id = t.student_id
WHERE t.student_id = $1 AND t.started_at >= $2 AND t.started_at < $3
ORDER BY t.started_at ASC`
	var entries []models.StudyTimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list study time entries: %w", err)
	}
	return entries, nil
}

// ListAllStudyTimeEntries returns every student's sessions within
// [from, to) for the admin overview.
func (r *StudyLogRepository) ListAllStudyTimeEntries(ctx context.Context, from, to time.Time) ([]models.StudyTimeEntry, error) {
	const query = `SELECT t.id, t.student_id, t.subject_id, t.duration_minutes, t.started_at, t.ended_at, t.created_at,
s.name AS subject_name, u.full_name AS student_name
FROM study_time_logs t
LEFT JOIN subjects s ON s.id = t.subject_id
JOIN users u ON u.id = t.student_id
WHERE t.started_at >= $1 AND t.started_at < $2 AND u.active = TRUE
ORDER BY t.started_at ASC`
	var entries []models.StudyTimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, from, to); err != nil {
		return nil, fmt.Errorf("list all study time entries: %w", err)
	}
	return entries, nil
}

// UpsertSelfEvaluation inserts or replaces the evaluation for the
// student and calendar day carried by the model.
func (r *StudyLogRepository) UpsertSelfEvaluation(ctx context.Context, eval *models.SelfEvaluation) error {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = now
	}
	eval.UpdatedAt = now
	const query = `INSERT INTO self_evaluations (id, student_id, eval_date, satisfaction, achievement, focus, reflection, goals, created_at, updated_at)
VALUES (:id, :student_id, :eval_date, :satisfaction, :achievement, :focus, :reflection, :goals, :created_at, :updated_at)
ON CONFLICT (student_id, eval_date)
DO UPDATE SET satisfaction = EXCLUDED.satisfaction, achievement = EXCLUDED.achievement, focus = EXCLUDED.focus,
reflection = EXCLUDED.reflection, goals = EXCLUDED.goals, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, eval); err != nil {
		return fmt.Errorf("upsert self evaluation: %w", err)
	}
	return nil
}

// ListSelfEvaluations returns the student's evaluations within [from, to].
func (r *StudyLogRepository) ListSelfEvaluations(ctx context.Context, studentID string, from, to time.Time) ([]models.SelfEvaluation, error) {
	const query = `SELECT id, student_id, eval_date, satisfaction, achievement, focus, reflection, goals, created_at, updated_at
FROM self_evaluations
WHERE student_id = $1 AND eval_date >= $2 AND eval_date <= $3
ORDER BY eval_date ASC`
	var evals []models.SelfEvaluation
	if err := r.db.SelectContext(ctx, &evals, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("list self evaluations: %w", err)
	}
	return evals, nil
}
