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

// ProgressRepository persists assignment submissions and grades.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert inserts or replaces the submission for (assignment, student).
// Resubmission resets the status to SUBMITTED and clears the grade.
func (r *ProgressRepository) Upsert(ctx context.Context, progress *models.AssignmentProgress) error {
	if progress.ID == "" {
		progress.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	if progress.SubmittedAt.IsZero() {
		progress.SubmittedAt = now
	}
	progress.UpdatedAt = now
	const query = `INSERT INTO assignment_progress (id, assignment_id, student_id, status, submission, score, feedback, submitted_at, graded_at, created_at, updated_at)
VALUES (:id, :assignment_id, :student_id, :status, :submission, :score, :feedback, :submitted_at, :graded_at, :created_at, :updated_at)
ON CONFLICT (assignment_id, student_id)
DO UPDATE SET status = EXCLUDED.status, submission = EXCLUDED.submission, score = NULL, feedback = NULL,
submitted_at = EXCLUDED.submitted_at, graded_at = NULL, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, progress); err != nil {
		return fmt.Errorf("upsert assignment progress: %w", err)
	}
	return nil
}

// GetByID returns a progress row by identifier.
func (r *ProgressRepository) GetByID(ctx context.Context, id string) (*models.AssignmentProgress, error) {
	const query = `SELECT id, assignment_id, student_id, status, submission, score, feedback, submitted_at, graded_at, created_at, updated_at
FROM assignment_progress WHERE id = $1`
	var progress models.AssignmentProgress
	if err := r.db.GetContext(ctx, &progress, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get assignment progress: %w", err)
	}
	return &progress, nil
}

// Grade records a score and feedback for a submission.
func (r *ProgressRepository) Grade(ctx context.Context, id string, score int, feedback *string, gradedAt time.Time) error {
	const query = `UPDATE assignment_progress SET status = $2, score = $3, feedback = $4, graded_at = $5, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ProgressStatusGraded, score, feedback, gradedAt); err != nil {
		return fmt.Errorf("grade assignment progress: %w", err)
	}
	return nil
}

// ListByStudent returns a student's submissions with assignment titles.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ProgressDetail, error) {
	const query = `SELECT p.id, p.assignment_id, p.student_id, p.status, p.submission, p.score, p.feedback, p.submitted_at, p.graded_at, p.created_at, p.updated_at,
a.title AS assignment_title, u.full_name AS student_name
FROM assignment_progress p
JOIN assignments a ON a.id = p.assignment_id
LEFT JOIN users u ON u.id = p.student_id
WHERE p.student_id = $1
ORDER BY p.submitted_at DESC`
	var rows []models.ProgressDetail
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list progress by student: %w", err)
	}
	return rows, nil
}

// ListByAssignment returns all submissions for an assignment.
func (r *ProgressRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressDetail, error) {
	const query = `SELECT p.id, p.assignment_id, p.student_id, p.status, p.submission, p.score, p.feedback, p.submitted_at, p.graded_at, p.created_at, p.updated_at,
a.title AS assignment_title, u.full_name AS student_name
FROM assignment_progress p
JOIN assignments a ON a.id = p.assignment_id
LEFT JOIN users u ON u.id = p.student_id
WHERE p.assignment_id = $1
ORDER BY p.submitted_at DESC`
	var rows []models.ProgressDetail
	if err := r.db.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list progress by assignment: %w", err)
	}
	return rows, nil
}
