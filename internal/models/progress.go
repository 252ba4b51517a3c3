package models

import "time"

// ProgressStatus captures the submission lifecycle.
type ProgressStatus string

const (
	ProgressStatusSubmitted ProgressStatus = "SUBMITTED"
	ProgressStatusGraded    ProgressStatus = "GRADED"
)

// AssignmentProgress is a student's submission for an assignment.
// One row exists per (assignment, student); resubmission updates it.
type AssignmentProgress struct {
	ID           string         `db:"id" json:"id"`
	AssignmentID string         `db:"assignment_id" json:"assignment_id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	Status       ProgressStatus `db:"status" json:"status"`
	Submission   *string        `db:"submission" json:"submission,omitempty"`
	Score        *int           `db:"score" json:"score,omitempty"`
	Feedback     *string        `db:"feedback" json:"feedback,omitempty"`
	SubmittedAt  time.Time      `db:"submitted_at" json:"submitted_at"`
	GradedAt     *time.Time     `db:"graded_at" json:"graded_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ProgressDetail joins assignment and student context for list views.
type ProgressDetail struct {
	AssignmentProgress
	AssignmentTitle string  `db:"assignment_title" json:"assignment_title"`
	StudentName     *string `db:"student_name" json:"student_name,omitempty"`
}
