package models

import "time"

// MaxStudyLogContentLength bounds the free-text study log body.
const MaxStudyLogContentLength = 5000

// StudyLog is a free-text record of what a student studied on a day.
// At most one row exists per (student, subject, log_date).
type StudyLog struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Content   string    `db:"content" json:"content"`
	LogDate   time.Time `db:"log_date" json:"log_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudyLogDetail joins the subject name for list views.
type StudyLogDetail struct {
	StudyLog
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
}

// StudyTimeLog records a timed study session. A started timer has
// duration zero until the student ends it.
type StudyTimeLog struct {
	ID              string     `db:"id" json:"id"`
	StudentID       string     `db:"student_id" json:"student_id"`
	SubjectID       string     `db:"subject_id" json:"subject_id"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// StudyTimeEntry joins subject and student names for aggregation.
type StudyTimeEntry struct {
	StudyTimeLog
	SubjectName *string `db:"subject_name" json:"subject_name,omitempty"`
	StudentName string  `db:"student_name" json:"student_name"`
}

// SelfEvaluation is a student's daily reflection with 1..5 levels.
// At most one row exists per (student, eval_date).
type SelfEvaluation struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	EvalDate     time.Time `db:"eval_date" json:"eval_date"`
	Satisfaction int       `db:"satisfaction" json:"satisfaction"`
	Achievement  int       `db:"achievement" json:"achievement"`
	Focus        int       `db:"focus" json:"focus"`
	Reflection   *string   `db:"reflection" json:"reflection,omitempty"`
	Goals        *string   `db:"goals" json:"goals,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
