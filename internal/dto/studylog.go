package dto

// AddStudyLogRequest creates or replaces the log for (subject, today).
type AddStudyLogRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
	Content   string `json:"content" validate:"required,max=5000"`
}

// StartStudyTimeRequest starts a timer for a subject.
type StartStudyTimeRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid4"`
}

// EndStudyTimeRequest finishes a previously started timer.
type EndStudyTimeRequest struct {
	LogID           string `json:"log_id" validate:"required,uuid4"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

// AddSelfEvaluationRequest upserts the evaluation for today.
type AddSelfEvaluationRequest struct {
	Satisfaction int     `json:"satisfaction" validate:"required,min=1,max=5"`
	Achievement  int     `json:"achievement" validate:"required,min=1,max=5"`
	Focus        int     `json:"focus" validate:"required,min=1,max=5"`
	Reflection   *string `json:"reflection,omitempty" validate:"omitempty,max=5000"`
	Goals        *string `json:"goals,omitempty" validate:"omitempty,max=5000"`
}
