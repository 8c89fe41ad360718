package fill

import (
	"time"

	"github.com/google/uuid"

	"github.com/formrush/formrush/internal/answergen"
)

// JobStatus is the lifecycle state of a fill job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// SubmitRequest asks for a single generated response, submitted immediately.
type SubmitRequest struct {
	URL           string                           `json:"url"`
	Locale        string                           `json:"locale,omitempty"`
	SkipOptional  bool                             `json:"skip_optional,omitempty"`
	Distributions []answergen.QuestionDistribution `json:"distributions,omitempty"`
}

// SubmitResult reports one submission attempt.
type SubmitResult struct {
	FormID     string `json:"form_id"`
	StatusCode int    `json:"status_code"`
	Submitted  bool   `json:"submitted"`
}

// BatchRequest asks for a batch of generated responses submitted as a job.
type BatchRequest struct {
	URL           string                           `json:"url"`
	Count         int                              `json:"count"`
	Locale        string                           `json:"locale,omitempty"`
	SkipOptional  bool                             `json:"skip_optional,omitempty"`
	Distributions []answergen.QuestionDistribution `json:"distributions,omitempty"`
}

// SubmissionFailure records one failed attempt inside a batch.
type SubmissionFailure struct {
	Index      int    `json:"index"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

// Job is the persisted state of one fill batch.
type Job struct {
	ID         uuid.UUID           `json:"id"`
	FormID     string              `json:"form_id"`
	FormTitle  string              `json:"form_title"`
	Status     JobStatus           `json:"status"`
	Total      int                 `json:"total"`
	Completed  int                 `json:"completed"`
	Failed     int                 `json:"failed"`
	Failures   []SubmissionFailure `json:"failures,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

// Done reports whether the job has reached a terminal state.
func (j *Job) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
