package model

import (
	"time"

	"github.com/google/uuid"
)

// Result is the record of a finished, scored attempt. Immutable after
// insertion except Rank and CertificateURL, which the asynchronous
// post-processor fills in. Its existence is the idempotency marker for
// "this employee has finished this exam".
type Result struct {
	ID             uuid.UUID `json:"id"`
	ExamID         uuid.UUID `json:"exam_id"`
	EmployeeID     int       `json:"employee_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     float64   `json:"percentage"`
	TotalTime      int       `json:"total_time"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Rank           *int      `json:"rank,omitempty"`
	CertificateURL *string   `json:"certificate_url,omitempty"`
}

// SubmitRequest is the payload for finalizing an attempt. ClientScore and
// ClientPercentage are accepted as telemetry only; the server recomputes
// the score from the answer key and never trusts these values.
type SubmitRequest struct {
	Answers          map[string]string `json:"answers" binding:"required"`
	TotalTime        int               `json:"total_time" binding:"min=0"`
	SubmittedAt      *time.Time        `json:"submitted_at" binding:"omitempty"`
	ClientScore      *int              `json:"client_score" binding:"omitempty"`
	ClientPercentage *float64          `json:"client_percentage" binding:"omitempty"`
}
