package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the mutable record of one employee's in-progress attempt at
// one exam. Unique per (exam_id, employee_id); replaced on a fresh start,
// deactivated on submission, never reactivated.
type Session struct {
	ID           uuid.UUID         `json:"id"`
	ExamID       uuid.UUID         `json:"exam_id"`
	EmployeeID   int               `json:"employee_id"`
	StartedAt    time.Time         `json:"started_at"`
	EndsAt       time.Time         `json:"ends_at"`
	Answers      map[string]string `json:"answers"`
	IsActive     bool              `json:"is_active"`
	LastActivity time.Time         `json:"last_activity"`
}

// AutosaveRequest is the payload for buffering in-progress answers.
// The mapping replaces the session's buffer wholesale.
type AutosaveRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}
