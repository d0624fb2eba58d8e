package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links one employee to one exam. CompletedAt is set exactly
// once, when the employee's result is persisted.
type Assignment struct {
	ID          uuid.UUID  `json:"id"`
	ExamID      uuid.UUID  `json:"exam_id"`
	EmployeeID  int        `json:"employee_id"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AssignedExam is an exam as listed in the employee portal, overlaid with
// the employee's completion state and result, when any.
type AssignedExam struct {
	Exam        Exam       `json:"exam"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      *Result    `json:"result,omitempty"`
}

// AssignEmployeesRequest is the payload for assigning employees to an exam.
type AssignEmployeesRequest struct {
	EmployeeIDs []int `json:"employee_ids" binding:"required,min=1,dive,min=1"`
}
