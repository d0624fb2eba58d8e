package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents an exam entity.
type Exam struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	DurationMinutes    int        `json:"duration_minutes"`
	PassingScore       float64    `json:"passing_score"`
	StartTime          *time.Time `json:"start_time,omitempty"`
	EndTime            *time.Time `json:"end_time,omitempty"`
	QuestionsPerExam   *int       `json:"questions_per_exam,omitempty"`
	RandomizeQuestions bool       `json:"randomize_questions"`
	CertificateEnabled bool       `json:"certificate_enabled"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ExamSummary is the candidate-facing slice of an exam, sent when an
// attempt starts. It never carries scheduling internals or answer data.
type ExamSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     int       `json:"duration"`
	PassingScore float64   `json:"passing_score"`
}

// Summary projects an Exam into its candidate-facing form.
func (e *Exam) Summary() ExamSummary {
	return ExamSummary{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Duration:     e.DurationMinutes,
		PassingScore: e.PassingScore,
	}
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title              string     `json:"title" binding:"required,min=3,max=255"`
	Description        string     `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes    int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	PassingScore       float64    `json:"passing_score" binding:"omitempty,min=0,max=100"`
	StartTime          *time.Time `json:"start_time" binding:"omitempty"`
	EndTime            *time.Time `json:"end_time" binding:"omitempty,gtfield=StartTime"`
	QuestionsPerExam   *int       `json:"questions_per_exam" binding:"omitempty,min=1"`
	RandomizeQuestions bool       `json:"randomize_questions"`
	CertificateEnabled bool       `json:"certificate_enabled"`
}
