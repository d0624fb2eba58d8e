package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ecsddagra-prog/training/internal/model"
)

// Narrow store contracts consumed by the attempt and submission services.
// The repository package satisfies all of them; tests substitute in-memory
// fakes. Lookups report a missing row with pgx.ErrNoRows, matching the
// repositories.

// ExamStore reads exam metadata.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// QuestionStore reads an exam's question set and its answer key.
type QuestionStore interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
	AnswerKeyByExam(ctx context.Context, examID uuid.UUID) (map[string]string, error)
}

// SessionStore owns session rows keyed by (exam, employee).
type SessionStore interface {
	GetByExamAndEmployee(ctx context.Context, examID uuid.UUID, employeeID int) (*model.Session, error)
	Upsert(ctx context.Context, s *model.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SaveAnswers(ctx context.Context, examID uuid.UUID, employeeID int, answers map[string]string) error
}

// ResultStore owns result rows. Insert returns repository.ErrDuplicate on
// the (exam, employee) unique constraint.
type ResultStore interface {
	GetByExamAndEmployee(ctx context.Context, examID uuid.UUID, employeeID int) (*model.Result, error)
	Insert(ctx context.Context, res *model.Result) error
}

// AssignmentStore marks assignments complete.
type AssignmentStore interface {
	MarkCompleted(ctx context.Context, examID uuid.UUID, employeeID int, completedAt time.Time) error
}

// RankScheduler triggers an asynchronous rank recompute for one exam.
// Fire-and-forget from the submission path's point of view.
type RankScheduler interface {
	Enqueue(ctx context.Context, examID uuid.UUID) error
}
