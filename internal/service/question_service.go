package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
)

// QuestionService handles the contributor question bank and its approval
// flow.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// SubmitForApproval inserts a contributor's question as PENDING.
func (s *QuestionService) SubmitForApproval(ctx context.Context, authorID int, req *model.SubmitQuestionRequest) (*model.Question, error) {
	q := &model.Question{
		Prompt:        req.Prompt,
		Type:          model.QuestionTypeMultipleChoice,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Subject:       req.Subject,
		Difficulty:    req.Difficulty,
		Status:        model.QuestionStatusPending,
		AuthorID:      authorID,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.log.Info().Str("question_id", q.ID.String()).Int("author_id", authorID).Msg("Question submitted for approval")
	return q, nil
}

// ListByAuthor retrieves a contributor's own submissions with status.
func (s *QuestionService) ListByAuthor(ctx context.Context, authorID int) ([]model.Question, error) {
	return s.questionRepo.ListByAuthor(ctx, authorID)
}

// ListPending retrieves questions awaiting review.
func (s *QuestionService) ListPending(ctx context.Context) ([]model.Question, error) {
	return s.questionRepo.ListByStatus(ctx, model.QuestionStatusPending)
}

// Approve marks a pending question approved, making it attachable to exams.
func (s *QuestionService) Approve(ctx context.Context, id uuid.UUID) error {
	return s.questionRepo.SetStatus(ctx, id, model.QuestionStatusApproved)
}

// Reject marks a pending question rejected.
func (s *QuestionService) Reject(ctx context.Context, id uuid.UUID) error {
	return s.questionRepo.SetStatus(ctx, id, model.QuestionStatusRejected)
}
