package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
	"github.com/ecsddagra-prog/training/internal/response"
)

// ExamService handles the administrative exam surface: creation, question
// attachment, assignment, and result listings. The attempt lifecycle
// itself lives in AttemptService and SubmissionService.
type ExamService struct {
	examRepo       *repository.ExamRepository
	questionRepo   *repository.QuestionRepository
	assignmentRepo *repository.AssignmentRepository
	resultRepo     *repository.ResultRepository
	log            zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	assignmentRepo *repository.AssignmentRepository,
	resultRepo *repository.ResultRepository,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		examRepo:       examRepo,
		questionRepo:   questionRepo,
		assignmentRepo: assignmentRepo,
		resultRepo:     resultRepo,
		log:            log.With().Str("component", "exam_service").Logger(),
	}
}

// GetByID retrieves an exam by its UUID.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return s.examRepo.GetByID(ctx, id)
}

// Create inserts a new exam.
func (s *ExamService) Create(ctx context.Context, exam *model.Exam) error {
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	s.log.Info().Str("exam_id", exam.ID.String()).Str("title", exam.Title).Msg("Exam created")
	return nil
}

// List retrieves exams with pagination.
func (s *ExamService) List(ctx context.Context, page, perPage int) ([]model.Exam, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	exams, total, err := s.examRepo.ListPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if exams == nil {
		exams = []model.Exam{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return exams, pagination, nil
}

// AttachQuestions replaces an exam's question set with approved bank
// questions.
func (s *ExamService) AttachQuestions(ctx context.Context, examID uuid.UUID, questionIDs []uuid.UUID) error {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		return fmt.Errorf("get exam: %w", err)
	}
	return s.questionRepo.ReplaceExamQuestions(ctx, examID, questionIDs)
}

// ListQuestions retrieves an exam's question set including answer keys,
// for the admin surface only.
func (s *ExamService) ListQuestions(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	return s.questionRepo.ListByExam(ctx, examID)
}

// AssignEmployees links employees to an exam; re-assignment is a no-op.
func (s *ExamService) AssignEmployees(ctx context.Context, examID uuid.UUID, employeeIDs []int) error {
	if _, err := s.examRepo.GetByID(ctx, examID); err != nil {
		return fmt.Errorf("get exam: %w", err)
	}
	if err := s.assignmentRepo.Assign(ctx, examID, employeeIDs); err != nil {
		return fmt.Errorf("assign employees: %w", err)
	}
	s.log.Info().Str("exam_id", examID.String()).Int("count", len(employeeIDs)).Msg("Employees assigned")
	return nil
}

// ListResults retrieves an exam's results in rank order.
func (s *ExamService) ListResults(ctx context.Context, examID uuid.UUID) ([]model.Result, error) {
	return s.resultRepo.ListByExamRanked(ctx, examID)
}
