package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
)

// Domain errors for finalizing an attempt.
var (
	ErrNoSession    = errors.New("no exam session found, start the exam first")
	ErrTimeExceeded = errors.New("exam time exceeded")
)

// SubmitOutcome carries the finalized result. AlreadySubmitted marks the
// idempotent short-circuit: the result is the previously persisted one and
// the caller should treat the call as a success.
type SubmitOutcome struct {
	Result           *model.Result
	AlreadySubmitted bool
}

// SubmissionService finalizes attempts: idempotency gate, deadline
// validation, authoritative scoring, result persistence, assignment
// completion, and rank-recompute scheduling.
type SubmissionService struct {
	questions   QuestionStore
	sessions    SessionStore
	results     ResultStore
	assignments AssignmentStore
	ranks       RankScheduler
	log         zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	questions QuestionStore,
	sessions SessionStore,
	results ResultStore,
	assignments AssignmentStore,
	ranks RankScheduler,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		questions:   questions,
		sessions:    sessions,
		results:     results,
		assignments: assignments,
		ranks:       ranks,
		log:         log.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit finalizes an employee's attempt.
//
// The existing-result check runs before any session or time validation so
// that a retry after a successful-but-unacknowledged submission always
// lands on the idempotent path. The result insert is the linearization
// point: a writer losing the race hits the unique constraint and converts
// it into the same already-submitted outcome.
func (s *SubmissionService) Submit(ctx context.Context, examID uuid.UUID, employeeID int, req *model.SubmitRequest) (*SubmitOutcome, error) {
	existing, err := s.results.GetByExamAndEmployee(ctx, examID, employeeID)
	if err == nil {
		s.log.Info().
			Str("exam_id", examID.String()).
			Int("employee_id", employeeID).
			Str("result_id", existing.ID.String()).
			Msg("Result already exists, returning it")
		return &SubmitOutcome{Result: existing, AlreadySubmitted: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing result: %w", err)
	}

	session, err := s.sessions.GetByExamAndEmployee(ctx, examID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	now := s.now()
	timeExceeded := now.Sub(session.EndsAt)

	// The deadline is enforced only on active sessions. An inactive
	// session with no result is a crashed submit that deactivated but
	// never wrote the result; that request gets to finish here.
	if session.IsActive && timeExceeded > config.SubmitGraceBuffer {
		s.log.Warn().
			Str("exam_id", examID.String()).
			Int("employee_id", employeeID).
			Time("ends_at", session.EndsAt).
			Dur("exceeded_by", timeExceeded).
			Msg("Submission past deadline and grace buffer")
		return nil, ErrTimeExceeded
	}
	if !session.IsActive {
		s.log.Info().
			Str("exam_id", examID.String()).
			Int("employee_id", employeeID).
			Msg("Inactive session with no result, recovering submission")
	}

	answerKey, err := s.questions.AnswerKeyByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	score, total, percentage := Score(answerKey, req.Answers)

	if req.ClientScore != nil && *req.ClientScore != score {
		// Telemetry only: the client's own tally never influences the result.
		s.log.Debug().
			Int("client_score", *req.ClientScore).
			Int("server_score", score).
			Msg("Client-reported score differs from authoritative score")
	}

	if err := s.sessions.Deactivate(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("deactivate session: %w", err)
	}

	submittedAt := now
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	result := &model.Result{
		ExamID:         examID,
		EmployeeID:     employeeID,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		TotalTime:      req.TotalTime,
		SubmittedAt:    submittedAt,
	}

	if err := s.results.Insert(ctx, result); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			winner, fetchErr := s.results.GetByExamAndEmployee(ctx, examID, employeeID)
			if fetchErr != nil {
				return nil, fmt.Errorf("concurrent submit detected, but fetch failed: %w", fetchErr)
			}
			return &SubmitOutcome{Result: winner, AlreadySubmitted: true}, nil
		}
		return nil, fmt.Errorf("insert result: %w", err)
	}

	if err := s.assignments.MarkCompleted(ctx, examID, employeeID, now); err != nil {
		// Logged, not fatal: the result row already records completion.
		s.log.Error().Err(err).
			Str("exam_id", examID.String()).
			Int("employee_id", employeeID).
			Msg("Failed to mark assignment completed")
	}

	if err := s.ranks.Enqueue(ctx, examID); err != nil {
		s.log.Warn().Err(err).
			Str("exam_id", examID.String()).
			Msg("Failed to schedule rank recompute")
	}

	s.log.Info().
		Str("exam_id", examID.String()).
		Int("employee_id", employeeID).
		Int("score", score).
		Int("total", total).
		Float64("percentage", percentage).
		Msg("Attempt submitted")

	return &SubmitOutcome{Result: result}, nil
}
