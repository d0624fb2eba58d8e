package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/model"
)

// Domain errors for starting an attempt.
var (
	ErrExamNotFound      = errors.New("exam not found")
	ErrExamNotYetOpen    = errors.New("exam has not started yet")
	ErrLateStartExceeded = errors.New("late start window exceeded")
)

// AttemptPayload is the response to a start-attempt request: exam metadata,
// the answer-free question list, and the attempt's time envelope. The
// server clock is included so clients can offset their countdown.
type AttemptPayload struct {
	Exam       model.ExamSummary            `json:"exam"`
	Questions  []model.QuestionForCandidate `json:"questions"`
	StartedAt  time.Time                    `json:"started_at"`
	EndsAt     time.Time                    `json:"ends_at"`
	ServerTime time.Time                    `json:"server_time"`
	Resuming   bool                         `json:"resuming,omitempty"`
}

// SessionState reports an in-progress attempt's buffered answers and
// remaining seconds, for clients rebuilding local state after a reload.
type SessionState struct {
	Session  *model.Session `json:"session"`
	TimeLeft int            `json:"time_left"`
}

// AttemptService gates entry into an exam attempt and maintains its time
// envelope.
type AttemptService struct {
	exams     ExamStore
	questions QuestionStore
	sessions  SessionStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(exams ExamStore, questions QuestionStore, sessions SessionStore, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		exams:     exams,
		questions: questions,
		sessions:  sessions,
		log:       log.With().Str("component", "attempt_service").Logger(),
		now:       time.Now,
	}
}

// StartAttempt starts or resumes an employee's attempt at an exam.
//
// A stored session that is still active and inside its deadline is resumed
// as-is: same envelope, same question set. A session found expired or
// inactive is discarded and replaced — the employee should have been
// auto-submitted but the client never called submit, so they rebind to a
// fresh attempt.
func (s *AttemptService) StartAttempt(ctx context.Context, examID uuid.UUID, employeeID int) (*AttemptPayload, error) {
	existing, err := s.sessions.GetByExamAndEmployee(ctx, examID, employeeID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing session: %w", err)
	}

	now := s.now()

	if existing != nil {
		if existing.IsActive && !now.After(existing.EndsAt) {
			return s.resume(ctx, existing)
		}

		if err := s.sessions.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("discard stale session: %w", err)
		}
		s.log.Info().
			Str("exam_id", examID.String()).
			Int("employee_id", employeeID).
			Bool("was_active", existing.IsActive).
			Time("ended_at", existing.EndsAt).
			Msg("Stale session replaced")
	}

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	// The late-start window caps how long after the scheduled opening a
	// straggler may still begin, independent of the exam's hard end time.
	if exam.StartTime != nil {
		if now.Before(*exam.StartTime) {
			return nil, ErrExamNotYetOpen
		}
		if now.After(exam.StartTime.Add(config.LateStartGrace)) {
			return nil, ErrLateStartExceeded
		}
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if exam.RandomizeQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	if exam.QuestionsPerExam != nil && *exam.QuestionsPerExam < len(questions) {
		questions = questions[:*exam.QuestionsPerExam]
	}

	endsAt := deadline(exam, now)

	session := &model.Session{
		ExamID:       examID,
		EmployeeID:   employeeID,
		StartedAt:    now,
		EndsAt:       endsAt,
		Answers:      map[string]string{},
		IsActive:     true,
		LastActivity: now,
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info().
		Str("exam_id", examID.String()).
		Int("employee_id", employeeID).
		Time("ends_at", endsAt).
		Int("questions", len(questions)).
		Msg("Attempt started")

	return &AttemptPayload{
		Exam:       exam.Summary(),
		Questions:  forCandidates(questions),
		StartedAt:  now,
		EndsAt:     endsAt,
		ServerTime: s.now(),
	}, nil
}

// resume returns the stored session's envelope and question set unchanged.
func (s *AttemptService) resume(ctx context.Context, session *model.Session) (*AttemptPayload, error) {
	exam, err := s.exams.GetByID(ctx, session.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	questions, err := s.questions.ListByExam(ctx, session.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	s.log.Info().
		Str("exam_id", session.ExamID.String()).
		Int("employee_id", session.EmployeeID).
		Msg("Attempt resumed")

	return &AttemptPayload{
		Exam:       exam.Summary(),
		Questions:  forCandidates(questions),
		StartedAt:  session.StartedAt,
		EndsAt:     session.EndsAt,
		ServerTime: s.now(),
		Resuming:   true,
	}, nil
}

// Autosave overwrites the session's buffered answer mapping. A session
// that is no longer active matches nothing and the call is a silent no-op:
// a late autosave racing a submit must never resurrect a closed session.
func (s *AttemptService) Autosave(ctx context.Context, examID uuid.UUID, employeeID int, answers map[string]string) error {
	if err := s.sessions.SaveAnswers(ctx, examID, employeeID, answers); err != nil {
		return fmt.Errorf("save answers: %w", err)
	}
	return nil
}

// State returns the active session with its buffered answers and remaining
// time. Returns ErrNoSession when there is no active session.
func (s *AttemptService) State(ctx context.Context, examID uuid.UUID, employeeID int) (*SessionState, error) {
	session, err := s.sessions.GetByExamAndEmployee(ctx, examID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.IsActive {
		return nil, ErrNoSession
	}

	timeLeft := int(session.EndsAt.Sub(s.now()).Seconds())
	if timeLeft < 0 {
		timeLeft = 0
	}

	return &SessionState{Session: session, TimeLeft: timeLeft}, nil
}

// deadline computes the attempt's absolute end. An exam with a fixed end
// time still guarantees the full nominal duration to a late starter: the
// deadline is whichever of the two is later.
func deadline(exam *model.Exam, startedAt time.Time) time.Time {
	byDuration := startedAt.Add(time.Duration(exam.DurationMinutes) * time.Minute)
	if exam.EndTime != nil && exam.EndTime.After(byDuration) {
		return *exam.EndTime
	}
	return byDuration
}

func forCandidates(questions []model.Question) []model.QuestionForCandidate {
	out := make([]model.QuestionForCandidate, len(questions))
	for i := range questions {
		out[i] = questions[i].ForCandidate()
	}
	return out
}
