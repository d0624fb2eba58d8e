package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
)

// In-memory store fakes. Missing rows are reported with pgx.ErrNoRows and
// duplicate inserts with repository.ErrDuplicate, matching the repository
// contracts.

type sessionKey struct {
	examID     uuid.UUID
	employeeID int
}

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore(exams ...*model.Exam) *fakeExamStore {
	s := &fakeExamStore{exams: map[uuid.UUID]*model.Exam{}}
	for _, e := range exams {
		s.exams[e.ID] = e
	}
	return s
}

func (s *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

type fakeQuestionStore struct {
	questions map[uuid.UUID][]model.Question
	keys      map[uuid.UUID]map[string]string
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		questions: map[uuid.UUID][]model.Question{},
		keys:      map[uuid.UUID]map[string]string{},
	}
}

func (s *fakeQuestionStore) ListByExam(_ context.Context, examID uuid.UUID) ([]model.Question, error) {
	out := make([]model.Question, len(s.questions[examID]))
	copy(out, s.questions[examID])
	return out, nil
}

func (s *fakeQuestionStore) AnswerKeyByExam(_ context.Context, examID uuid.UUID) (map[string]string, error) {
	return s.keys[examID], nil
}

type fakeSessionStore struct {
	sessions    map[sessionKey]*model.Session
	deleted     []uuid.UUID
	deactivated []uuid.UUID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[sessionKey]*model.Session{}}
}

func (s *fakeSessionStore) put(sess *model.Session) {
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	s.sessions[sessionKey{sess.ExamID, sess.EmployeeID}] = sess
}

func (s *fakeSessionStore) GetByExamAndEmployee(_ context.Context, examID uuid.UUID, employeeID int) (*model.Session, error) {
	sess, ok := s.sessions[sessionKey{examID, employeeID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) Upsert(_ context.Context, sess *model.Session) error {
	s.put(sess)
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	for k, sess := range s.sessions {
		if sess.ID == id {
			delete(s.sessions, k)
		}
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSessionStore) Deactivate(_ context.Context, id uuid.UUID) error {
	for _, sess := range s.sessions {
		if sess.ID == id {
			sess.IsActive = false
		}
	}
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *fakeSessionStore) SaveAnswers(_ context.Context, examID uuid.UUID, employeeID int, answers map[string]string) error {
	sess, ok := s.sessions[sessionKey{examID, employeeID}]
	if !ok || !sess.IsActive {
		// Matches the repository: the UPDATE matches no row.
		return nil
	}
	sess.Answers = answers
	return nil
}

type fakeResultStore struct {
	results   map[sessionKey]*model.Result
	insertErr error
	inserted  int
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: map[sessionKey]*model.Result{}}
}

func (s *fakeResultStore) GetByExamAndEmployee(_ context.Context, examID uuid.UUID, employeeID int) (*model.Result, error) {
	res, ok := s.results[sessionKey{examID, employeeID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *res
	return &cp, nil
}

func (s *fakeResultStore) Insert(_ context.Context, res *model.Result) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	key := sessionKey{res.ExamID, res.EmployeeID}
	if _, exists := s.results[key]; exists {
		return repository.ErrDuplicate
	}
	res.ID = uuid.New()
	cp := *res
	s.results[key] = &cp
	s.inserted++
	return nil
}

type fakeAssignmentStore struct {
	completed map[sessionKey]time.Time
	err       error
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{completed: map[sessionKey]time.Time{}}
}

func (s *fakeAssignmentStore) MarkCompleted(_ context.Context, examID uuid.UUID, employeeID int, completedAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.completed[sessionKey{examID, employeeID}] = completedAt
	return nil
}

type fakeRankScheduler struct {
	enqueued []uuid.UUID
	err      error
}

func (s *fakeRankScheduler) Enqueue(_ context.Context, examID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, examID)
	return nil
}
