package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/model"
)

func testExam(duration int) *model.Exam {
	return &model.Exam{
		ID:              uuid.New(),
		Title:           "Safety Procedures",
		DurationMinutes: duration,
	}
}

func testQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			Prompt:        "prompt",
			Type:          model.QuestionTypeMultipleChoice,
			CorrectAnswer: "A",
		}
	}
	return questions
}

func newTestAttemptService(exam *model.Exam, questions []model.Question, now time.Time) (*AttemptService, *fakeSessionStore) {
	exams := newFakeExamStore(exam)
	qs := newFakeQuestionStore()
	qs.questions[exam.ID] = questions
	sessions := newFakeSessionStore()

	svc := NewAttemptService(exams, qs, sessions, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc, sessions
}

func TestStartAttempt_Fresh(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, testQuestions(5), now)

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if payload.Resuming {
		t.Error("fresh start should not be marked resuming")
	}
	if !payload.StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want %v", payload.StartedAt, now)
	}
	if want := now.Add(60 * time.Minute); !payload.EndsAt.Equal(want) {
		t.Errorf("EndsAt = %v, want %v", payload.EndsAt, want)
	}
	if len(payload.Questions) != 5 {
		t.Errorf("questions = %d, want 5", len(payload.Questions))
	}

	sess, err := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if !sess.IsActive {
		t.Error("new session should be active")
	}
	if len(sess.Answers) != 0 {
		t.Errorf("new session answers = %v, want empty", sess.Answers)
	}
}

func TestStartAttempt_DeadlineUsesLaterEndTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endTime time.Time
		want    time.Time
	}{
		{
			name:    "fixed end after nominal duration wins",
			endTime: now.Add(2 * time.Hour),
			want:    now.Add(2 * time.Hour),
		},
		{
			name:    "nominal duration wins over earlier end",
			endTime: now.Add(30 * time.Minute),
			want:    now.Add(60 * time.Minute),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := testExam(60)
			exam.EndTime = &tc.endTime
			svc, _ := newTestAttemptService(exam, testQuestions(3), now)

			payload, err := svc.StartAttempt(context.Background(), exam.ID, 1)
			if err != nil {
				t.Fatalf("StartAttempt: %v", err)
			}
			if !payload.EndsAt.Equal(tc.want) {
				t.Errorf("EndsAt = %v, want %v", payload.EndsAt, tc.want)
			}
		})
	}
}

func TestStartAttempt_StartTimeGates(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "before opening", now: start.Add(-time.Minute), wantErr: ErrExamNotYetOpen},
		{name: "at opening", now: start},
		{name: "inside late window", now: start.Add(14*time.Minute + 59*time.Second)},
		{name: "at exact window edge", now: start.Add(15 * time.Minute)},
		{name: "past late window", now: start.Add(15*time.Minute + time.Second), wantErr: ErrLateStartExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exam := testExam(60)
			exam.StartTime = &start
			svc, _ := newTestAttemptService(exam, testQuestions(3), tc.now)

			_, err := svc.StartAttempt(context.Background(), exam.ID, 1)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("StartAttempt: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStartAttempt_UnknownExam(t *testing.T) {
	now := time.Now()
	exam := testExam(60)
	svc, _ := newTestAttemptService(exam, nil, now)

	_, err := svc.StartAttempt(context.Background(), uuid.New(), 1)
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}
}

func TestStartAttempt_TruncatesQuestionPool(t *testing.T) {
	now := time.Now()
	exam := testExam(60)
	perExam := 3
	exam.QuestionsPerExam = &perExam
	svc, _ := newTestAttemptService(exam, testQuestions(10), now)

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 1)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if len(payload.Questions) != perExam {
		t.Errorf("questions = %d, want %d", len(payload.Questions), perExam)
	}
}

func TestStartAttempt_ShufflePreservesQuestionSet(t *testing.T) {
	now := time.Now()
	exam := testExam(60)
	exam.RandomizeQuestions = true
	questions := testQuestions(8)
	svc, _ := newTestAttemptService(exam, questions, now)

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 1)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if len(payload.Questions) != len(questions) {
		t.Fatalf("questions = %d, want %d", len(payload.Questions), len(questions))
	}

	want := map[uuid.UUID]bool{}
	for _, q := range questions {
		want[q.ID] = true
	}
	for _, q := range payload.Questions {
		if !want[q.ID] {
			t.Errorf("unexpected question %s in shuffled set", q.ID)
		}
	}
}

func TestStartAttempt_ResumesActiveSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, testQuestions(4), now)

	startedAt := now.Add(-10 * time.Minute)
	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  startedAt,
		EndsAt:     startedAt.Add(60 * time.Minute),
		Answers:    map[string]string{"q1": "A"},
		IsActive:   true,
	})

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if !payload.Resuming {
		t.Error("expected resume of active session")
	}
	if !payload.StartedAt.Equal(startedAt) {
		t.Errorf("StartedAt = %v, want original %v", payload.StartedAt, startedAt)
	}
	if want := startedAt.Add(60 * time.Minute); !payload.EndsAt.Equal(want) {
		t.Errorf("EndsAt = %v, want original %v", payload.EndsAt, want)
	}
	if len(sessions.deleted) != 0 {
		t.Error("resume must not discard the session")
	}
}

func TestStartAttempt_ReplacesExpiredSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, testQuestions(4), now)

	staleStart := now.Add(-3 * time.Hour)
	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  staleStart,
		EndsAt:     staleStart.Add(60 * time.Minute),
		Answers:    map[string]string{"q1": "A"},
		IsActive:   true,
	})

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if payload.Resuming {
		t.Error("expired session must not be resumed")
	}
	if !payload.StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want fresh %v", payload.StartedAt, now)
	}
	if len(sessions.deleted) != 1 {
		t.Errorf("deleted = %d sessions, want 1", len(sessions.deleted))
	}

	sess, err := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("replacement session missing: %v", err)
	}
	if len(sess.Answers) != 0 {
		t.Error("replacement session must start with empty answers")
	}
}

func TestStartAttempt_ReplacesInactiveSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, testQuestions(4), now)

	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  now.Add(-5 * time.Minute),
		EndsAt:     now.Add(55 * time.Minute),
		IsActive:   false,
	})

	payload, err := svc.StartAttempt(context.Background(), exam.ID, 7)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if payload.Resuming {
		t.Error("inactive session must not be resumed")
	}
	if len(sessions.deleted) != 1 {
		t.Errorf("deleted = %d sessions, want 1", len(sessions.deleted))
	}
}

func TestAutosave(t *testing.T) {
	now := time.Now()
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, nil, now)

	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  now,
		EndsAt:     now.Add(time.Hour),
		Answers:    map[string]string{},
		IsActive:   true,
	})

	answers := map[string]string{"q1": "B", "q2": "C"}
	if err := svc.Autosave(context.Background(), exam.ID, 7, answers); err != nil {
		t.Fatalf("Autosave: %v", err)
	}

	sess, _ := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
	if sess.Answers["q1"] != "B" || sess.Answers["q2"] != "C" {
		t.Errorf("answers = %v, want %v", sess.Answers, answers)
	}
}

func TestAutosave_InactiveSessionIsNoop(t *testing.T) {
	now := time.Now()
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, nil, now)

	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  now,
		EndsAt:     now.Add(time.Hour),
		Answers:    map[string]string{"q1": "A"},
		IsActive:   false,
	})

	if err := svc.Autosave(context.Background(), exam.ID, 7, map[string]string{"q1": "Z"}); err != nil {
		t.Fatalf("Autosave on closed session should not error: %v", err)
	}

	sess, _ := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
	if sess.Answers["q1"] != "A" {
		t.Error("closed session answers must not change")
	}
}

func TestState(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	exam := testExam(60)
	svc, sessions := newTestAttemptService(exam, nil, now)

	t.Run("no session", func(t *testing.T) {
		_, err := svc.State(context.Background(), exam.ID, 7)
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("err = %v, want ErrNoSession", err)
		}
	})

	sessions.put(&model.Session{
		ExamID:     exam.ID,
		EmployeeID: 7,
		StartedAt:  now.Add(-10 * time.Minute),
		EndsAt:     now.Add(50 * time.Minute),
		Answers:    map[string]string{"q1": "A"},
		IsActive:   true,
	})

	t.Run("active session", func(t *testing.T) {
		state, err := svc.State(context.Background(), exam.ID, 7)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if state.TimeLeft != 50*60 {
			t.Errorf("TimeLeft = %d, want %d", state.TimeLeft, 50*60)
		}
		if state.Session.Answers["q1"] != "A" {
			t.Error("buffered answers missing from state")
		}
	})

	t.Run("expired session clamps to zero", func(t *testing.T) {
		sess, _ := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
		sess.EndsAt = now.Add(-time.Minute)
		sessions.put(sess)

		state, err := svc.State(context.Background(), exam.ID, 7)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		if state.TimeLeft != 0 {
			t.Errorf("TimeLeft = %d, want 0", state.TimeLeft)
		}
	})

	t.Run("inactive session", func(t *testing.T) {
		sess, _ := sessions.GetByExamAndEmployee(context.Background(), exam.ID, 7)
		sess.IsActive = false
		sessions.put(sess)

		_, err := svc.State(context.Background(), exam.ID, 7)
		if !errors.Is(err, ErrNoSession) {
			t.Errorf("err = %v, want ErrNoSession", err)
		}
	})
}
