package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecsddagra-prog/training/internal/model"
)

// SessionRepository handles exam session data access. Sessions are unique
// per (exam_id, employee_id); Upsert is the only creation path.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// GetByExamAndEmployee retrieves the session for an exam-employee pair.
// Returns pgx.ErrNoRows when none exists.
func (r *SessionRepository) GetByExamAndEmployee(ctx context.Context, examID uuid.UUID, employeeID int) (*model.Session, error) {
	s := &model.Session{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_id, employee_id, started_at, ends_at, answers, is_active, last_activity
		 FROM exam_sessions
		 WHERE exam_id = $1 AND employee_id = $2`, examID, employeeID,
	).Scan(&s.ID, &s.ExamID, &s.EmployeeID, &s.StartedAt, &s.EndsAt, &s.Answers, &s.IsActive, &s.LastActivity)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert creates the session row, or replaces it wholesale if one already
// exists for the pair. Start-attempt is idempotent on this key: a racing
// second start rebinds to a fresh envelope rather than failing.
func (r *SessionRepository) Upsert(ctx context.Context, s *model.Session) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions (exam_id, employee_id, started_at, ends_at, answers, is_active, last_activity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (exam_id, employee_id) DO UPDATE
		 SET started_at = EXCLUDED.started_at,
		     ends_at = EXCLUDED.ends_at,
		     answers = EXCLUDED.answers,
		     is_active = EXCLUDED.is_active,
		     last_activity = EXCLUDED.last_activity
		 RETURNING id`,
		s.ExamID, s.EmployeeID, s.StartedAt, s.EndsAt, s.Answers, s.IsActive, s.LastActivity,
	).Scan(&s.ID)
}

// Delete removes a session row. Used when a stale (expired or inactive)
// session is found at a new start request.
func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exam_sessions WHERE id = $1`, id)
	return err
}

// Deactivate marks a session inactive. Idempotent: deactivating an
// already-inactive session is harmless.
func (r *SessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions SET is_active = FALSE WHERE id = $1`, id)
	return err
}

// SaveAnswers overwrites the buffered answer mapping and bumps
// last_activity, but only while the session is active. A late autosave
// against a finalized session matches zero rows and is silently a no-op.
func (r *SessionRepository) SaveAnswers(ctx context.Context, examID uuid.UUID, employeeID int, answers map[string]string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_sessions
		 SET answers = $1, last_activity = $2
		 WHERE exam_id = $3 AND employee_id = $4 AND is_active = TRUE`,
		answers, time.Now(), examID, employeeID)
	return err
}
