package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecsddagra-prog/training/internal/model"
)

// QuestionRepository handles bank question data access and the
// exam_questions link table.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all questions attached to an exam in link order.
// CorrectAnswer is populated; callers that build candidate payloads must
// project through Question.ForCandidate.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question, q.question_type, q.options, q.correct_answer,
		        q.subject, q.difficulty, q.status, q.author_id, q.created_at
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1
		 ORDER BY eq.position`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Type, &q.Options, &q.CorrectAnswer,
			&q.Subject, &q.Difficulty, &q.Status, &q.AuthorID, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// AnswerKeyByExam returns the correct choice key per question id for an
// exam, without loading prompts or options. Grading paths use this so the
// full question payload never travels with answer data.
func (r *QuestionRepository) AnswerKeyByExam(ctx context.Context, examID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.correct_answer
		 FROM exam_questions eq
		 JOIN questions q ON q.id = eq.question_id
		 WHERE eq.exam_id = $1`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	key := make(map[string]string)
	for rows.Next() {
		var id uuid.UUID
		var correct string
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id.String()] = correct
	}
	return key, rows.Err()
}

// Create inserts a new bank question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question, question_type, options, correct_answer,
		                        subject, difficulty, status, author_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		q.Prompt, q.Type, q.Options, q.CorrectAnswer,
		q.Subject, q.Difficulty, q.Status, q.AuthorID,
	).Scan(&q.ID, &q.CreatedAt)
}

// ListByStatus retrieves bank questions in a given approval state.
func (r *QuestionRepository) ListByStatus(ctx context.Context, status model.QuestionStatus) ([]model.Question, error) {
	return r.list(ctx,
		`SELECT id, question, question_type, options, correct_answer,
		        subject, difficulty, status, author_id, created_at
		 FROM questions WHERE status = $1
		 ORDER BY created_at DESC`, status)
}

// ListByAuthor retrieves a contributor's own submissions.
func (r *QuestionRepository) ListByAuthor(ctx context.Context, authorID int) ([]model.Question, error) {
	return r.list(ctx,
		`SELECT id, question, question_type, options, correct_answer,
		        subject, difficulty, status, author_id, created_at
		 FROM questions WHERE author_id = $1
		 ORDER BY created_at DESC`, authorID)
}

func (r *QuestionRepository) list(ctx context.Context, query string, args ...any) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Type, &q.Options, &q.CorrectAnswer,
			&q.Subject, &q.Difficulty, &q.Status, &q.AuthorID, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// SetStatus moves a bank question through the approval flow.
func (r *QuestionRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.QuestionStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s not found", id)
	}
	return nil
}

// ReplaceExamQuestions swaps the question set attached to an exam. Only
// approved questions may be attached; the whole replacement is atomic.
func (r *QuestionRepository) ReplaceExamQuestions(ctx context.Context, examID uuid.UUID, questionIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM exam_questions WHERE exam_id = $1`, examID); err != nil {
		return fmt.Errorf("clear exam questions: %w", err)
	}

	for i, qid := range questionIDs {
		tag, err := tx.Exec(ctx,
			`INSERT INTO exam_questions (exam_id, question_id, position)
			 SELECT $1, id, $3 FROM questions
			 WHERE id = $2 AND status = $4`,
			examID, qid, i, model.QuestionStatusApproved)
		if err != nil {
			return fmt.Errorf("attach question %s: %w", qid, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("question %s is not approved or does not exist", qid)
		}
	}

	return tx.Commit(ctx)
}
