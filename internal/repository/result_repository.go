package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecsddagra-prog/training/internal/model"
)

const resultColumns = `id, exam_id, employee_id, score, total_questions,
	percentage, total_time, submitted_at, rank, certificate_url`

// ResultRepository handles exam result data access. The unique constraint
// on (exam_id, employee_id) is the final arbiter of one-result-per-attempt;
// Insert surfaces it as ErrDuplicate.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func scanResult(row interface{ Scan(...any) error }) (*model.Result, error) {
	res := &model.Result{}
	err := row.Scan(&res.ID, &res.ExamID, &res.EmployeeID, &res.Score,
		&res.TotalQuestions, &res.Percentage, &res.TotalTime,
		&res.SubmittedAt, &res.Rank, &res.CertificateURL)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByExamAndEmployee retrieves the result for an exam-employee pair.
// Returns pgx.ErrNoRows when none exists.
func (r *ResultRepository) GetByExamAndEmployee(ctx context.Context, examID uuid.UUID, employeeID int) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE exam_id = $1 AND employee_id = $2`, examID, employeeID))
}

// Insert persists a new result. A losing writer in a submit race gets
// ErrDuplicate, which callers convert into the already-submitted response.
func (r *ResultRepository) Insert(ctx context.Context, res *model.Result) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exam_results (exam_id, employee_id, score, total_questions,
		                           percentage, total_time, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		res.ExamID, res.EmployeeID, res.Score, res.TotalQuestions,
		res.Percentage, res.TotalTime, res.SubmittedAt,
	).Scan(&res.ID)
	return uniqueViolation(err)
}

// ListByExamRanked retrieves all results for an exam in rank order:
// percentage descending, total time ascending, submission time ascending.
func (r *ResultRepository) ListByExamRanked(ctx context.Context, examID uuid.UUID) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE exam_id = $1
		 ORDER BY percentage DESC, total_time ASC, submitted_at ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}

// ListByEmployee retrieves an employee's results, newest first.
func (r *ResultRepository) ListByEmployee(ctx context.Context, employeeID int) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM exam_results
		 WHERE employee_id = $1
		 ORDER BY submitted_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}

// UpdateRank overwrites a result's rank.
func (r *ResultRepository) UpdateRank(ctx context.Context, id uuid.UUID, rank int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_results SET rank = $1 WHERE id = $2`, rank, id)
	return err
}

// UpdateCertificate stores the issued certificate reference.
func (r *ResultRepository) UpdateCertificate(ctx context.Context, id uuid.UUID, certificateURL string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_results SET certificate_url = $1 WHERE id = $2`, certificateURL, id)
	return err
}
