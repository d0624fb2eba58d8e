package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecsddagra-prog/training/internal/model"
)

// AssignmentRepository handles exam assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Assign links employees to an exam. Re-assigning an existing pair is a
// no-op rather than an error.
func (r *AssignmentRepository) Assign(ctx context.Context, examID uuid.UUID, employeeIDs []int) error {
	for _, eid := range employeeIDs {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO exam_assignments (exam_id, employee_id)
			 VALUES ($1, $2)
			 ON CONFLICT (exam_id, employee_id) DO NOTHING`,
			examID, eid); err != nil {
			return err
		}
	}
	return nil
}

// MarkCompleted sets the assignment's completion timestamp. Called exactly
// once per pair, by the submission path, when the result is persisted.
func (r *AssignmentRepository) MarkCompleted(ctx context.Context, examID uuid.UUID, employeeID int, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_assignments
		 SET completed_at = $1
		 WHERE exam_id = $2 AND employee_id = $3 AND completed_at IS NULL`,
		completedAt, examID, employeeID)
	return err
}

// ListByEmployee retrieves an employee's assigned exams with their
// completion state and result overlaid.
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, employeeID int) ([]model.AssignedExam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.title, e.description, e.duration_minutes, e.passing_score,
		        e.start_time, e.end_time, e.questions_per_exam, e.randomize_questions,
		        e.certificate_enabled, e.created_at, e.updated_at,
		        a.assigned_at, a.completed_at,
		        r.id, r.score, r.total_questions, r.percentage, r.total_time,
		        r.submitted_at, r.rank, r.certificate_url
		 FROM exam_assignments a
		 JOIN exams e ON e.id = a.exam_id
		 LEFT JOIN exam_results r ON r.exam_id = a.exam_id AND r.employee_id = a.employee_id
		 WHERE a.employee_id = $1
		 ORDER BY a.assigned_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assigned []model.AssignedExam
	for rows.Next() {
		var ae model.AssignedExam
		var resID *uuid.UUID
		var score, totalQuestions, totalTime *int
		var percentage *float64
		var submittedAt *time.Time
		var rank *int
		var certURL *string

		if err := rows.Scan(
			&ae.Exam.ID, &ae.Exam.Title, &ae.Exam.Description, &ae.Exam.DurationMinutes,
			&ae.Exam.PassingScore, &ae.Exam.StartTime, &ae.Exam.EndTime,
			&ae.Exam.QuestionsPerExam, &ae.Exam.RandomizeQuestions,
			&ae.Exam.CertificateEnabled, &ae.Exam.CreatedAt, &ae.Exam.UpdatedAt,
			&ae.AssignedAt, &ae.CompletedAt,
			&resID, &score, &totalQuestions, &percentage, &totalTime,
			&submittedAt, &rank, &certURL,
		); err != nil {
			return nil, err
		}

		if resID != nil {
			ae.Result = &model.Result{
				ID:             *resID,
				ExamID:         ae.Exam.ID,
				EmployeeID:     employeeID,
				Score:          *score,
				TotalQuestions: *totalQuestions,
				Percentage:     *percentage,
				TotalTime:      *totalTime,
				SubmittedAt:    *submittedAt,
				Rank:           rank,
				CertificateURL: certURL,
			}
		}
		assigned = append(assigned, ae)
	}
	return assigned, rows.Err()
}
