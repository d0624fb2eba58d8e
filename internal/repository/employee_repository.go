package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecsddagra-prog/training/internal/model"
)

// EmployeeRepository handles platform user data access.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// GetByID retrieves an employee by primary key.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int) (*model.Employee, error) {
	e := &model.Employee{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, employee_code, role, password_hash, created_at
		 FROM employees WHERE id = $1`, id,
	).Scan(&e.ID, &e.Name, &e.Email, &e.EmployeeCode, &e.Role, &e.PasswordHash, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByIdentifier retrieves an employee by email or employee code.
func (r *EmployeeRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.Employee, error) {
	e := &model.Employee{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, employee_code, role, password_hash, created_at
		 FROM employees WHERE email = $1 OR employee_code = $1`, identifier,
	).Scan(&e.ID, &e.Name, &e.Email, &e.EmployeeCode, &e.Role, &e.PasswordHash, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO employees (name, email, employee_code, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.Name, e.Email, e.EmployeeCode, e.Role, e.PasswordHash,
	).Scan(&e.ID, &e.CreatedAt)
	return uniqueViolation(err)
}
