package service

import (
	"context"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
)

// PortalService serves the employee-facing read surface: assigned exams
// and own results.
type PortalService struct {
	assignmentRepo *repository.AssignmentRepository
	resultRepo     *repository.ResultRepository
}

// NewPortalService creates a new PortalService.
func NewPortalService(assignmentRepo *repository.AssignmentRepository, resultRepo *repository.ResultRepository) *PortalService {
	return &PortalService{assignmentRepo: assignmentRepo, resultRepo: resultRepo}
}

// AssignedExams lists the employee's assigned exams with completion state
// and result overlaid.
func (s *PortalService) AssignedExams(ctx context.Context, employeeID int) ([]model.AssignedExam, error) {
	return s.assignmentRepo.ListByEmployee(ctx, employeeID)
}

// Results lists the employee's own results, newest first.
func (s *PortalService) Results(ctx context.Context, employeeID int) ([]model.Result, error) {
	return s.resultRepo.ListByEmployee(ctx, employeeID)
}
