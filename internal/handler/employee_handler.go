package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/middleware"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
)

// EmployeeHandler serves the employee portal read surface.
type EmployeeHandler struct {
	portalService *service.PortalService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(portalService *service.PortalService) *EmployeeHandler {
	return &EmployeeHandler{portalService: portalService}
}

// AssignedExams godoc
// GET /api/v1/employee/exams
// Lists the caller's assigned exams with completion state and result.
func (h *EmployeeHandler) AssignedExams(c *gin.Context) {
	claims := middleware.GetClaims(c)

	exams, err := h.portalService.AssignedExams(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// Results godoc
// GET /api/v1/employee/results
// Lists the caller's own results, newest first.
func (h *EmployeeHandler) Results(c *gin.Context) {
	claims := middleware.GetClaims(c)

	results, err := h.portalService.Results(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
