package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
	"github.com/ecsddagra-prog/training/internal/validator"
)

// AdminHandler handles the administrative exam surface.
type AdminHandler struct {
	examService     *service.ExamService
	questionService *service.QuestionService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(examService *service.ExamService, questionService *service.QuestionService) *AdminHandler {
	return &AdminHandler{examService: examService, questionService: questionService}
}

// CreateExam godoc
// POST /api/v1/admin/exams
func (h *AdminHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam := &model.Exam{
		Title:              req.Title,
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		PassingScore:       req.PassingScore,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		QuestionsPerExam:   req.QuestionsPerExam,
		RandomizeQuestions: req.RandomizeQuestions,
		CertificateEnabled: req.CertificateEnabled,
	}
	if err := h.examService.Create(c.Request.Context(), exam); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// ListExams godoc
// GET /api/v1/admin/exams?page=1&per_page=10
func (h *AdminHandler) ListExams(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	exams, pagination, err := h.examService.List(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, pagination)
}

// GetExam godoc
// GET /api/v1/admin/exams/:exam_id
func (h *AdminHandler) GetExam(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// AttachQuestions godoc
// PUT /api/v1/admin/exams/:exam_id/questions
// Replaces the exam's question set with the given approved bank questions.
func (h *AdminHandler) AttachQuestions(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AttachQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.examService.AttachQuestions(c.Request.Context(), examID, req.QuestionIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.FailWithMessage(c, http.StatusUnprocessableEntity, response.ErrValidation, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attached": len(req.QuestionIDs)})
}

// ListExamQuestions godoc
// GET /api/v1/admin/exams/:exam_id/questions
func (h *AdminHandler) ListExamQuestions(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	questions, err := h.examService.ListQuestions(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AssignEmployees godoc
// POST /api/v1/admin/exams/:exam_id/assignments
func (h *AdminHandler) AssignEmployees(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AssignEmployeesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.examService.AssignEmployees(c.Request.Context(), examID, req.EmployeeIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assigned": len(req.EmployeeIDs)})
}

// ListExamResults godoc
// GET /api/v1/admin/exams/:exam_id/results
// Returns the exam's results in rank order.
func (h *AdminHandler) ListExamResults(c *gin.Context) {
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.examService.ListResults(c.Request.Context(), examID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// ListPendingQuestions godoc
// GET /api/v1/admin/questions/pending
func (h *AdminHandler) ListPendingQuestions(c *gin.Context) {
	questions, err := h.questionService.ListPending(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ApproveQuestion godoc
// POST /api/v1/admin/questions/:question_id/approve
func (h *AdminHandler) ApproveQuestion(c *gin.Context) {
	h.review(c, h.questionService.Approve)
}

// RejectQuestion godoc
// POST /api/v1/admin/questions/:question_id/reject
func (h *AdminHandler) RejectQuestion(c *gin.Context) {
	h.review(c, h.questionService.Reject)
}

func (h *AdminHandler) review(c *gin.Context, action func(ctx context.Context, id uuid.UUID) error) {
	questionID, ok := pathUUID(c, "question_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := action(c.Request.Context(), questionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
