package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/middleware"
	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
	"github.com/ecsddagra-prog/training/internal/validator"
)

// AttemptHandler handles the exam attempt lifecycle: start, autosave,
// session recovery, and submission.
type AttemptHandler struct {
	attemptService    *service.AttemptService
	submissionService *service.SubmissionService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService, submissionService *service.SubmissionService) *AttemptHandler {
	return &AttemptHandler{
		attemptService:    attemptService,
		submissionService: submissionService,
	}
}

// Start godoc
// POST /api/v1/exams/:exam_id/start
// Starts or resumes the caller's attempt and returns the question set
// with the attempt's time envelope.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.attemptService.StartAttempt(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrExamNotYetOpen):
			response.Fail(c, http.StatusForbidden, response.ErrExamNotYetOpen)
		case errors.Is(err, service.ErrLateStartExceeded):
			response.Fail(c, http.StatusForbidden, response.ErrLateStartExceeded)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// Autosave godoc
// PUT /api/v1/exams/:exam_id/autosave
// Overwrites the attempt's buffered answers. Always returns 200: a
// closed session ignores the write rather than failing the client loop.
func (h *AttemptHandler) Autosave(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AutosaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.Autosave(c.Request.Context(), examID, claims.UserID, req.Answers); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": true})
}

// Session godoc
// GET /api/v1/exams/:exam_id/session
// Returns the active session's buffered answers and remaining seconds,
// for clients rebuilding state after a reload.
func (h *AttemptHandler) Session(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.State(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			response.Fail(c, http.StatusNotFound, response.ErrNoSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Submit godoc
// POST /api/v1/exams/:exam_id/submit
// Finalizes the attempt with authoritative server-side scoring. Safe to
// retry: a repeat call returns the already persisted result.
func (h *AttemptHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, ok := pathUUID(c, "exam_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.submissionService.Submit(c.Request.Context(), examID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSession):
			response.Fail(c, http.StatusBadRequest, response.ErrNoSession)
		case errors.Is(err, service.ErrTimeExceeded):
			response.Fail(c, http.StatusForbidden, response.ErrTimeExceeded)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	if outcome.AlreadySubmitted {
		response.Success(c, http.StatusOK, gin.H{
			"message": "Exam already submitted",
			"result":  outcome.Result,
		})
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"result": outcome.Result})
}
