package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/middleware"
	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
	"github.com/ecsddagra-prog/training/internal/validator"
)

// ContributorHandler handles the question contribution surface.
type ContributorHandler struct {
	questionService *service.QuestionService
}

// NewContributorHandler creates a new ContributorHandler.
func NewContributorHandler(questionService *service.QuestionService) *ContributorHandler {
	return &ContributorHandler{questionService: questionService}
}

// SubmitQuestion godoc
// POST /api/v1/contributor/questions
// Submits a question to the bank; it stays PENDING until reviewed.
func (h *ContributorHandler) SubmitQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.SubmitForApproval(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// ListOwnQuestions godoc
// GET /api/v1/contributor/questions
// Lists the caller's submitted questions with their review status.
func (h *ContributorHandler) ListOwnQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	questions, err := h.questionService.ListByAuthor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}
