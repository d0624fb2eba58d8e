package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/middleware"
	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/repository"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
	"github.com/ecsddagra-prog/training/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService  *service.AuthService
	employeeRepo *repository.EmployeeRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, employeeRepo *repository.EmployeeRepository) *AuthHandler {
	return &AuthHandler{authService: authService, employeeRepo: employeeRepo}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email/employee code + password and returns a JWT. Employee
// logins are single-device: an existing login is rejected until reset.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	emp, err := h.employeeRepo.GetByIdentifier(c.Request.Context(), req.Identifier)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(emp.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(c.Request.Context(), emp)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":            emp.ID,
			"name":          emp.Name,
			"email":         emp.Email,
			"employee_code": emp.EmployeeCode,
			"role":          emp.Role,
		},
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	emp, err := h.employeeRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": emp})
}

// Logout godoc
// POST /api/v1/auth/logout
// Releases the caller's single-device login so they can log in elsewhere.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if claims.Role == model.RoleEmployee {
		if err := h.authService.ResetEmployeeLogin(c.Request.Context(), claims.UserID); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ResetEmployeeLogin godoc
// POST /api/v1/admin/employees/:employee_id/reset-login
// Clears a stuck single-device login so the employee can log in again.
func (h *AuthHandler) ResetEmployeeLogin(c *gin.Context) {
	employeeID, ok := pathInt(c, "employee_id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.authService.ResetEmployeeLogin(c.Request.Context(), employeeID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
