package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/model"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
)

// CheckSingleDeviceLogin validates the JWT's JTI against the active login
// in Redis. A mismatch means the login was reset by an admin or replaced,
// and the request is rejected.
func CheckSingleDeviceLogin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only enforce for exam-taking employees.
		if claims.Role != model.RoleEmployee {
			c.Next()
			return
		}

		if err := authService.ValidateEmployeeLogin(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
