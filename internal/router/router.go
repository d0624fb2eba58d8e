package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/handler"
	"github.com/ecsddagra-prog/training/internal/middleware"
	"github.com/ecsddagra-prog/training/internal/response"
	"github.com/ecsddagra-prog/training/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Attempt     *handler.AttemptHandler
	Employee    *handler.EmployeeHandler
	Admin       *handler.AdminHandler
	Contributor *handler.ContributorHandler
	Monitor     *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve generated certificates statically.
	router.Static("/uploads", cfg.UploadDir)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes; any valid token passes, role
		// checks are not needed for self-lookups.
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Employee Group (JWT + Single Device) ───────────────────────
	employeeAPI := router.Group("/api/v1/employee")
	employeeAPI.Use(
		middleware.RequireEmployeeJWT(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)
	{
		employeeAPI.GET("/exams", handlers.Employee.AssignedExams)
		employeeAPI.GET("/results", handlers.Employee.Results)
	}

	// ─── 3. Attempt Group (JWT + Single Device) ────────────────────────
	attemptAPI := router.Group("/api/v1/exams")
	attemptAPI.Use(
		middleware.RequireEmployeeJWT(authService),
		middleware.CheckSingleDeviceLogin(authService),
	)
	{
		attemptAPI.POST("/:exam_id/start", handlers.Attempt.Start)
		attemptAPI.PUT("/:exam_id/autosave", handlers.Attempt.Autosave)
		attemptAPI.GET("/:exam_id/session", handlers.Attempt.Session)
		attemptAPI.POST("/:exam_id/submit", handlers.Attempt.Submit)
	}

	// ─── 4. Contributor Group (JWT) ────────────────────────────────────
	contributorAPI := router.Group("/api/v1/contributor")
	contributorAPI.Use(middleware.RequireContributorJWT(authService))
	{
		contributorAPI.POST("/questions", handlers.Contributor.SubmitQuestion)
		contributorAPI.GET("/questions", handlers.Contributor.ListOwnQuestions)
	}

	// ─── 5. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/exams", handlers.Admin.CreateExam)
		adminAPI.GET("/exams", handlers.Admin.ListExams)
		adminAPI.GET("/exams/:exam_id", handlers.Admin.GetExam)
		adminAPI.PUT("/exams/:exam_id/questions", handlers.Admin.AttachQuestions)
		adminAPI.GET("/exams/:exam_id/questions", handlers.Admin.ListExamQuestions)
		adminAPI.POST("/exams/:exam_id/assignments", handlers.Admin.AssignEmployees)
		adminAPI.GET("/exams/:exam_id/results", handlers.Admin.ListExamResults)

		adminAPI.GET("/questions/pending", handlers.Admin.ListPendingQuestions)
		adminAPI.POST("/questions/:question_id/approve", handlers.Admin.ApproveQuestion)
		adminAPI.POST("/questions/:question_id/reject", handlers.Admin.RejectQuestion)

		adminAPI.POST("/employees/:employee_id/reset-login", handlers.Auth.ResetEmployeeLogin)
	}

	// ─── 6. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/exams/:exam_id/monitor", handlers.Monitor.MonitorExam)
	}

	return router
}
