package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecsddagra-prog/training/internal/certificate"
	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/database"
	"github.com/ecsddagra-prog/training/internal/handler"
	"github.com/ecsddagra-prog/training/internal/logger"
	"github.com/ecsddagra-prog/training/internal/repository"
	"github.com/ecsddagra-prog/training/internal/router"
	"github.com/ecsddagra-prog/training/internal/service"
	"github.com/ecsddagra-prog/training/internal/validator"
	"github.com/ecsddagra-prog/training/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Training Platform Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	rankQueue := worker.NewRankQueue(rdb)

	authService := service.NewAuthService(cfg, rdb)
	attemptService := service.NewAttemptService(examRepo, questionRepo, sessionRepo, log)
	submissionService := service.NewSubmissionService(questionRepo, sessionRepo, resultRepo, assignmentRepo, rankQueue, log)
	examService := service.NewExamService(examRepo, questionRepo, assignmentRepo, resultRepo, log)
	questionService := service.NewQuestionService(questionRepo, log)
	portalService := service.NewPortalService(assignmentRepo, resultRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, employeeRepo),
		Attempt:     handler.NewAttemptHandler(attemptService, submissionService),
		Employee:    handler.NewEmployeeHandler(portalService),
		Admin:       handler.NewAdminHandler(examService, questionService),
		Contributor: handler.NewContributorHandler(questionService),
		Monitor:     handler.NewMonitorHandler(rdb, examService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	certGenerator := certificate.NewGenerator(cfg, log)
	ranker := worker.NewRanker(examRepo, resultRepo, employeeRepo, certGenerator, rdb, log)
	rankingWorker := worker.NewRankingWorker(ranker, rdb, log)

	go rankingWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the ranking worker and let it drain its queue.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
