package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	authService "github.com/courseforge/backend/internal/auth/service"
	"github.com/courseforge/backend/internal/clients/genai"
	"github.com/courseforge/backend/internal/clients/images"
	"github.com/courseforge/backend/internal/config"
	"github.com/courseforge/backend/internal/handlers"
	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/middlewares"
	"github.com/courseforge/backend/internal/repositories"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/courseforge/backend/docs"
)

// @title CourseForge API
// @version 1.0
// @description API for AI-generated course creation, lesson playback and tutoring
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting CourseForge server")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT token validation
	tokens := authService.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(db)

	// Initialize external clients
	generator := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Timeout, logger.Logger)
	renderer := images.NewClient(cfg.Images.BaseURL, logger.Logger)

	// Initialize services. The quiz and tutor services hold per-user
	// in-memory state; the course service resets them whenever a session is
	// replaced or destroyed.
	quizService := services.NewQuizService(sessionRepo, logger.Logger)
	tutorService := services.NewTutorService(sessionRepo, generator, logger.Logger)
	playerService := services.NewPlayerService(sessionRepo, logger.Logger)
	courseService := services.NewCourseService(sessionRepo, generator, logger.Logger, cfg.GenAI.MockFallback, quizService, tutorService)

	// Initialize handlers
	courseHandler := handlers.NewCourseHandler(courseService, playerService, logger.Logger)
	playerHandler := handlers.NewPlayerHandler(playerService, logger.Logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger.Logger)
	tutorHandler := handlers.NewTutorHandler(tutorService, logger.Logger)
	imageHandler := handlers.NewImageHandler(renderer, playerService, logger.Logger)

	// Initialize auth middleware
	auth := authMiddleware.AuthMiddleware(tokens)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(10 * 1024 * 1024)) // 10MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		courseHandler.RegisterRoutes(r, auth)
		playerHandler.RegisterRoutes(r, auth)
		quizHandler.RegisterRoutes(r, auth)
		tutorHandler.RegisterRoutes(r, auth)
		imageHandler.RegisterRoutes(r, auth)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, path string) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "courseforge_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+path,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
