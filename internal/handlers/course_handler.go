package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course lifecycle
// operations
type CourseService interface {
	// Generate produces a new course and replaces the user's session
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "req" is the course request.
	//
	// Returns the new session snapshot and an error if any.
	Generate(ctx context.Context, userID string, req models.CourseRequest) (*models.Snapshot, error)
	// ExitToHome destroys the user's active session
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns an error if any.
	ExitToHome(ctx context.Context, userID string) error
}

// PlayerService is the interface that wraps methods for lesson playback
type PlayerService interface {
	// Overview returns the active session with derived progress
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the session view and an error if any.
	Overview(ctx context.Context, userID string) (*services.SessionView, error)
	// CurrentLesson returns the lesson the session points at
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	//
	// Returns the lesson view and an error if any.
	CurrentLesson(ctx context.Context, userID string) (*services.LessonView, error)
	// SelectLesson moves the current lesson pointer, honoring lock state
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson to select.
	//
	// Returns an error if any.
	SelectLesson(ctx context.Context, userID, lessonID string) error
	// CompleteLesson marks a lesson completed
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson to complete.
	//
	// Returns the completion result and an error if any.
	CompleteLesson(ctx context.Context, userID, lessonID string) (*services.CompletionResult, error)
}

// CourseHandler handles HTTP requests for course and session operations
type CourseHandler struct {
	BaseHandler
	courses CourseService
	play    PlayerService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseService, play PlayerService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses:     courses,
		play:        play,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.Use(auth)
		r.Post("/generate", h.Generate)
	})
	r.Route("/session", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.GetSession)
		r.Delete("/", h.ExitToHome)
	})
}

// Generate handles POST /courses/generate
// @Summary Generate a new course
// @Description Generate a course on the requested topic and replace the active session with it
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CourseRequest true "Course request"
// @Success 201 {object} models.Snapshot "New session"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Generation failed, retry"
// @Router /courses/generate [post]
func (h *CourseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		h.RespondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	snapshot, err := h.courses.Generate(r.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, services.ErrGenerationFailed) {
			h.RespondError(w, http.StatusBadGateway, "course generation failed, please try again")
			return
		}
		h.Logger.Error("failed to generate course", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to generate course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, snapshot)
}

// GetSession handles GET /session
// @Summary Get the active session
// @Description Get the active course with progress state, applying snapshot recovery rules
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.SessionView "Active session"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Router /session [get]
func (h *CourseHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	view, err := h.play.Overview(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			h.RespondError(w, http.StatusNotFound, "no active session")
			return
		}
		h.Logger.Error("failed to load session", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// ExitToHome handles DELETE /session
// @Summary Exit to home
// @Description Destroy the active session; the snapshot is cleared with no undo
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 204 "Session cleared"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /session [delete]
func (h *CourseHandler) ExitToHome(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.courses.ExitToHome(r.Context(), user.ID); err != nil {
		h.Logger.Error("failed to clear session", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
