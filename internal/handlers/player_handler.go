package handlers

import (
	"errors"
	"net/http"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	"github.com/courseforge/backend/internal/player"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlayerHandler handles HTTP requests for lesson navigation and progress
type PlayerHandler struct {
	BaseHandler
	play PlayerService
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(play PlayerService, logger *zap.Logger) *PlayerHandler {
	return &PlayerHandler{
		play:        play,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all player handler routes
func (h *PlayerHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/lessons", func(r chi.Router) {
		r.Use(auth)
		r.Get("/current", h.CurrentLesson)
		r.Post("/{id}/select", h.SelectLesson)
		r.Post("/{id}/complete", h.CompleteLesson)
	})
}

// CurrentLesson handles GET /lessons/current
// @Summary Get the current lesson
// @Description Get the lesson the session pointer is at, with its completion state
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} services.LessonView "Current lesson"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Router /lessons/current [get]
func (h *PlayerHandler) CurrentLesson(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	view, err := h.play.CurrentLesson(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			h.RespondError(w, http.StatusNotFound, "no active session")
			return
		}
		h.Logger.Error("failed to load current lesson", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to load current lesson")
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// SelectLesson handles POST /lessons/{id}/select
// @Summary Select a lesson
// @Description Move the current lesson pointer to the given lesson if it is unlocked or already completed
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lesson ID"
// @Success 204 "Lesson selected"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Lesson locked"
// @Failure 404 {object} map[string]string "Lesson or session not found"
// @Router /lessons/{id}/select [post]
func (h *PlayerHandler) SelectLesson(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessonID := chi.URLParam(r, "id")
	if lessonID == "" {
		h.RespondError(w, http.StatusBadRequest, "lesson id is required")
		return
	}

	if err := h.play.SelectLesson(r.Context(), user.ID, lessonID); err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSession):
			h.RespondError(w, http.StatusNotFound, "no active session")
		case errors.Is(err, player.ErrLessonNotFound):
			h.RespondError(w, http.StatusNotFound, "lesson not found")
		case errors.Is(err, player.ErrLessonLocked):
			h.RespondError(w, http.StatusForbidden, "lesson is locked")
		default:
			h.Logger.Error("failed to select lesson", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "failed to select lesson")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteLesson handles POST /lessons/{id}/complete
// @Summary Complete a lesson
// @Description Mark a lesson completed, advance the pointer and report certificate state
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} services.CompletionResult "Completion result"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Lesson or session not found"
// @Router /lessons/{id}/complete [post]
func (h *PlayerHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	lessonID := chi.URLParam(r, "id")
	if lessonID == "" {
		h.RespondError(w, http.StatusBadRequest, "lesson id is required")
		return
	}

	result, err := h.play.CompleteLesson(r.Context(), user.ID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSession):
			h.RespondError(w, http.StatusNotFound, "no active session")
		case errors.Is(err, player.ErrLessonNotFound):
			h.RespondError(w, http.StatusNotFound, "lesson not found")
		default:
			h.Logger.Error("failed to complete lesson", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "failed to complete lesson")
		}
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}
