package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	"github.com/courseforge/backend/internal/models"
	"github.com/courseforge/backend/internal/player"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TutorService is the interface that wraps methods for the lesson tutor
type TutorService interface {
	// Messages returns the user's conversation log
	//
	// "userID" is the ID of the user.
	//
	// Returns the messages in send order.
	Messages(userID string) []models.ChatMessage
	// Ask submits a question about the current lesson
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "question" is the student's free-text question.
	//
	// Returns the tutor's reply message and an error if any.
	Ask(ctx context.Context, userID, question string) (*models.ChatMessage, error)
}

// askRequest is the body of a tutor question
type askRequest struct {
	Question string `json:"question"`
}

// TutorHandler handles HTTP requests for the lesson tutor
type TutorHandler struct {
	BaseHandler
	tutor TutorService
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutor TutorService, logger *zap.Logger) *TutorHandler {
	return &TutorHandler{
		tutor:       tutor,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all tutor handler routes
func (h *TutorHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/tutor", func(r chi.Router) {
		r.Use(auth)
		r.Get("/messages", h.Messages)
		r.Post("/ask", h.Ask)
	})
}

// Messages handles GET /tutor/messages
// @Summary Get the tutor conversation
// @Description Get the conversation log in send order, seeding a new conversation with the welcome message
// @Tags tutor
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.ChatMessage "Conversation messages"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /tutor/messages [get]
func (h *TutorHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	h.RespondJSON(w, http.StatusOK, h.tutor.Messages(user.ID))
}

// Ask handles POST /tutor/ask
// @Summary Ask the tutor a question
// @Description Ask a question about the current lesson; one question may be in flight at a time
// @Tags tutor
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body askRequest true "Question"
// @Success 200 {object} models.ChatMessage "Tutor reply"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Failure 429 {object} map[string]string "A reply is already pending"
// @Router /tutor/ask [post]
func (h *TutorHandler) Ask(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.GetUser(r.Context())
	if !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		h.RespondError(w, http.StatusBadRequest, "question is required")
		return
	}

	reply, err := h.tutor.Ask(r.Context(), user.ID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveSession):
			h.RespondError(w, http.StatusNotFound, "no active session")
		case errors.Is(err, player.ErrLessonNotFound):
			h.RespondError(w, http.StatusNotFound, "current lesson not found")
		case errors.Is(err, services.ErrReplyPending):
			h.RespondError(w, http.StatusTooManyRequests, "a reply is already pending")
		default:
			h.Logger.Error("failed to ask tutor", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "failed to ask tutor")
		}
		return
	}

	h.RespondJSON(w, http.StatusOK, reply)
}
