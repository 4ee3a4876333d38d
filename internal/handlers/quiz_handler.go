package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	"github.com/courseforge/backend/internal/player"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuizService is the interface that wraps methods for quiz instances
type QuizService interface {
	// State returns the visible state of a quiz instance
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson containing the quiz block.
	// "blockIndex" is the index of the quiz block within the lesson.
	//
	// Returns the quiz view and an error if any.
	State(ctx context.Context, userID, lessonID string, blockIndex int) (*services.QuizView, error)
	// Answer records the selected option for the current question
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson containing the quiz block.
	// "blockIndex" is the index of the quiz block within the lesson.
	// "optionID" is the ID of the chosen option.
	//
	// Returns the quiz view and an error if any.
	Answer(ctx context.Context, userID, lessonID string, blockIndex int, optionID string) (*services.QuizView, error)
	// Next advances the quiz to its next question
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the user.
	// "lessonID" is the ID of the lesson containing the quiz block.
	// "blockIndex" is the index of the quiz block within the lesson.
	//
	// Returns the quiz view and an error if any.
	Next(ctx context.Context, userID, lessonID string, blockIndex int) (*services.QuizView, error)
}

// answerRequest is the body of an answer submission
type answerRequest struct {
	OptionID string `json:"optionId"`
}

// QuizHandler handles HTTP requests for quiz blocks
type QuizHandler struct {
	BaseHandler
	quizzes QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizzes QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quizzes:     quizzes,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all quiz handler routes
func (h *QuizHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/quiz/{lessonID}/{blockIndex}", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.State)
		r.Post("/answer", h.Answer)
		r.Post("/next", h.Next)
	})
}

// State handles GET /quiz/{lessonID}/{blockIndex}
// @Summary Get quiz state
// @Description Get the visible state of a quiz block, starting it on first access
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param lessonID path string true "Lesson ID"
// @Param blockIndex path int true "Block index within the lesson"
// @Success 200 {object} services.QuizView "Quiz state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Quiz block not found"
// @Router /quiz/{lessonID}/{blockIndex} [get]
func (h *QuizHandler) State(w http.ResponseWriter, r *http.Request) {
	user, lessonID, blockIndex, ok := h.quizParams(w, r)
	if !ok {
		return
	}

	view, err := h.quizzes.State(r.Context(), user, lessonID, blockIndex)
	if err != nil {
		h.respondQuizError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// Answer handles POST /quiz/{lessonID}/{blockIndex}/answer
// @Summary Answer the current question
// @Description Record the selected option; the first answer locks the question and later submissions change nothing
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lessonID path string true "Lesson ID"
// @Param blockIndex path int true "Block index within the lesson"
// @Param request body answerRequest true "Selected option"
// @Success 200 {object} services.QuizView "Quiz state after answering"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Quiz block not found"
// @Router /quiz/{lessonID}/{blockIndex}/answer [post]
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user, lessonID, blockIndex, ok := h.quizParams(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OptionID == "" {
		h.RespondError(w, http.StatusBadRequest, "optionId is required")
		return
	}

	view, err := h.quizzes.Answer(r.Context(), user, lessonID, blockIndex, req.OptionID)
	if err != nil {
		h.respondQuizError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// Next handles POST /quiz/{lessonID}/{blockIndex}/next
// @Summary Advance to the next question
// @Description Move the quiz to its next question once the current one has been answered
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param lessonID path string true "Lesson ID"
// @Param blockIndex path int true "Block index within the lesson"
// @Success 200 {object} services.QuizView "Quiz state after advancing"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Quiz block not found"
// @Failure 409 {object} map[string]string "Question not answered or quiz finished"
// @Router /quiz/{lessonID}/{blockIndex}/next [post]
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	user, lessonID, blockIndex, ok := h.quizParams(w, r)
	if !ok {
		return
	}

	view, err := h.quizzes.Next(r.Context(), user, lessonID, blockIndex)
	if err != nil {
		h.respondQuizError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, view)
}

// quizParams extracts the authenticated user and path parameters, writing the
// error response itself when something is missing
func (h *QuizHandler) quizParams(w http.ResponseWriter, r *http.Request) (userID, lessonID string, blockIndex int, ok bool) {
	user, found := authMiddleware.GetUser(r.Context())
	if !found {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return "", "", 0, false
	}

	lessonID = chi.URLParam(r, "lessonID")
	if lessonID == "" {
		h.RespondError(w, http.StatusBadRequest, "lesson id is required")
		return "", "", 0, false
	}

	blockIndex, err := strconv.Atoi(chi.URLParam(r, "blockIndex"))
	if err != nil || blockIndex < 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid block index")
		return "", "", 0, false
	}

	return user.ID, lessonID, blockIndex, true
}

func (h *QuizHandler) respondQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoActiveSession):
		h.RespondError(w, http.StatusNotFound, "no active session")
	case errors.Is(err, player.ErrLessonNotFound):
		h.RespondError(w, http.StatusNotFound, "lesson not found")
	case errors.Is(err, services.ErrQuizBlockNotFound):
		h.RespondError(w, http.StatusNotFound, "quiz block not found")
	case errors.Is(err, player.ErrQuizNotAnswered):
		h.RespondError(w, http.StatusConflict, "current question has not been answered")
	case errors.Is(err, player.ErrQuizLastQuestion):
		h.RespondError(w, http.StatusConflict, "quiz has no more questions")
	default:
		h.Logger.Error("quiz operation failed", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "quiz operation failed")
	}
}
