package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	authMiddleware "github.com/courseforge/backend/internal/auth/middleware"
	"github.com/courseforge/backend/internal/clients/images"
	"github.com/courseforge/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ImageRenderer is the interface that wraps the prompt-keyed image renderer
type ImageRenderer interface {
	// CoverURL builds the render URL for a course cover
	//
	// "encodedPrompt" is the URL-encoded cover prompt stored on the course.
	//
	// Returns the render URL.
	CoverURL(encodedPrompt string) string
	// BlockURL builds the render URL for an in-lesson image block
	//
	// "prompt" is the raw generation prompt of the block.
	//
	// Returns the render URL.
	BlockURL(prompt string) string
	// Fetch retrieves a rendered image within the render budget
	//
	// "ctx" is the context for the request.
	// "renderURL" is the URL to fetch.
	//
	// Returns the image and an error if any.
	Fetch(ctx context.Context, renderURL string) (*images.Image, error)
}

// ImageHandler proxies rendered images so the renderer endpoint and its
// prompts stay server side
type ImageHandler struct {
	BaseHandler
	renderer ImageRenderer
	play     PlayerService
}

// NewImageHandler creates a new image handler
func NewImageHandler(renderer ImageRenderer, play PlayerService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		renderer:    renderer,
		play:        play,
		BaseHandler: BaseHandler{Logger: logger},
	}
}

// RegisterRoutes registers all image handler routes
func (h *ImageHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/images", func(r chi.Router) {
		r.Use(auth)
		r.Get("/cover", h.Cover)
		r.Get("/block", h.Block)
	})
}

// Cover handles GET /images/cover
// @Summary Get the course cover image
// @Description Render the cover image for the active course from its stored cover prompt
// @Tags images
// @Produce image/jpeg
// @Security ApiKeyAuth
// @Success 200 {file} binary "Rendered cover"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active session"
// @Failure 503 {object} map[string]string "Renderer unavailable"
// @Router /images/cover [get]
func (h *ImageHandler) Cover(w http.ResponseWriter, r *http.Request) {
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

	h.serve(w, r, h.renderer.CoverURL(view.Course.CoverPrompt))
}

// Block handles GET /images/block
// @Summary Get a lesson block image
// @Description Render an in-lesson image block from its generation prompt
// @Tags images
// @Produce image/jpeg
// @Security ApiKeyAuth
// @Param prompt query string true "Block image prompt"
// @Success 200 {file} binary "Rendered image"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Renderer unavailable"
// @Router /images/block [get]
func (h *ImageHandler) Block(w http.ResponseWriter, r *http.Request) {
	if _, ok := authMiddleware.GetUser(r.Context()); !ok {
		h.Logger.Error("user not found in context")
		h.RespondError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	prompt := strings.TrimSpace(r.URL.Query().Get("prompt"))
	if prompt == "" {
		h.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	h.serve(w, r, h.renderer.BlockURL(prompt))
}

func (h *ImageHandler) serve(w http.ResponseWriter, r *http.Request, renderURL string) {
	img, err := h.renderer.Fetch(r.Context(), renderURL)
	if err != nil {
		if errors.Is(err, images.ErrRenderUnavailable) {
			h.RespondError(w, http.StatusServiceUnavailable, "image renderer unavailable")
			return
		}
		h.Logger.Error("failed to fetch image", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to fetch image")
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		h.Logger.Warn("failed to write image response", zap.Error(err))
	}
}
