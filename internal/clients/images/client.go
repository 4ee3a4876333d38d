// Package images implements the client for the external prompt-keyed image
// renderer. Rendering is best effort: a fetch that errors or exceeds its
// budget is reported as ErrRenderUnavailable and the caller shows a
// placeholder instead.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrRenderUnavailable indicates the renderer failed or timed out
var ErrRenderUnavailable = errors.New("image renderer unavailable")

// RenderTimeout is the fixed budget for one render; exceeding it is treated
// the same as a render failure.
const RenderTimeout = 15 * time.Second

// qualitySuffix is appended to block prompts to steer the renderer
const qualitySuffix = ", 4k resolution, cinematic lighting, highly detailed"

var promptClean = regexp.MustCompile(`[^\w\s,]`)

// Image holds the rendered bytes and their content type
type Image struct {
	Data        []byte
	ContentType string
}

// Client fetches rendered images from a pollinations-style endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new image renderer client
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: RenderTimeout},
		logger:     logger,
	}
}

// CoverURL builds the render URL for a course cover. The prompt is the
// topic-derived, already URL-encoded value the validator stored on the
// course.
func (c *Client) CoverURL(encodedPrompt string) string {
	return fmt.Sprintf("%s/prompt/%s%%20futuristic%%20educational%%20wallpaper%%204k?width=1920&height=600&model=flux&nologo=true",
		c.baseURL, encodedPrompt)
}

// BlockURL builds the render URL for an in-lesson image block from its raw
// generation prompt.
func (c *Client) BlockURL(prompt string) string {
	clean := promptClean.ReplaceAllString(prompt, "")
	runes := []rune(clean)
	if len(runes) > 150 {
		runes = runes[:150]
	}
	full := string(runes) + qualitySuffix
	return fmt.Sprintf("%s/prompt/%s?width=1280&height=720&model=flux&nologo=true",
		c.baseURL, url.PathEscape(full))
}

// Fetch retrieves a rendered image within the fixed budget. Any failure,
// including the timeout, comes back as ErrRenderUnavailable.
func (c *Client) Fetch(ctx context.Context, renderURL string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, RenderTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, renderURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("image render failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRenderUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Image{Data: data, ContentType: contentType}, nil
}
