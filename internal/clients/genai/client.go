// Package genai implements the HTTP client for the generative collaborators:
// the course producer and the question-answering tutor. The backend treats
// both as unreliable; every caller is expected to substitute a fallback when
// a call fails.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/courseforge/backend/internal/models"
	"go.uber.org/zap"
)

// ErrUnavailable indicates the generative service could not produce a
// response. Callers recover by substituting fallback content.
var ErrUnavailable = errors.New("generative service unavailable")

const courseSystemPrompt = `Actúa como un arquitecto pedagógico experto en diseño instruccional.
Crea cursos online estructurados y personalizados en formato JSON estricto.

Reglas:
1. Tono empático, claro y riguroso pero accesible. Español neutro.
2. Estructura: Unidades -> Lecciones -> Bloques.
3. Usa variedad de bloques: "theory", "example", "activity", "quiz", "image".
4. Usa **negrita** para conceptos y bloques de código markdown cuando aplique.
5. En los bloques "image", el campo "content" es un PROMPT descriptivo en
   inglés para generar la imagen; el título es el pie de foto en español.
6. En los bloques "quiz", cada opción lleva la propiedad "text":
   options: [{ "id": "a", "text": "Respuesta 1", "isCorrect": true }, ...]
7. Devuelve SOLO el JSON válido, con esta forma:
{
  "title": string, "description": string, "level": string, "tags": [string],
  "units": [{ "id": string, "title": string, "description": string,
    "lessons": [{ "id": string, "title": string, "duration": string,
      "isLocked": boolean,
      "blocks": [{ "type": string, "title": string, "content": any }] }] }],
  "sources": [{ "title": string, "url": string }]
}`

const tutorSystemPrompt = `Eres un tutor personal amable y conciso. Responde a la pregunta del
estudiante basándote PRINCIPALMENTE en el contexto de la lección. Si la
respuesta no está en la lección, usa tu conocimiento general pero menciona
que es información extra. Sé breve, máximo 3 frases.`

// Client calls a Gemini-style generateContent endpoint
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new generative client. An empty apiKey is allowed;
// calls will then fail with ErrUnavailable and callers fall back to mock
// content, which keeps the rest of the system exercisable without a key.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	Tools             []tool            `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

var jsonFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// GenerateCourse asks the producer for a course document on the requested
// topic. It returns the raw JSON document exactly as generated (markdown
// fences stripped) plus any grounding sources the model searched; validation
// is the schema package's job.
func (c *Client) GenerateCourse(ctx context.Context, req models.CourseRequest) ([]byte, []models.Source, error) {
	userPrompt := fmt.Sprintf(`Crea un curso sobre: %q.
Nivel: %s.
Perfil del alumno: %s.
Objetivo: %s.
Tiempo disponible: %s.
Formato preferido: %s.

Instrucciones adicionales:
1. Incluye al menos 2 unidades y 2-3 lecciones por unidad.
2. La primera lección debe estar desbloqueada (isLocked: false), las demás bloqueadas.
3. Incluye al menos 1 bloque de tipo "image" en cada lección.
4. Genera al final un array "sources" con enlaces reales, preferentemente en español.`,
		req.Topic, req.Level, req.Profile, req.Goal, req.Time, req.Format)

	resp, err := c.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: courseSystemPrompt}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: userPrompt}}}},
		Tools:             []tool{{GoogleSearch: &struct{}{}}},
		GenerationConfig:  &generationConfig{Temperature: 0.7},
	})
	if err != nil {
		return nil, nil, err
	}

	text := firstText(resp)
	if text == "" {
		return nil, nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	return []byte(strings.TrimSpace(text)), groundedSources(resp), nil
}

// AskTutor asks the tutor collaborator a question grounded on the given
// lesson context and returns the free-text answer.
func (c *Client) AskTutor(ctx context.Context, question, lessonContext string) (string, error) {
	prompt := fmt.Sprintf("Contexto de la lección actual:\n%s\n\nPregunta del estudiante: %q",
		lessonContext, question)

	resp, err := c.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: tutorSystemPrompt}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(firstText(resp))
	if answer == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return answer, nil
}

// generate performs one generateContent call
func (c *Client) generate(ctx context.Context, req generateRequest) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("generative call failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		c.logger.Warn("generative call returned non-200",
			zap.Int("status", httpResp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, httpResp.StatusCode)
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &resp, nil
}

// firstText concatenates the text parts of the first candidate
func firstText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// groundedSources extracts search-grounding references from the response
func groundedSources(resp *generateResponse) []models.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var sources []models.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil || chunk.Web.URI == "" || chunk.Web.Title == "" {
			continue
		}
		sources = append(sources, models.Source{Title: chunk.Web.Title, URL: chunk.Web.URI})
	}
	return sources
}
