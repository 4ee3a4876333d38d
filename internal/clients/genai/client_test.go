package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courseforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// generateResponseJSON builds a minimal generateContent response carrying the
// given text and optional grounding chunks
func generateResponseJSON(t *testing.T, text string, sources []models.Source) []byte {
	t.Helper()

	candidate := map[string]any{
		"content": map[string]any{
			"role":  "model",
			"parts": []map[string]string{{"text": text}},
		},
	}
	if len(sources) > 0 {
		chunks := make([]map[string]any, 0, len(sources))
		for _, s := range sources {
			chunks = append(chunks, map[string]any{
				"web": map[string]string{"uri": s.URL, "title": s.Title},
			})
		}
		candidate["groundingMetadata"] = map[string]any{"groundingChunks": chunks}
	}

	body, err := json.Marshal(map[string]any{"candidates": []any{candidate}})
	require.NoError(t, err)
	return body
}

func TestClient_GenerateCourse(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))

		text := "```json\n{\"title\": \"Curso\", \"units\": []}\n```"
		w.Write(generateResponseJSON(t, text, []models.Source{
			{Title: "Fuente", URL: "https://fuente.example"},
		}))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123", "test-model", 5*time.Second, logger)

	raw, sources, err := client.GenerateCourse(context.Background(), models.CourseRequest{Topic: "Historia"})
	require.NoError(t, err)

	// markdown fences stripped, document untouched otherwise
	assert.JSONEq(t, `{"title": "Curso", "units": []}`, string(raw))
	require.Len(t, sources, 1)
	assert.Equal(t, "https://fuente.example", sources[0].URL)
}

func TestClient_GenerateCourse_NoFence(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(generateResponseJSON(t, `  {"title": "Curso", "units": []}  `, nil))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123", "test-model", 5*time.Second, logger)

	raw, sources, err := client.GenerateCourse(context.Background(), models.CourseRequest{Topic: "Historia"})
	require.NoError(t, err)
	assert.Equal(t, `{"title": "Curso", "units": []}`, string(raw))
	assert.Empty(t, sources)
}

func TestClient_GenerateCourse_Unavailable(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name    string
		apiKey  string
		handler http.HandlerFunc
	}{
		{
			name:   "no API key",
			apiKey: "",
		},
		{
			name:   "upstream error status",
			apiKey: "key-123",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name:   "empty candidates",
			apiKey: "key-123",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates": []}`))
			},
		},
		{
			name:   "malformed body",
			apiKey: "key-123",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates": [`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseURL := ""
			if tt.handler != nil {
				server := httptest.NewServer(tt.handler)
				defer server.Close()
				baseURL = server.URL
			}

			client := NewClient(baseURL, tt.apiKey, "test-model", 5*time.Second, logger)
			_, _, err := client.GenerateCourse(context.Background(), models.CourseRequest{Topic: "Historia"})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestClient_AskTutor(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write(generateResponseJSON(t, "  La gravedad atrae masas.  ", nil))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123", "test-model", 5*time.Second, logger)

	answer, err := client.AskTutor(context.Background(), "¿Qué es la gravedad?", "Teoría: la gravedad")
	require.NoError(t, err)
	assert.Equal(t, "La gravedad atrae masas.", answer)

	// the lesson context travels in the prompt
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "Teoría: la gravedad")
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "¿Qué es la gravedad?")
}

func TestMockCourseDocument_Normalizable(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(MockCourseDocument(), &doc))
	assert.NotEmpty(t, doc["units"])
}
