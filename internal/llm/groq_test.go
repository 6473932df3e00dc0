package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitalplan/internal/config"
)

func newTestGroq(t *testing.T, h http.HandlerFunc) TextGenerator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewGroqClient(&config.Config{GroqAPIKey: "test-key"}).(*groqClient)
	c.url = srv.URL
	return c
}

func TestGroqGenerateContent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gen := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, groqModel, body["model"])

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"model": "llama-3.3-70b-versatile",
				"choices": [{"message": {"content": "{\"meals\": []}"}}],
				"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
			}`))
		})

		resp, err := gen.GenerateContent(context.Background(), "plan please")
		require.NoError(t, err)
		assert.Equal(t, `{"meals": []}`, resp.Content)
		assert.Equal(t, 120, resp.Usage.PromptTokens)
		assert.Equal(t, 30, resp.Usage.CompletionTokens)
		assert.Equal(t, 150, resp.Usage.TotalTokens)
		assert.Equal(t, groqModel, resp.Usage.Model)
	})

	t.Run("APIError", func(t *testing.T) {
		gen := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		})

		_, err := gen.GenerateContent(context.Background(), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=429")
	})

	t.Run("NoChoices", func(t *testing.T) {
		gen := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		})

		_, err := gen.GenerateContent(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNoContent)
	})
}
