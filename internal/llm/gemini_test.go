package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiContent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"meals": []}`), genai.Text("ignored")}}},
			},
			UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 90, CandidatesTokenCount: 40, TotalTokenCount: 130},
		}

		got, err := geminiContent(resp)
		require.NoError(t, err)
		assert.Equal(t, `{"meals": []}`, got.Content)
		assert.Equal(t, 90, got.Usage.PromptTokens)
		assert.Equal(t, 40, got.Usage.CompletionTokens)
		assert.Equal(t, 130, got.Usage.TotalTokens)
		assert.Equal(t, geminiModel, got.Usage.Model)
	})

	t.Run("MissingUsage", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("ok")}}}},
		}

		got, err := geminiContent(resp)
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Content)
		assert.Zero(t, got.Usage.TotalTokens)
		assert.Equal(t, geminiModel, got.Usage.Model)
	})

	t.Run("NoContent", func(t *testing.T) {
		for name, resp := range map[string]*genai.GenerateContentResponse{
			"nil":           nil,
			"no candidates": {},
			"nil content":   {Candidates: []*genai.Candidate{{}}},
			"no parts":      {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		} {
			_, err := geminiContent(resp)
			assert.ErrorIs(t, err, ErrNoContent, name)
		}
	})

	t.Run("NonTextPart", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png", Data: []byte{1}}}}}},
		}

		_, err := geminiContent(resp)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not text")
	})
}
