package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptIncludesInputsInOrder(t *testing.T) {
	prompt := BuildPrompt(GenerationRequest{
		Title:      "Q3 Cash Flow",
		Industry:   "Retail",
		ReportType: "cash flow analysis",
		Inputs:     map[string]string{"revenue": "120000", "expenses": "90000"},
		InputKeys:  []string{"revenue", "expenses"},
	})
	assert.Contains(t, prompt, "Title: Q3 Cash Flow")
	assert.Contains(t, prompt, "- revenue: 120000")
	assert.Contains(t, prompt, "- expenses: 90000")
	assert.Less(t, strings.Index(prompt, "revenue"), strings.Index(prompt, "expenses"))
}

func TestBuildPromptTruncatesLongExcerpts(t *testing.T) {
	prompt := BuildPrompt(GenerationRequest{
		Title: "Data Heavy",
		FileExcerpts: []FileExcerpt{{
			Filename:    "data.csv",
			ContentType: "text/csv",
			Text:        strings.Repeat("x", excerptLimit+500),
		}},
	})
	assert.Contains(t, prompt, "...[truncated]")
	assert.NotContains(t, prompt, strings.Repeat("x", excerptLimit+1))
}

func TestBuildPromptTruncationKeepsRuneBoundary(t *testing.T) {
	// Place a multi-byte character straddling the cut point. A byte-index
	// slice would leave a partial UTF-8 sequence in the prompt.
	text := strings.Repeat("x", excerptLimit-1) + strings.Repeat("é", 300)
	prompt := BuildPrompt(GenerationRequest{
		Title: "Unicode Heavy",
		FileExcerpts: []FileExcerpt{{
			Filename:    "notes.txt",
			ContentType: "text/plain",
			Text:        text,
		}},
	})
	assert.Contains(t, prompt, "...[truncated]")
	assert.True(t, utf8.ValidString(prompt))
}

func TestBuildPromptUsesTemplatePromptWhenSet(t *testing.T) {
	prompt := BuildPrompt(GenerationRequest{UserPrompt: "Calculate net cash flow from the figures."})
	assert.True(t, strings.HasPrefix(prompt, "Calculate net cash flow"))
}

func TestClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 0.001)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "# Generated Report"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4o", srv.URL, 5*time.Second)
	content, err := c.Generate(context.Background(), GenerationRequest{Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, "# Generated Report", content)
}

func TestClientGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4o", srv.URL, 5*time.Second)
	_, err := c.Generate(context.Background(), GenerationRequest{Title: "T"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
