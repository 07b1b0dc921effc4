package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

// FileExcerpt is an uploaded-file snippet embedded into the prompt.
type FileExcerpt struct {
	Filename    string
	ContentType string
	Text        string
}

// GenerationRequest carries the report configuration the model writes from.
type GenerationRequest struct {
	Title        string
	Industry     string
	ReportType   string
	Audience     string
	Purpose      string
	Tone         string
	Depth        string
	SystemPrompt string
	UserPrompt   string
	Inputs       map[string]string
	InputKeys    []string // stable prompt ordering for Inputs
	FileExcerpts []FileExcerpt
}

// Generator produces report content. Implementations must be invoked at most
// once per settlement attempt by the caller.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (content string, err error)
	Model() string
}

const defaultSystemPrompt = "You are an expert business analyst and report writer. " +
	"Produce well-structured markdown reports with clear headings, concrete figures where available, and actionable recommendations."

// excerptLimit caps per-file text embedded in the prompt to avoid token overflow.
const excerptLimit = 5000

// Client calls the OpenAI chat completions API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	system := req.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}
	body, _ := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   4000,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: BuildPrompt(req)},
		},
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("openai: invalid response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("openai: %s", out.Error.Message)
		}
		return "", fmt.Errorf("openai: status %d", resp.StatusCode)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}

// BuildPrompt assembles the user prompt from the report configuration,
// wizard inputs and uploaded-file excerpts.
func BuildPrompt(req GenerationRequest) string {
	var b bytes.Buffer
	if req.UserPrompt != "" {
		b.WriteString(req.UserPrompt)
	} else {
		fmt.Fprintf(&b, "Generate a detailed %s report for the %s industry.", req.ReportType, req.Industry)
	}
	b.WriteString("\n\nReport Configuration:\n")
	fmt.Fprintf(&b, "- Title: %s\n", req.Title)
	fmt.Fprintf(&b, "- Industry: %s\n", req.Industry)
	fmt.Fprintf(&b, "- Report Type: %s\n", req.ReportType)
	fmt.Fprintf(&b, "- Audience: %s\n", req.Audience)
	fmt.Fprintf(&b, "- Purpose: %s\n", req.Purpose)
	fmt.Fprintf(&b, "- Tone: %s\n", req.Tone)
	fmt.Fprintf(&b, "- Depth: %s\n", req.Depth)

	if len(req.Inputs) > 0 {
		b.WriteString("\nUser Input Data:\n")
		keys := req.InputKeys
		if len(keys) == 0 {
			for k := range req.Inputs {
				keys = append(keys, k)
			}
		}
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, req.Inputs[k])
		}
	}

	if len(req.FileExcerpts) > 0 {
		b.WriteString("\nUPLOADED DATA FILES:\n===================\n")
		for _, f := range req.FileExcerpts {
			fmt.Fprintf(&b, "\nFile: %s\nType: %s\nContent:\n", f.Filename, f.ContentType)
			text := f.Text
			if len(text) > excerptLimit {
				// Back off to a rune boundary so the cut never splits a
				// multi-byte character.
				cut := excerptLimit
				for cut > 0 && !utf8.RuneStart(text[cut]) {
					cut--
				}
				text = text[:cut] + "...[truncated]"
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nIMPORTANT: Analyze the data provided and generate insights with concrete recommendations.")
	return b.String()
}
