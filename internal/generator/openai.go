package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

// OpenAIGenerator talks to an OpenAI-compatible chat/completions endpoint.
// With a custom base URL it also serves OpenRouter and similar providers.
type OpenAIGenerator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewOpenAIGenerator(baseURL, apiKey, model string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	return &OpenAIGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func (g *OpenAIGenerator) Model() string {
	return g.model
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.8,
		MaxTokens:   2000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", g.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("API error: %s", chatResp.Error.Message)}
		}
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("response contained no choices")}
	}

	text := Clean(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("model returned empty content")}
	}
	return text, nil
}
