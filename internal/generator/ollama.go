package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

// OllamaGenerator generates stories with a self-hosted Ollama model.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func NewOllamaGenerator(baseURL, model string) *OllamaGenerator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaGenerator{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

func (g *OllamaGenerator) Name() string {
	return "ollama"
}

func (g *OllamaGenerator) Model() string {
	return g.model
}

func (g *OllamaGenerator) Generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  g.model,
		System: systemInstruction,
		Prompt: userPrompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", g.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("API returned status %d", resp.StatusCode)}
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	text := Clean(ollamaResp.Response)
	if text == "" {
		return "", &story.GenerationError{Provider: g.Name(), Err: fmt.Errorf("model returned empty content")}
	}
	return text, nil
}
