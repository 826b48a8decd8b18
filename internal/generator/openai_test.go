package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

func TestNew(t *testing.T) {
	if _, err := New(Config{Provider: "openai", APIKey: "sk-test"}); err != nil {
		t.Errorf("openai: unexpected error: %v", err)
	}
	if _, err := New(Config{Provider: "openai"}); err == nil {
		t.Error("openai without API key: expected error")
	}
	if _, err := New(Config{Provider: "ollama"}); err != nil {
		t.Errorf("ollama: unexpected error: %v", err)
	}
	if _, err := New(Config{Provider: "gemini"}); err == nil {
		t.Error("unknown provider: expected error")
	}
}

func TestOpenAIGenerator_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %q", got)
		}

		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if req.MaxTokens != 2000 {
			t.Errorf("expected max_tokens 2000, got %d", req.MaxTokens)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "从前有一个机器人。"}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "sk-test", "gpt-3.5-turbo")
	text, err := g.Generate(context.Background(), "You are a storyteller.", "Write a story.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "从前有一个机器人。" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestOpenAIGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "sk-bad", "")
	_, err := g.Generate(context.Background(), "sys", "user")
	if err == nil {
		t.Fatal("expected error")
	}

	var genErr *story.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %T", err)
	}
	if genErr.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", genErr.Provider)
	}
}

func TestOpenAIGenerator_Generate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "   "}},
			},
		})
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "sk-test", "")
	_, err := g.Generate(context.Background(), "sys", "user")
	var genErr *story.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError for empty content, got %v", err)
	}
}

func TestOpenAIGenerator_Defaults(t *testing.T) {
	g := NewOpenAIGenerator("", "sk-test", "")
	if g.baseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected default base URL: %q", g.baseURL)
	}
	if g.model != "gpt-3.5-turbo" {
		t.Errorf("unexpected default model: %q", g.model)
	}
}

func TestOllamaGenerator_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("expected stream=false")
		}
		if req.System == "" || req.Prompt == "" {
			t.Errorf("expected system and prompt to be set: %+v", req)
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "A story about a robot."})
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL, "llama3.2")
	text, err := g.Generate(context.Background(), "You are a storyteller.", "Write a story.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A story about a robot." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestOllamaGenerator_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewOllamaGenerator(server.URL, "")
	_, err := g.Generate(context.Background(), "sys", "user")
	var genErr *story.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}
