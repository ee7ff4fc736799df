package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAIClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Model != "gpt-4o" {
			t.Errorf("expected model 'gpt-4o', got %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		if req.Temperature != 0 {
			t.Errorf("expected temperature 0, got %v", req.Temperature)
		}
		if req.Seed == nil || *req.Seed != 422 {
			t.Errorf("expected seed 422, got %v", req.Seed)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "จอน,จอห์น"}},
			},
		})
	}))
	defer server.Close()

	c := NewOpenAIClient("test-key", server.URL, time.Second)

	got, err := c.Complete(context.Background(), Request{
		Model:  "gpt-4o",
		System: "system",
		Prompt: "prompt",
		Seed:   Seed(422),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "จอน,จอห์น" {
		t.Errorf("expected raw content back, got %q", got)
	}
}

func TestOpenAIClient_Complete_SeedAndMaxTokensOmitted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["seed"]; ok {
			t.Error("seed should be omitted when unset")
		}
		if _, ok := raw["max_tokens"]; ok {
			t.Error("max_tokens should be omitted when zero")
		}
		if _, ok := raw["temperature"]; !ok {
			t.Error("temperature must always be sent")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer server.Close()

	c := NewOpenAIClient("k", server.URL, time.Second)
	if _, err := c.Complete(context.Background(), Request{Model: "m", Prompt: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAIClient_Complete_NoAPIKey(t *testing.T) {
	c := NewOpenAIClient("", "http://localhost:1", time.Second)

	_, err := c.Complete(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestOpenAIClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "invalid json", status: http.StatusOK, body: `not json`, wantErr: ErrResponseInvalid},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrResponseInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewOpenAIClient("k", server.URL, time.Second)
			_, err := c.Complete(context.Background(), Request{Prompt: "p"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOllamaClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaRequest
		json.NewDecoder(r.Body).Decode(&req)

		if req.Stream {
			t.Error("expected stream=false")
		}
		if req.System != "sys" {
			t.Errorf("expected system prompt, got %q", req.System)
		}
		if req.Options.Seed == nil || *req.Options.Seed != 123 {
			t.Errorf("expected seed 123, got %v", req.Options.Seed)
		}
		if req.Options.NumPredict != 2000 {
			t.Errorf("expected num_predict 2000, got %d", req.Options.NumPredict)
		}

		json.NewEncoder(w).Encode(ollamaResponse{Response: "ผมชื่อจอห์น."})
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, time.Second)

	got, err := c.Complete(context.Background(), Request{
		Model:     "llama3.2",
		System:    "sys",
		Prompt:    "p",
		MaxTokens: 2000,
		Seed:      Seed(123),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ผมชื่อจอห์น." {
		t.Errorf("unexpected response %q", got)
	}
}

func TestOllamaClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewOllamaClient(server.URL, time.Second)
	if _, err := c.Complete(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Error("expected error for non-OK status")
	}
}

func TestOllamaClient_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := NewOllamaClient(server.URL, time.Second).IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	down := NewOllamaClient("http://localhost:19999", 100*time.Millisecond)
	if err := down.IsAvailable(context.Background()); err == nil {
		t.Error("expected error when Ollama not available")
	}
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		return req.Prompt, nil
	})
	got, err := c.Complete(context.Background(), Request{Prompt: "echo"})
	if err != nil || got != "echo" {
		t.Errorf("got %q, %v", got, err)
	}
}
