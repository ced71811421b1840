package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatServer serves one canned chat completion and captures the request.
func chatServer(t *testing.T, status int, body map[string]any, captured *map[string]any) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 20, "total_tokens": 60},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var captured map[string]any
	url := chatServer(t, http.StatusOK, completion(`{"status":"CORRECT","feedbackMessage":"Nice!"}`, "stop"), &captured)
	p := newOpenAICompatible("test-key", url, "gpt-4.1-mini", true)

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a tutor.",
		Messages:  UserMessage("Evaluate this answer."),
		Schema:    feedbackSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 60 || resp.Model != "gpt-4.1-mini" || resp.StopReason != "end" {
		t.Fatalf("unexpected response metadata: %+v", resp)
	}

	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(msgs))
	}
	format, _ := captured["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if format["type"] != "json_schema" || schema["name"] != "test-feedback" || schema["strict"] != true {
		t.Fatalf("unexpected response_format: %v", format)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		check  func(error) bool
	}{
		{
			name:   "rate limit",
			status: http.StatusTooManyRequests,
			body:   map[string]any{"error": map[string]any{"type": "rate_limit", "message": "slow down"}},
			check:  func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) },
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": map[string]any{"type": "server_error", "message": "boom"}},
			check:  func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) },
		},
		{
			name:   "truncated",
			status: http.StatusOK,
			body:   completion(`{"status":"COR`, "length"),
			check:  func(err error) bool { var e *ErrMaxTokensExceeded; return errors.As(err, &e) },
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   completion("", "stop"),
			check:  func(err error) bool { return errors.Is(err, ErrEmptyResponse) },
		},
		{
			name:   "schema mismatch",
			status: http.StatusOK,
			body:   completion(`{"status":"GREAT","feedbackMessage":"x"}`, "stop"),
			check:  func(err error) bool { var e *ErrInvalidResponse; return errors.As(err, &e) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newOpenAICompatible("test-key", chatServer(t, tt.status, tt.body, nil), "gpt-4.1-mini", true)
			_, err := p.Generate(context.Background(), Request{
				Messages:  UserMessage("test"),
				Schema:    feedbackSchema(),
				MaxTokens: 100,
			})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %T (%v)", err, err)
			}
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-mini"}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4.1-mini" {
		t.Fatalf("ModelID = %q, want gpt-4.1-mini", p.ModelID())
	}
}

func TestOpenRouterProvider(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("ModelID = %q, want pass-through", p.ModelID())
	}

	var captured map[string]any
	url := chatServer(t, http.StatusOK, completion(`{"status":"PARTIAL","feedbackMessage":"Close"}`, "stop"), &captured)
	p, err = NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "google/gemini-2.5-flash", BaseURL: url})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Messages: UserMessage("x"), Schema: feedbackSchema()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	format, _ := captured["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if strict, _ := schema["strict"].(bool); strict {
		t.Fatal("openrouter requests must not use strict schemas")
	}
}
