package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_ServesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
	)
	if err := mock.AddJSON(map[string]int{"b": 2}); err != nil {
		t.Fatal(err)
	}

	resp, err := mock.Generate(WithPurpose(context.Background(), "story"), Request{Messages: UserMessage("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 || resp.StopReason != "end" {
		t.Fatalf("unexpected first response: %+v", resp)
	}

	resp, err = mock.Generate(context.Background(), Request{Messages: UserMessage("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"b":2}` {
		t.Fatalf("unexpected second response: %s", resp.Content)
	}

	if mock.CallCount() != 2 || mock.Pending() != 0 {
		t.Fatalf("calls=%d pending=%d", mock.CallCount(), mock.Pending())
	}
	if mock.Purposes[0] != "story" || mock.Purposes[1] != "unknown" {
		t.Fatalf("unexpected purposes %v", mock.Purposes)
	}
	if mock.Calls[0].Messages[0].Content != "first" {
		t.Fatalf("request not recorded: %+v", mock.Calls[0])
	}
}

func TestMockProvider_DrainedQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"status":"WRONG","feedbackMessage":"x"}`)},
		MockResponse{Content: json.RawMessage(` `)},
		MockResponse{Err: &ErrRateLimit{}},
	)
	req := Request{Schema: feedbackSchema()}

	var invalid *ErrInvalidResponse
	if _, err := mock.Generate(context.Background(), req); !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if _, err := mock.Generate(context.Background(), req); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	var rl *ErrRateLimit
	if _, err := mock.Generate(context.Background(), req); !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if s := SessionFrom(ctx); s != "" {
		t.Fatalf("expected empty session, got %q", s)
	}

	ctx = WithSession(WithPurpose(ctx, "questions"), "sess-1")
	if p := PurposeFrom(ctx); p != "questions" {
		t.Fatalf("expected 'questions', got %q", p)
	}
	if s := SessionFrom(ctx); s != "sess-1" {
		t.Fatalf("expected 'sess-1', got %q", s)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(c Config) Config {
		c.Retry.MaxAttempts = 1
		return c
	}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "gemini without key", cfg: Config{Provider: ProviderGemini}, wantErr: true},
		{name: "gemini with key", cfg: withKey(Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}})},
		{name: "anthropic with key", cfg: withKey(Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}})},
		{name: "openai without key", cfg: Config{Provider: ProviderOpenAI}, wantErr: true},
		{name: "openrouter with key", cfg: withKey(Config{Provider: ProviderOpenRouter, OpenRouter: OpenRouterConfig{APIKey: "k"}})},
		{name: "zero retry attempts", cfg: Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, wantErr: true},
		{name: "mock needs nothing", cfg: Config{Provider: ProviderMock}},
		{name: "unknown provider", cfg: Config{Provider: "llama"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o-key" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
	if cfg.Model() != "gpt-4o-mini" {
		t.Fatalf("Model() = %q", cfg.Model())
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, _ = DiscoverConfig()
	if cfg.Provider != ProviderGemini || cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("expected gemini defaults, got %+v", cfg)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.5-flash")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-2.8) > 1e-9 {
		t.Fatalf("Cost = %v, want 2.8", got)
	}
	if LookupCost("google/gemini-2.5-flash") == nil {
		t.Fatal("expected OpenRouter ID to resolve")
	}
	if LookupCost("mock") != nil {
		t.Fatal("expected no pricing for mock")
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}

	cfg.Provider = ProviderGemini
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected validation error without an API key")
	}
}

func TestWrap_RetriesThroughMiddleware(t *testing.T) {
	repo := &fakeEventRepo{}
	mock := NewMockProvider(unavailable(), MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	cfg.Retry = fastRetry(2)

	p := Wrap(mock, cfg, repo, nil)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil || string(resp.Content) != `{"ok":true}` {
		t.Fatalf("Generate = %v, %v", resp, err)
	}
	if len(repo.events) != 2 || repo.events[0].Success || !repo.events[1].Success {
		t.Fatalf("expected one failed and one successful attempt logged, got %+v", repo.events)
	}
}
