package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/storyling/internal/store"
)

// NewProvider builds the configured provider wrapped by Wrap. The mock
// provider starts with an empty queue.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg, repo, log), nil
}

// Wrap applies the middleware chain caller → retry → tracing → logging →
// base, so every attempt is traced and logged on its own.
func Wrap(base Provider, cfg Config, repo store.EventRepo, log *zap.Logger) Provider {
	p := WithLogging(base, cfg.Provider, repo, log)
	p = WithTracing(p, cfg.Provider, nil)
	return WithRetry(p, cfg.Retry)
}
