package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/mathlingo/mathlingo/internal/store"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware:
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if cfg.Timeout > 0 {
		p = &timeoutProvider{inner: p, timeout: cfg.Timeout}
	}
	if eventRepo != nil {
		p = WithLogging(p, eventRepo)
	}
	return WithRetry(p, cfg.MaxAttempts), nil
}

// timeoutProvider bounds each request with the configured timeout so a
// stalled upstream call cannot hold a handler open indefinitely.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

// NewProviderFromEnv builds a provider from MATHLINGO_* env vars, falling
// back to probing the standard provider API key env vars.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, err
		}
		cfg = discovered
	}
	return NewProvider(ctx, cfg, eventRepo)
}
