package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrDisabled is returned by NewProvider when the configuration selects no model backend.
var ErrDisabled = errors.New("llm provider disabled")

// NewProvider builds the configured provider wrapped as retry -> rate limit -> logging -> backend.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderMock:
		base = NewMockProvider()
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderDeepSeek:
		base, err = NewDeepSeekProvider(cfg.DeepSeek)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, logger.With("provider", cfg.Provider))
	p = WithRateLimit(p, cfg.RatePerSecond)
	return WithRetry(p, cfg.Retry), nil
}
