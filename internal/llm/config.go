package llm

import (
	"fmt"
	"time"
)

const (
	ProviderFallback   = "fallback"
	ProviderMock       = "mock"
	ProviderOpenAI     = "openai"
	ProviderDeepSeek   = "deepseek"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Config struct {
	// Provider names the backend. "fallback" disables the model path entirely.
	Provider string

	OpenAI     ProviderConfig
	DeepSeek   ProviderConfig
	OpenRouter ProviderConfig
	Anthropic  ProviderConfig
	Gemini     ProviderConfig

	Retry         RetryConfig
	RatePerSecond float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   ProviderFallback,
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		DeepSeek:   ProviderConfig{Model: "deepseek-chat"},
		OpenRouter: ProviderConfig{Model: "openai/gpt-4o-mini"},
		Anthropic:  ProviderConfig{Model: "claude-3-5-haiku-latest"},
		Gemini:     ProviderConfig{Model: "gemini-2.0-flash"},
		Retry: RetryConfig{
			Attempts:  2,
			BaseDelay: 500 * time.Millisecond,
			MaxDelay:  4 * time.Second,
		},
		RatePerSecond: 5,
	}
}

// Enabled reports whether a model backend is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderFallback
}

// Validate rejects an unknown provider or a selected provider without credentials.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "", ProviderFallback, ProviderMock:
		return nil
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "OPENAI_API_KEY"
	case ProviderDeepSeek:
		key, env = c.DeepSeek.APIKey, "DEEPSEEK_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "OPENROUTER_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "ANTHROPIC_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "GEMINI_API_KEY"
	default:
		return fmt.Errorf("unknown analysis provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
