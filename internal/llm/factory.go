package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// New builds the configured provider wrapped as retry → logging → provider.
func New(ctx context.Context, cfg Config, log *zap.SugaredLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.ProviderConfig)
	case "openai", "openrouter":
		base, err = NewOpenAIProvider(cfg.ProviderConfig)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.ProviderConfig)
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}
	return WithRetry(WithLogging(base, log), cfg.Retry), nil
}
