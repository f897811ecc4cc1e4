package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures one provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string
	ProviderConfig

	Retry RetryConfig
}

// ProviderConfig holds the connection settings shared by every provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

var defaultModels = map[string]string{
	"anthropic":  "claude-haiku",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-flash",
	"openrouter": "google/gemini-2.0-flash-exp",
}

func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
	}
}

// keyVars lists the conventional API key variables in discovery order.
var keyVars = []struct{ provider, env string }{
	{"gemini", "GEMINI_API_KEY"},
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// ConfigFromEnv reads STUDYDECK_LLM_PROVIDER, _MODEL, _API_KEY and _BASE_URL.
// Without an explicit provider it falls back to the first conventional key
// variable that is set. ok is false when no provider could be chosen.
func ConfigFromEnv() (cfg Config, ok bool) {
	cfg = Config{
		Provider: os.Getenv("STUDYDECK_LLM_PROVIDER"),
		ProviderConfig: ProviderConfig{
			APIKey:  os.Getenv("STUDYDECK_LLM_API_KEY"),
			Model:   os.Getenv("STUDYDECK_LLM_MODEL"),
			BaseURL: os.Getenv("STUDYDECK_LLM_BASE_URL"),
		},
		Retry: DefaultRetry(),
	}

	if cfg.Provider == "" {
		for _, kv := range keyVars {
			if k := os.Getenv(kv.env); k != "" {
				cfg.Provider = kv.provider
				if cfg.APIKey == "" {
					cfg.APIKey = k
				}
				break
			}
		}
	} else if cfg.APIKey == "" {
		for _, kv := range keyVars {
			if kv.provider == cfg.Provider {
				cfg.APIKey = os.Getenv(kv.env)
			}
		}
	}
	if cfg.Provider == "" {
		return cfg, false
	}

	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if cfg.Provider == "openrouter" && cfg.BaseURL == "" {
		cfg.BaseURL = openRouterBaseURL
	}
	return cfg, true
}

func (c Config) Validate() error {
	switch c.Provider {
	case "mock":
		return nil
	case "anthropic", "openai", "gemini", "openrouter":
		if c.APIKey == "" {
			return fmt.Errorf("%s provider needs an API key (STUDYDECK_LLM_API_KEY)", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
