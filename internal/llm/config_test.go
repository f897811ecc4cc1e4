package llm

import (
	"context"
	"testing"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STUDYDECK_LLM_PROVIDER", "STUDYDECK_LLM_MODEL", "STUDYDECK_LLM_API_KEY", "STUDYDECK_LLM_BASE_URL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_NothingSet(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ConfigFromEnv(); ok {
		t.Fatal("expected no provider")
	}
}

func TestConfigFromEnv_DiscoversKey(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != "openai" || cfg.APIKey != "o-key" || cfg.Model != "gpt-4o-mini" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigFromEnv_ExplicitProvider(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("STUDYDECK_LLM_PROVIDER", "openrouter")
	t.Setenv("OPENROUTER_API_KEY", "r-key")

	cfg, ok := ConfigFromEnv()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.APIKey != "r-key" || cfg.BaseURL != openRouterBaseURL {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_Config(t *testing.T) {
	if err := (Config{Provider: "gemini"}).Validate(); err == nil {
		t.Fatal("expected missing key error")
	}
	if err := (Config{Provider: "bard"}).Validate(); err == nil {
		t.Fatal("expected unknown provider error")
	}
	if err := (Config{Provider: "mock"}).Validate(); err != nil {
		t.Fatalf("mock: %v", err)
	}
}

func TestNew_Mock(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}
