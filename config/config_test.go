package config

import (
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.MaxNewsArticles != 5 {
		t.Fatalf("expected 5 news articles, got %d", cfg.MaxNewsArticles)
	}
	if len(cfg.TrustedSources) != len(DefaultTrustedSources) {
		t.Fatalf("expected %d trusted sources, got %d", len(DefaultTrustedSources), len(cfg.TrustedSources))
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("LLM_MODEL", "meta-llama/Llama-3.3-70B-Instruct")
	t.Setenv("TRUSTED_NEWS_SOURCES", "Reuters, CNBC ,,")
	t.Setenv("AGENT_TIMEOUT", "5s")
	t.Setenv("PARALLEL_AGENTS", "false")
	t.Setenv("HISTORY_DAYS", "not-a-number")

	cfg := Defaults()
	cfg.loadFromEnv()

	if cfg.LLMAPIKey != "sk-env" {
		t.Fatalf("expected api key from env, got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMModel != "meta-llama/Llama-3.3-70B-Instruct" {
		t.Fatalf("unexpected model %q", cfg.LLMModel)
	}
	if len(cfg.TrustedSources) != 2 || cfg.TrustedSources[1] != "CNBC" {
		t.Fatalf("unexpected trusted sources %v", cfg.TrustedSources)
	}
	if cfg.AgentTimeout != 5*time.Second {
		t.Fatalf("expected 5s agent timeout, got %s", cfg.AgentTimeout)
	}
	if cfg.ParallelAgents {
		t.Fatal("expected parallel agents disabled")
	}
	if cfg.HistoryDays != 400 {
		t.Fatalf("invalid HISTORY_DAYS should keep default, got %d", cfg.HistoryDays)
	}
}

func TestLLMAPIKeyOverridesOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("LLM_API_KEY", "sk-generic")

	cfg := Defaults()
	cfg.loadFromEnv()
	if cfg.APIKey() != "sk-generic" {
		t.Fatalf("expected LLM_API_KEY to win, got %q", cfg.APIKey())
	}
}

func TestWithAPIKeyCopies(t *testing.T) {
	base := Defaults()
	base.LLMAPIKey = "sk-base"

	over := base.WithAPIKey("  sk-ui  ")
	if over.APIKey() != "sk-ui" {
		t.Fatalf("expected override key, got %q", over.APIKey())
	}
	if base.APIKey() != "sk-base" {
		t.Fatalf("base config mutated: %q", base.APIKey())
	}

	over.TrustedSources[0] = "Tabloid"
	if base.TrustedSources[0] == "Tabloid" {
		t.Fatal("trusted sources slice shared with base config")
	}

	same := base.WithAPIKey("")
	if same.APIKey() != "sk-base" {
		t.Fatalf("empty override should keep base key, got %q", same.APIKey())
	}
}

func TestDeepSeekKeySelection(t *testing.T) {
	cfg := Defaults()
	cfg.LLMProvider = ProviderDeepSeek
	cfg.LLMAPIKey = "sk-openai"
	if cfg.APIKey() != "sk-openai" {
		t.Fatalf("expected fallback to generic key, got %q", cfg.APIKey())
	}
	cfg = cfg.WithAPIKey("sk-deep")
	if cfg.DeepSeekAPIKey != "sk-deep" || cfg.APIKey() != "sk-deep" {
		t.Fatalf("expected deepseek override, got %q", cfg.APIKey())
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"provider", func(c *Config) { c.LLMProvider = "bard" }},
		{"market", func(c *Config) { c.MarketProvider = "bloomberg" }},
		{"history", func(c *Config) { c.HistoryDays = 0 }},
		{"news", func(c *Config) { c.MaxNewsArticles = -1 }},
		{"timeout", func(c *Config) { c.AgentTimeout = 0 }},
		{"retries", func(c *Config) { c.RetryAttempts = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
