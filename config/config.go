package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"

	MarketYahoo    = "yahoo"
	MarketLongport = "longport"
)

// DefaultTrustedSources is the allow-list of news outlets whose headlines
// reach the prompts.
var DefaultTrustedSources = []string{
	"Forbes", "Bloomberg", "Reuters", "CNBC",
	"Financial Times", "Business Insider", "Wall Street Journal",
	"The Economist", "MarketWatch",
}

type Config struct {
	// LLM endpoint
	LLMProvider  string `json:"llm_provider"`
	LLMAPIKey    string `json:"-"`
	LLMBaseURL   string `json:"llm_base_url"`
	LLMModel     string `json:"llm_model"`
	LLMMaxTokens int    `json:"llm_max_tokens"`

	DeepSeekAPIKey string `json:"-"`

	// Market data
	MarketProvider string `json:"market_provider"`
	HistoryDays    int    `json:"history_days"`

	LongportAppKey      string `json:"-"`
	LongportAppSecret   string `json:"-"`
	LongportAccessToken string `json:"-"`

	FinnhubAPIKey  string `json:"-"`
	FinnhubBaseURL string `json:"finnhub_base_url"`

	// News
	GoogleNewsURL   string   `json:"google_news_url"`
	MaxNewsArticles int      `json:"max_news_articles"`
	TrustedSources  []string `json:"trusted_sources"`

	// Timeouts and fan-out
	RequestTimeout time.Duration `json:"request_timeout"`
	AgentTimeout   time.Duration `json:"agent_timeout"`
	RetryAttempts  int           `json:"retry_attempts"`
	ParallelAgents bool          `json:"parallel_agents"`

	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"`
	Debug      bool   `json:"debug"`

	// Eino visual debugger
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
}

// DefaultConfig returns the built-in defaults overridden by .env and the
// process environment.
func DefaultConfig() *Config {
	cfg := Defaults()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// Defaults returns the built-in defaults without reading the environment.
func Defaults() *Config {
	return &Config{
		LLMProvider:  ProviderOpenAI,
		LLMBaseURL:   "https://api.openai.com/v1",
		LLMModel:     "gpt-4o-mini",
		LLMMaxTokens: 1024,

		MarketProvider: MarketYahoo,
		HistoryDays:    400,

		FinnhubBaseURL: "https://finnhub.io/api/v1",

		GoogleNewsURL:   "https://news.google.com/rss/search",
		MaxNewsArticles: 5,
		TrustedSources:  append([]string(nil), DefaultTrustedSources...),

		RequestTimeout: 20 * time.Second,
		AgentTimeout:   90 * time.Second,
		RetryAttempts:  1,
		ParallelAgents: true,

		ListenAddr: ":8501",
		LogLevel:   "info",

		EinoDebugEnabled: false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.LLMBaseURL = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.LLMMaxTokens = v
		}
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("MARKET_PROVIDER"); val != "" {
		c.MarketProvider = strings.ToLower(val)
	}
	if val := os.Getenv("HISTORY_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.HistoryDays = v
		}
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
	if val := os.Getenv("FINNHUB_BASE_URL"); val != "" {
		c.FinnhubBaseURL = val
	}

	if val := os.Getenv("GOOGLE_NEWS_URL"); val != "" {
		c.GoogleNewsURL = val
	}
	if val := os.Getenv("MAX_NEWS_ARTICLES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxNewsArticles = v
		}
	}
	if val := os.Getenv("TRUSTED_NEWS_SOURCES"); val != "" {
		c.TrustedSources = splitList(val)
	}

	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("AGENT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.AgentTimeout = d
		}
	}
	if val := os.Getenv("RETRY_ATTEMPTS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RetryAttempts = v
		}
	}
	if val := os.Getenv("PARALLEL_AGENTS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ParallelAgents = enabled
		}
	}

	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
	}
	if val := os.Getenv("SAGEDESK_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLMProvider)
	}
	switch c.MarketProvider {
	case MarketYahoo, MarketLongport:
	default:
		return fmt.Errorf("unsupported market provider %q", c.MarketProvider)
	}
	if c.HistoryDays <= 0 {
		return fmt.Errorf("history days must be positive, got %d", c.HistoryDays)
	}
	if c.MaxNewsArticles <= 0 {
		return fmt.Errorf("max news articles must be positive, got %d", c.MaxNewsArticles)
	}
	if c.RequestTimeout <= 0 || c.AgentTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative, got %d", c.RetryAttempts)
	}
	return nil
}

// APIKey returns the key for the configured LLM provider.
func (c *Config) APIKey() string {
	if c.LLMProvider == ProviderDeepSeek {
		if c.DeepSeekAPIKey != "" {
			return c.DeepSeekAPIKey
		}
	}
	return c.LLMAPIKey
}

// WithAPIKey returns a copy of c using key for the LLM provider. An empty
// key leaves the copy unchanged.
func (c *Config) WithAPIKey(key string) *Config {
	cp := *c
	cp.TrustedSources = append([]string(nil), c.TrustedSources...)
	key = strings.TrimSpace(key)
	if key == "" {
		return &cp
	}
	if cp.LLMProvider == ProviderDeepSeek {
		cp.DeepSeekAPIKey = key
	} else {
		cp.LLMAPIKey = key
	}
	return &cp
}

// HasLongport reports whether all Longport credentials are present.
func (c *Config) HasLongport() bool {
	return c.LongportAppKey != "" && c.LongportAppSecret != "" && c.LongportAccessToken != ""
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
