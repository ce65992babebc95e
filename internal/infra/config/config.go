package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Hashtags HashtagsConfig `yaml:"hashtags"`
	LLM      LLMConfig      `yaml:"llm"`
	Cache    CacheConfig    `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// HashtagsConfig defines the behavior of the hashtag generation domain.
type HashtagsConfig struct {
	DefaultCount int           `yaml:"defaultCount"`
	MaxCount     int           `yaml:"maxCount"`
	Prompt       string        `yaml:"prompt"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	HistoryLimit int           `yaml:"historyLimit"`
}

// LLMConfig contains settings for the local inference engine.
type LLMConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	Model            string        `yaml:"model"`
	Temperature      float32       `yaml:"temperature"`
	PromptTokenLimit int           `yaml:"promptTokenLimit"`
	RequestTimeout   time.Duration `yaml:"requestTimeout"`
}

// CacheConfig contains connection information for the shared result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("HASHTAGS_DEFAULT_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Hashtags.DefaultCount = parsed
		}
	}
	if v := os.Getenv("HASHTAGS_MAX_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Hashtags.MaxCount = parsed
		}
	}
	if v := os.Getenv("HASHTAGS_PROMPT"); v != "" {
		cfg.Hashtags.Prompt = v
	}
	if v := os.Getenv("HASHTAGS_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Hashtags.CacheTTL = parsed
		}
	}
	if v := os.Getenv("HASHTAGS_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Hashtags.HistoryLimit = parsed
		}
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_PROMPT_TOKEN_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.PromptTokenLimit = parsed
		}
	}
	if v := os.Getenv("LLM_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 5 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Hashtags: HashtagsConfig{
			DefaultCount: 5,
			MaxCount:     30,
			Prompt:       "You are a social media assistant. Generate exactly %d short, relevant hashtags for the text below. Respond strictly as JSON in the form {\"hashtags\": [\"#example1\", \"#example2\"]} with no extra commentary.",
			CacheTTL:     6 * time.Hour,
			HistoryLimit: 200,
		},
		LLM: LLMConfig{
			BaseURL:          "http://localhost:11434",
			Model:            "llama3.2",
			Temperature:      0.3,
			PromptTokenLimit: 2048,
			RequestTimeout:   5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Hashtags.DefaultCount <= 0 {
		return errors.New("hashtags.defaultCount must be positive")
	}
	if c.Hashtags.MaxCount <= 0 {
		return errors.New("hashtags.maxCount must be positive")
	}
	if c.Hashtags.DefaultCount > c.Hashtags.MaxCount {
		return errors.New("hashtags.defaultCount cannot exceed hashtags.maxCount")
	}
	if c.Hashtags.Prompt == "" {
		return errors.New("hashtags.prompt cannot be empty")
	}
	if c.Hashtags.CacheTTL < 0 {
		return errors.New("hashtags.cacheTtl cannot be negative")
	}
	if c.Hashtags.HistoryLimit < 0 {
		return errors.New("hashtags.historyLimit cannot be negative")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.baseUrl cannot be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.PromptTokenLimit <= 0 {
		return errors.New("llm.promptTokenLimit must be positive")
	}
	if c.LLM.RequestTimeout <= 0 {
		return errors.New("llm.requestTimeout must be positive")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the result cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
