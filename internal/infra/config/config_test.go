package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5, cfg.Hashtags.DefaultCount)
	require.Equal(t, 30, cfg.Hashtags.MaxCount)
	require.Equal(t, "llama3.2", cfg.LLM.Model)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"zero default count", func(c *Config) { c.Hashtags.DefaultCount = 0 }},
		{"default above max", func(c *Config) { c.Hashtags.DefaultCount = 40 }},
		{"empty prompt", func(c *Config) { c.Hashtags.Prompt = "" }},
		{"negative cache ttl", func(c *Config) { c.Hashtags.CacheTTL = -time.Second }},
		{"empty model", func(c *Config) { c.LLM.Model = "" }},
		{"zero token limit", func(c *Config) { c.LLM.PromptTokenLimit = 0 }},
		{"cache enabled without addr", func(c *Config) { c.Cache.Enabled = true; c.Cache.Addr = " " }},
		{"rate limit enabled without rpm", func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 }},
		{"retry enabled without backoff", func(c *Config) { c.HTTP.Retry.Enabled = true; c.HTTP.Retry.BaseBackoff = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("HASHTAGS_DEFAULT_COUNT", "7")
	t.Setenv("LLM_MODEL", "mistral:7b")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_ADDR", "localhost:6379")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 7, cfg.Hashtags.DefaultCount)
	require.Equal(t, "mistral:7b", cfg.LLM.Model)
	require.InDelta(t, 0.7, float64(cfg.LLM.Temperature), 0.001)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "localhost:6379", cfg.Cache.Addr)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestHydrateFromFile(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	yaml := `
http:
  address: ":3000"
hashtags:
  defaultCount: 3
llm:
  model: "phi3"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg := defaultConfig()
	require.NoError(t, hydrateFromFile(cfg, path))
	require.Equal(t, ":3000", cfg.HTTP.Address)
	require.Equal(t, 3, cfg.Hashtags.DefaultCount)
	require.Equal(t, "phi3", cfg.LLM.Model)
	// untouched sections keep their defaults
	require.Equal(t, 30, cfg.Hashtags.MaxCount)
}
