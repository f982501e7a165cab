package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Empty(t, cfg.ContentDir)
	assert.Equal(t, "senior-engineer", cfg.Class)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, NarratorStatic, cfg.NarratorProvider)
	assert.Equal(t, 8*time.Second, cfg.NarratorTimeout)
	assert.Equal(t, "llama3.2", cfg.OllamaModel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("ASCENSION_SEED", "42")
	t.Setenv("ASCENSION_CLASS", "data-scientist")
	t.Setenv("ASCENSION_NARRATOR", "ollama")
	t.Setenv("ASCENSION_NARRATOR_TIMEOUT", "2s")
	t.Setenv("ASCENSION_METRICS_ADDR", ":9090")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "data-scientist", cfg.Class)
	assert.Equal(t, NarratorOllama, cfg.NarratorProvider)
	assert.Equal(t, 2*time.Second, cfg.NarratorTimeout)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestParse_BadSeed(t *testing.T) {
	t.Setenv("ASCENSION_SEED", "soon")
	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	base, err := Parse()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown narrator", func(c *Config) { c.NarratorProvider = "gpt" }, "unknown narrator"},
		{"openai without key", func(c *Config) { c.NarratorProvider = NarratorOpenAI }, "OPENAI_API_KEY"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
		{"zero timeout", func(c *Config) { c.NarratorTimeout = 0 }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := base
	cfg.NarratorProvider, cfg.OpenAIKey = NarratorOpenAI, "sk-test"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ASCENSION_CLASS=security-guardian\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ASCENSION_CLASS") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "security-guardian", cfg.Class)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLogger_WritesToFile(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	cfg.LogFormat = "json"

	path := filepath.Join(t.TempDir(), "diag.log")
	logger, err := cfg.Logger(path)
	require.NoError(t, err)
	logger.Info("run started")
	logger.Debug("hidden at info")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run started"`)
	assert.NotContains(t, string(data), "hidden at info")
}

func TestLogger_BadLevel(t *testing.T) {
	cfg := Config{LogLevel: "chatty", LogFormat: "console"}
	_, err := cfg.Logger("")
	assert.Error(t, err)
}
