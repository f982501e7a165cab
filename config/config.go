// Package config reads process configuration from the environment. A .env
// file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "ASCENSION_"

// Narrator providers.
const (
	NarratorStatic = "static"
	NarratorOpenAI = "openai"
	NarratorOllama = "ollama"
	NarratorOff    = "off"
)

// Config holds everything cmd/ascension needs to start a run.
type Config struct {
	// ContentDir overrides the embedded content pack when set.
	ContentDir string `env:"CONTENT_DIR"`
	Seed       int64  `env:"SEED"`
	Class      string `env:"CLASS" envDefault:"senior-engineer"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"console"`
	// LogFile receives diagnostics. Empty means stderr in plain mode and
	// a file in the temp dir under the TUI.
	LogFile string `env:"LOG_FILE"`

	NarratorProvider string        `env:"NARRATOR" envDefault:"static"`
	NarratorTimeout  time.Duration `env:"NARRATOR_TIMEOUT" envDefault:"8s"`
	OpenAIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OllamaHost       string        `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel      string        `env:"OLLAMA_MODEL" envDefault:"llama3.2"`

	// MetricsAddr serves /metrics when non-empty, e.g. ":9090".
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Load reads .env (if any) and then the environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	providers := []string{NarratorStatic, NarratorOpenAI, NarratorOllama, NarratorOff}
	if !slices.Contains(providers, c.NarratorProvider) {
		return fmt.Errorf("config: unknown narrator %q (want one of %v)", c.NarratorProvider, providers)
	}
	if c.NarratorProvider == NarratorOpenAI && c.OpenAIKey == "" {
		return fmt.Errorf("config: %sOPENAI_API_KEY is required for the openai narrator", Prefix)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if c.NarratorTimeout <= 0 {
		return errors.New("config: narrator timeout must be positive")
	}
	return nil
}
