// Ascension is a deck-building roguelite about modernizing legacy
// infrastructure, played in the terminal.
// Usage: ascension [--version] [--plain] [--script <file>] [--trace]
//
//	[--seed <n>] [--class <id>] [--content <dir>] [--narrator <name>] [--metrics <addr>]
//
// Flags override the ASCENSION_* environment (see .env.example).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/nathoo/ascension/cli"
	"github.com/nathoo/ascension/config"
	"github.com/nathoo/ascension/content"
	"github.com/nathoo/ascension/engine"
	"github.com/nathoo/ascension/engine/state"
	"github.com/nathoo/ascension/loader"
	"github.com/nathoo/ascension/narrative"
	"github.com/nathoo/ascension/telemetry"
	"github.com/nathoo/ascension/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: ascension [--version] [--plain] [--script <file>] [--trace] " +
	"[--seed <n>] [--class <id>] [--content <dir>] [--narrator <name>] [--metrics <addr>]\n"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}

	plain := false
	trace := false
	seeded := cfg.Seed != 0
	var scriptFile string

	args := os.Args[1:]
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("ascension %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			scriptFile = value(&i, "--script")
		case "--seed":
			s := value(&i, "--seed")
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			cfg.Seed, seeded = n, true
		case "--class":
			cfg.Class = value(&i, "--class")
		case "--content":
			cfg.ContentDir = value(&i, "--content")
		case "--narrator":
			cfg.NarratorProvider = value(&i, "--narrator")
		case "--metrics":
			cfg.MetricsAddr = value(&i, "--metrics")
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Script mode forces plain output.
	useTUI := scriptFile == "" && !plain && isTerminal()

	logPath := cfg.LogFile
	if logPath == "" && useTUI {
		logPath = filepath.Join(os.TempDir(), "ascension.log")
	}
	logger, err := cfg.Logger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	defs, err := loadContent(cfg.ContentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := telemetry.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	opts := []engine.Option{
		engine.WithClass(cfg.Class),
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
	}
	if seeded {
		opts = append(opts, engine.WithSeed(cfg.Seed))
	}
	narrator, err := newNarrator(cfg)
	if err != nil {
		logger.Warn("narrator unavailable, continuing without flavor text", zap.Error(err))
	} else if narrator != nil {
		opts = append(opts, engine.WithNarrator(narrator, cfg.NarratorTimeout))
	}

	eng, err := engine.New(defs, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting run: %v\n", err)
		os.Exit(1)
	}

	if !useTUI {
		fmt.Printf("System: Ascension %s\n\n", version)
		c := cli.New(eng)
		c.Trace = trace
		if scriptFile != "" {
			f, err := os.Open(scriptFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			c.In = f
			c.EchoInput = true
		}
		c.Run(ctx)
		return
	}

	if err := tui.Run(ctx, eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadContent reads dir when set, else the embedded pack.
func loadContent(dir string) (*state.Defs, error) {
	if dir != "" {
		return loader.Load(dir)
	}
	return loader.LoadFS(content.FS)
}

// newNarrator returns the configured generator, or nil when narration is
// off.
func newNarrator(cfg config.Config) (narrative.Generator, error) {
	switch cfg.NarratorProvider {
	case config.NarratorOpenAI:
		return narrative.NewOpenAI(narrative.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	case config.NarratorOllama:
		return narrative.NewOllama(narrative.OllamaConfig{Host: cfg.OllamaHost, Model: cfg.OllamaModel})
	case config.NarratorOff:
		return nil, nil
	default:
		return narrative.NewStatic(), nil
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
