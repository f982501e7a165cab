// Package narrative produces optional flavor text for encounters. It never
// touches rules state: callers store the text and log it themselves.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Fallback is the text shown when a generator fails, times out or returns
// nothing.
const Fallback = "System log corrupted. Proceed with caution."

// DefaultTimeout bounds one Narrate call when the caller sets none.
const DefaultTimeout = 8 * time.Second

// systemPrompt frames every request.
const systemPrompt = "You are the narrator of a roguelite deck-building game about " +
	"modernizing legacy infrastructure. Reply with one or two sentences of " +
	"dry, technical humor. No markdown."

// ErrEmptyReply is returned by generators that got a blank completion.
var ErrEmptyReply = errors.New("narrative: empty reply")

// Generator turns a prompt into flavor text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Narrate asks g for flavor text about the situation, bounded by timeout.
// It always returns usable text; the error reports why the fallback was
// used, if it was.
func Narrate(ctx context.Context, g Generator, situation string, timeout time.Duration) (string, error) {
	if g == nil {
		return Fallback, nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := g.Generate(ctx, situation)
	if err != nil {
		return Fallback, fmt.Errorf("narrate: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Fallback, ErrEmptyReply
	}
	return text, nil
}

// EncounterPrompt describes the start of a fight.
func EncounterPrompt(enemy, theme string) string {
	return fmt.Sprintf("Nubus engages a %s in %s.", enemy, theme)
}

// Static returns canned lines in rotation. It is the offline default and
// is safe for concurrent use.
type Static struct {
	Lines []string

	mu   sync.Mutex
	next int
}

// NewStatic returns a Static generator with the stock lines.
func NewStatic() *Static {
	return &Static{Lines: []string{
		"The fans spin up. Somewhere, a pager goes off.",
		"A deprecation warning scrolls past, unread.",
		"The logs are full of stack traces from 2009.",
		"Nobody remembers who wrote this. Nobody wants to.",
		"The dashboard is green. The dashboard is lying.",
	}}
}

// Generate returns the next canned line, or the prompt itself when there
// are none.
func (s *Static) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.Lines) == 0 {
		return prompt, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.Lines[s.next%len(s.Lines)]
	s.next++
	return line, nil
}
