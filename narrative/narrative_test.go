package narrative

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	text  string
	err   error
	delay time.Duration
	got   string
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.got = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func TestNarrate_ReturnsTrimmedText(t *testing.T) {
	g := &fakeGen{text: "  The server hums.\n"}
	text, err := Narrate(context.Background(), g, "prompt", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "The server hums.", text)
	assert.Equal(t, "prompt", g.got)
}

func TestNarrate_FallsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	text, err := Narrate(context.Background(), &fakeGen{err: boom}, "p", time.Second)
	assert.Equal(t, Fallback, text)
	assert.ErrorIs(t, err, boom)
}

func TestNarrate_FallsBackOnEmpty(t *testing.T) {
	text, err := Narrate(context.Background(), &fakeGen{text: "   "}, "p", time.Second)
	assert.Equal(t, Fallback, text)
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestNarrate_FallsBackOnTimeout(t *testing.T) {
	g := &fakeGen{text: "late", delay: time.Second}
	text, err := Narrate(context.Background(), g, "p", 10*time.Millisecond)
	assert.Equal(t, Fallback, text)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNarrate_NilGenerator(t *testing.T) {
	text, err := Narrate(context.Background(), nil, "p", 0)
	require.NoError(t, err)
	assert.Equal(t, Fallback, text)
}

func TestStatic_Rotates(t *testing.T) {
	s := &Static{Lines: []string{"a", "b"}}
	ctx := context.Background()
	for _, want := range []string{"a", "b", "a"} {
		got, err := s.Generate(ctx, "ignored")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStatic_ConcurrentRotation(t *testing.T) {
	s := &Static{Lines: []string{"a", "b"}}
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan string, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			line, err := s.Generate(ctx, "ignored")
			assert.NoError(t, err)
			results <- line
		}()
	}
	wg.Wait()
	close(results)

	counts := map[string]int{}
	for line := range results {
		counts[line]++
	}
	assert.Equal(t, map[string]int{"a": 20, "b": 20}, counts)
}

func TestStatic_EchoesPromptWithoutLines(t *testing.T) {
	got, err := (&Static{}).Generate(context.Background(), "echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got)
}

func TestEncounterPrompt(t *testing.T) {
	assert.Equal(t, "Nubus engages a Dust Bunny in The Dusty Server Closet.",
		EncounterPrompt("Dust Bunny", "The Dusty Server Closet"))
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{})
	assert.Error(t, err)

	g, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: "http://localhost:1"})
	require.NoError(t, err)
	assert.Equal(t, 120, g.maxTokens)
}

func TestNewOllama_NormalizesHost(t *testing.T) {
	g, err := NewOllama(OllamaConfig{Host: "http://localhost:11434/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", g.model)
}
