package narrative

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaConfig configures the local model generator.
type OllamaConfig struct {
	Host  string // e.g. http://localhost:11434
	Model string
}

// Ollama generates flavor text with a local model through the native
// generate endpoint.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama creates an Ollama generator.
func NewOllama(cfg OllamaConfig) (*Ollama, error) {
	host := strings.TrimSuffix(strings.TrimSuffix(cfg.Host, "/"), "/v1")
	if host == "" {
		host = "http://localhost:11434"
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	return &Ollama{
		client: api.NewClient(base, http.DefaultClient),
		model:  cfg.Model,
	}, nil
}

// Generate implements Generator.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		System: systemPrompt,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.9,
			"num_predict": 120,
		},
	}

	var out strings.Builder
	err := o.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out.String(), nil
}
