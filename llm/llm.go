package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyPrompt is returned when Generate is called with a blank prompt.
var ErrEmptyPrompt = errors.New("prompt is empty")

const (
	DefaultMaxTokens   = 50
	DefaultTemperature = 1.0
	DefaultTopK        = 50
)

// Generator produces text completions from a language model.
type Generator struct {
	model       llms.Model
	maxTokens   int
	temperature float64
	topK        int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTokens bounds the length of generated text.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithTopK sets top-k sampling. Models that do not support it ignore it.
func WithTopK(k int) Option {
	return func(g *Generator) {
		if k > 0 {
			g.topK = k
		}
	}
}

// New wraps model in a Generator.
func New(model llms.Model, opts ...Option) *Generator {
	g := &Generator{
		model:       model,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		topK:        DefaultTopK,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOpenAI creates a Generator backed by an OpenAI compatible chat model.
// An empty baseURL uses the public endpoint.
func NewOpenAI(apiKey, model, baseURL string, opts ...Option) (*Generator, error) {
	clientOpts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		clientOpts = append(clientOpts, openai.WithModel(model))
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(baseURL))
	}

	m, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai model: %w", err)
	}
	return New(m, opts...), nil
}

// Generate returns the model's completion of prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithMaxTokens(g.maxTokens),
		llms.WithTemperature(g.temperature),
		llms.WithTopK(g.topK),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return out, nil
}

// Model returns the underlying model.
func (g *Generator) Model() llms.Model {
	return g.model
}
