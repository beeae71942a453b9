package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// JSONSchema constrains a reply to a JSON object of the given shape.
type JSONSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	Schema      *JSONSchema
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithJSONSchema(schema JSONSchema) Option {
	return func(o *Options) {
		o.Schema = &schema
	}
}

// Apply resolves options over the provider defaults.
func Apply(opts ...Option) *Options {
	options := &Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

var (
	// ErrNotConfigured is returned by every call on a provider that could not be built.
	ErrNotConfigured = errors.New("llm: provider not configured")
	// ErrSchemaMismatch means the reply was not a JSON object of the requested shape.
	ErrSchemaMismatch = errors.New("llm: reply does not match schema")
)

type unavailable struct {
	cause error
}

// Unavailable stands in when configuration is missing, so the failure surfaces per request.
func Unavailable(cause error) LLMProvider {
	return &unavailable{cause: cause}
}

func (u *unavailable) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", fmt.Errorf("%w: %v", ErrNotConfigured, u.cause)
}

func (u *unavailable) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return u.Chat(ctx, nil, options...)
}

// GenerateStructured asks for a schema-constrained reply and decodes it into T.
// Provider errors are returned as is. A reply that fails to decode yields ErrSchemaMismatch
// together with the raw text, leaving the fallback to the caller.
func GenerateStructured[T any](ctx context.Context, p LLMProvider, history []Message, schema JSONSchema, opts ...Option) (T, string, error) {
	var out T

	raw, err := p.Chat(ctx, history, append(opts, WithJSONSchema(schema))...)
	if err != nil {
		return out, "", err
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		var zero T
		return zero, raw, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return out, raw, nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
