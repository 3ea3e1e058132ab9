package inference

import (
	"context"
)

// Message represents a chat message in a backend-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Delta is a single chunk of streamed output. The channel is closed after the
// final delta; a non-nil Err means the stream died and no more content follows.
type Delta struct {
	Content string
	Err     error
}

// Option allows for optional parameters like Temperature, TopP, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	Model       string // Override default model
	System      string // System instruction prepended to the history
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTopP(topP float64) Option {
	return func(o *Options) {
		o.TopP = topP
	}
}

func WithTopK(topK int) Option {
	return func(o *Options) {
		o.TopK = topK
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// Apply resolves the option list against defaults.
func Apply(opts []Option) *Options {
	options := &Options{
		Temperature: 0.7,
		TopP:        0.9,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Client defines the contract for any inference backend. The generation core
// treats the local and the remote backend identically through this interface.
type Client interface {
	// Reachable reports whether the backend answers at all.
	Reachable(ctx context.Context) bool

	// ListModels returns the model names the backend can serve.
	ListModels(ctx context.Context) ([]string, error)

	// Chat sends a history to the model and waits for the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a history and returns a channel of output deltas.
	// The channel is closed when the stream ends; cancelling the context
	// closes the underlying connection.
	ChatStream(ctx context.Context, history []Message, options ...Option) (<-chan Delta, error)
}
