// Package textgen turns a prompt into text using a hosted large language model.
package textgen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/retry"
)

var (
	// ErrConfiguration means the backend cannot be used at all, typically because the API key is missing.
	ErrConfiguration = errors.NewSentinel("text generation is not configured")
	// ErrTransientBackend means the backend kept failing with retryable errors until the retry budget ran out.
	ErrTransientBackend = errors.NewSentinel("text generation backend unavailable")
	// ErrEmptyResponse means the backend answered without any text.
	ErrEmptyResponse = errors.NewSentinel("text generation returned no text")
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Backend is a single remote completion call.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures the backend. The API key is only checked at first use.
type Config struct {
	Provider     string `env:"TEXTGEN_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo-1106"`
}

// Client generates text with bounded exponential backoff on transient failures.
type Client struct {
	logger *slog.Logger
	policy retry.Policy
	dial   func(ctx context.Context) (Backend, error)

	mu      sync.Mutex
	backend Backend
}

// New creates a Client that connects to the configured provider lazily.
func New(logger *slog.Logger, cfg Config) *Client {
	return newClient(logger, func(ctx context.Context) (Backend, error) {
		return dial(ctx, cfg)
	})
}

// NewWithBackend creates a Client around an already constructed backend.
func NewWithBackend(logger *slog.Logger, backend Backend) *Client {
	return newClient(logger, func(_ context.Context) (Backend, error) {
		return backend, nil
	})
}

func newClient(logger *slog.Logger, dialFn func(ctx context.Context) (Backend, error)) *Client {
	policy := retry.Backoff(IsRetryable)
	policy.Logger = logger
	return &Client{
		logger:  logger,
		policy:  policy,
		dial:    dialFn,
		mu:      sync.Mutex{},
		backend: nil,
	}
}

// WithPolicy replaces the retry policy. Tests use it to avoid real sleeping.
func (c *Client) WithPolicy(p retry.Policy) *Client {
	if p.Retryable == nil {
		p.Retryable = IsRetryable
	}
	c.policy = p
	return c
}

func dial(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.Wrap(ErrConfiguration, "GEMINI_API_KEY is not set")
		}
		return dialGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.Wrap(ErrConfiguration, "OPENAI_API_KEY is not set")
		}
		return newOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, errors.Wrap(ErrConfiguration, "unknown provider", slog.String("provider", cfg.Provider))
	}
}

func (c *Client) connect(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend, nil
	}
	backend, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	c.backend = backend
	return backend, nil
}

// Generate sends prompt to the backend and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return "", errors.Wrap(err, "connect text generation backend")
	}

	text, err := retry.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
		return backend.Complete(ctx, prompt)
	})
	if err != nil {
		attrs := []slog.Attr{slog.Int("status", StatusCode(err)), slog.Int("prompt_length", len(prompt))}
		if IsRetryable(err) {
			return "", errors.Wrap(fmt.Errorf("%w: %w", ErrTransientBackend, err), "generate text", attrs...)
		}
		return "", errors.Wrap(err, "generate text", attrs...)
	}
	if text == "" {
		return "", errors.Wrap(ErrEmptyResponse, "generate text")
	}
	return text, nil
}

// Close releases the backend connection if one was opened.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	closer, ok := c.backend.(interface{ Close() error })
	if !ok {
		return nil
	}
	c.backend = nil
	if err := closer.Close(); err != nil {
		return errors.Wrap(err, "close text generation backend")
	}
	return nil
}
