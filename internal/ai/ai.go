// Package ai wraps an OpenAI-compatible text-generation endpoint behind a
// prompt-in, text-out interface with two capability tiers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/config"
	"github.com/rcliao/studynotes/internal/logger"
)

// Tier selects the latency/quality tradeoff for a request.
type Tier string

const (
	// Fast is for short interactive turnaround (chat).
	Fast Tier = "fast"
	// Thorough is for one-shot analysis and quiz authoring.
	Thorough Tier = "thorough"
)

// Generator produces text for a fully formed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, tier Tier) (string, error)
}

// Failure reasons attached to apperr.ErrGeneration.
const (
	ReasonAuth          = "auth"
	ReasonRateLimited   = "rate_limited"
	ReasonTimeout       = "timeout"
	ReasonEmptyResponse = "empty_response"
	ReasonProvider      = "provider"
	ReasonTransport     = "transport"
	ReasonDisabled      = "disabled"
)

// GenerationError is returned for every failed call. It unwraps to
// apperr.ErrGeneration.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", apperr.ErrGeneration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", apperr.ErrGeneration, e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrGeneration}
	}
	return []error{apperr.ErrGeneration, e.Err}
}

// Default endpoints and models per provider.
const (
	GeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta/openai/"
	GeminiFastModel       = "gemini-2.5-flash"
	GeminiThoroughModel   = "gemini-2.5-pro"
	OpenAIFastModel       = "gpt-4o-mini"
	OpenAIThoroughModel   = "gpt-4o"
	defaultRequestTimeout = 60 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL       string
	APIKey        string
	FastModel     string
	ThoroughModel string
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// Client is a Generator backed by a chat-completions API.
type Client struct {
	api     *openai.Client
	models  map[Tier]string
	timeout time.Duration
	log     *logger.Logger
}

// New creates a client. The API key is required up front so a missing
// credential is reported at startup rather than on the first request.
func New(opts Options, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &GenerationError{Reason: ReasonAuth, Err: errors.New("missing api key")}
	}
	if opts.FastModel == "" || opts.ThoroughModel == "" {
		return nil, fmt.Errorf("ai: both fast and thorough models are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	return &Client{
		api: openai.NewClientWithConfig(cfg),
		models: map[Tier]string{
			Fast:     opts.FastModel,
			Thorough: opts.ThoroughModel,
		},
		timeout: opts.Timeout,
		log:     log.With("component", "ai"),
	}, nil
}

// Generate sends prompt as a single user message to the tier's model. It
// never retries.
func (c *Client) Generate(ctx context.Context, prompt string, tier Tier) (string, error) {
	model, ok := c.models[tier]
	if !ok {
		return "", fmt.Errorf("ai: unknown tier %q", tier)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		gerr := classify(ctx, err)
		c.log.Warn("generation failed", "tier", tier, "model", model, "reason", gerr.Reason, "error", err)
		return "", gerr
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.log.Warn("generation returned no text", "tier", tier, "model", model)
		return "", &GenerationError{Reason: ReasonEmptyResponse}
	}

	c.log.Debug("generation complete",
		"tier", tier,
		"model", model,
		"latency_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

func classify(ctx context.Context, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &GenerationError{Reason: ReasonTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &GenerationError{Reason: ReasonTransport, Err: err}
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return &GenerationError{Reason: ReasonTransport, Err: err}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &GenerationError{Reason: ReasonAuth, Err: err}
	case status == http.StatusTooManyRequests:
		return &GenerationError{Reason: ReasonRateLimited, Err: err}
	default:
		return &GenerationError{Reason: ReasonProvider, Err: err}
	}
}

// Disabled is the Generator used when no provider is configured. Every call
// fails with a generation error so AI-backed flows degrade instead of
// crashing.
type Disabled struct {
	Cause error
}

func (d Disabled) Generate(context.Context, string, Tier) (string, error) {
	return "", &GenerationError{Reason: ReasonDisabled, Err: d.Cause}
}

// NewFromConfig creates a Generator for the configured provider.
// provider: "gemini" (default) | "openai" | "none".
// A missing API key yields a Disabled generator and a non-nil error the
// caller may log.
func NewFromConfig(cfg config.AI, log *logger.Logger) (Generator, error) {
	opts := Options{
		BaseURL:       cfg.BaseURL,
		APIKey:        cfg.APIKey,
		FastModel:     cfg.FastModel,
		ThoroughModel: cfg.ThoroughModel,
		Timeout:       cfg.Timeout,
	}

	switch cfg.Provider {
	case "", "gemini":
		if opts.BaseURL == "" {
			opts.BaseURL = GeminiBaseURL
		}
		if opts.FastModel == "" {
			opts.FastModel = GeminiFastModel
		}
		if opts.ThoroughModel == "" {
			opts.ThoroughModel = GeminiThoroughModel
		}
	case "openai":
		if opts.FastModel == "" {
			opts.FastModel = OpenAIFastModel
		}
		if opts.ThoroughModel == "" {
			opts.ThoroughModel = OpenAIThoroughModel
		}
	case "none":
		return Disabled{Cause: errors.New("ai provider disabled")}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q (valid: gemini, openai, none)", cfg.Provider)
	}

	c, err := New(opts, log)
	if err != nil {
		return Disabled{Cause: err}, err
	}
	return c, nil
}
