// Package anthropic provides a model backend annotating sentences with the
// Anthropic Claude Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/internal/llm"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/model"
)

// Name is the descriptor backend name.
const Name = "anthropic"

// APIKeyEnv is read when a descriptor names no key variable.
const APIKeyEnv = "ANTHROPIC_API_KEY"

// Options configures the Anthropic completer (model id, temperature, max
// tokens, API key, endpoint). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	BaseURL     string
}

// Completer sends prompts through the Messages API.
type Completer struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0,
		MaxTokens:   1024,
	}
}

// NewCompleter creates a completer using the official client.
func NewCompleter(optFns ...func(o *Options)) *Completer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Completer{client: &client, opts: opts}
}

// NewCompleterFromClient creates a completer from an existing client.
func NewCompleterFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Completer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Completer{client: client, opts: opts}
}

// Complete implements llm.Completer.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic: empty completion")
	}
	return sb.String(), nil
}

// BackendOptions configures the backend.
type BackendOptions struct {
	Logger logging.Logger
}

// Backend implements model.Backend; every model kind is served by the same
// prompt-driven annotator.
type Backend struct {
	logger logging.Logger
}

// NewBackend creates the anthropic backend.
func NewBackend(optFns ...func(o *BackendOptions)) *Backend {
	opts := BackendOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{logger: opts.Logger}
}

func (b *Backend) annotator(d model.Descriptor) *llm.Annotator {
	c := NewCompleter(func(o *Options) {
		if d.Model != "" {
			o.Model = anthropic.Model(d.Model)
		}
		if d.MaxTokens > 0 {
			o.MaxTokens = d.MaxTokens
		}
		if d.Temperature != nil {
			o.Temperature = *d.Temperature
		}
		o.APIKey = d.APIKey(APIKeyEnv)
		o.BaseURL = d.BaseURL
	})
	return llm.New(c, func(o *llm.Options) {
		o.Name = Name + "/" + string(c.opts.Model)
		o.RequestsPerSecond = d.RequestsPerSecond
		o.Logger = b.logger
	})
}

// NewTagger implements model.Backend.
func (b *Backend) NewTagger(d model.Descriptor) (core.Tagger, error) {
	return b.annotator(d), nil
}

// NewConParser implements model.Backend.
func (b *Backend) NewConParser(d model.Descriptor) (core.ConParser, error) {
	return llm.ConParser{A: b.annotator(d)}, nil
}

// NewDepParser implements model.Backend.
func (b *Backend) NewDepParser(d model.Descriptor) (core.DepParser, error) {
	return llm.DepParser{A: b.annotator(d)}, nil
}

var (
	_ llm.Completer = (*Completer)(nil)
	_ model.Backend = (*Backend)(nil)
)
