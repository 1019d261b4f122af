// Package openai provides a model backend annotating sentences with the
// OpenAI Chat Completions API.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/internal/llm"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/model"
)

// Name is the descriptor backend name.
const Name = "openai"

// APIKeyEnv is read when a descriptor names no key variable.
const APIKeyEnv = "OPENAI_API_KEY"

// Options configure the OpenAI completer.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
	BaseURL             string
}

// Completer sends prompts through Chat Completions.
type Completer struct {
	client *openai.Client
	opts   Options
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
	client := openai.NewClient(clientOpts...)
	return &Completer{client: &client, opts: opts}
}

// NewCompleterFromClient creates a completer from an existing client.
func NewCompleterFromClient(client *openai.Client, optFns ...func(o *Options)) *Completer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Completer{client: client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0,
		MaxCompletionTokens: 1024,
	}
}

// Complete implements llm.Completer.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// BackendOptions configures the backend.
type BackendOptions struct {
	Logger logging.Logger
}

// Backend implements model.Backend on top of Completer.
type Backend struct {
	logger logging.Logger
}

// NewBackend creates the openai backend.
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
			o.Model = d.Model
		}
		if d.MaxTokens > 0 {
			o.MaxCompletionTokens = d.MaxTokens
		}
		if d.Temperature != nil {
			o.Temperature = *d.Temperature
		}
		o.APIKey = d.APIKey(APIKeyEnv)
		o.BaseURL = d.BaseURL
	})
	return llm.New(c, func(o *llm.Options) {
		o.Name = Name + "/" + c.opts.Model
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
