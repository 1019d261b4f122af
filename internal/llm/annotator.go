// Package llm annotates sentences by prompting a chat completion model. The
// provider specific part is reduced to the Completer interface; model/anthropic
// and model/openai implement it on top of the vendor SDKs.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/format"
	"github.com/hupe1980/parsekit/logging"
)

// ErrBadResponse is returned when a completion cannot be mapped onto the
// sentence it annotates.
var ErrBadResponse = errors.New("unexpected model response")

// Completer sends one system + user prompt pair and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

// Options configures an Annotator.
type Options struct {
	Name              string  // Provider/model identifier used in logs
	RequestsPerSecond float64 // <= 0 disables rate limiting
	Logger            logging.Logger
}

// Annotator turns completions into tags, dependency arcs and trees.
type Annotator struct {
	c       Completer
	limiter *rate.Limiter
	name    string
	logger  logging.Logger
}

// New creates an Annotator over c.
func New(c Completer, optFns ...func(o *Options)) *Annotator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Annotator{c: c, limiter: rate.NewLimiter(limit, 1), name: opts.Name, logger: opts.Logger}
}

func (a *Annotator) complete(ctx context.Context, system, prompt string) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", err
	}
	start := time.Now()
	reply, err := a.c.Complete(ctx, system, prompt)
	if err != nil {
		a.logger.Error("Completion failed", "model", a.name, "duration", time.Since(start), "error", err.Error())
		return "", err
	}
	a.logger.Debug("Completion received", "model", a.name, "duration", time.Since(start), "chars", len(reply))
	return reply, nil
}

// Tag implements core.Tagger.
func (a *Annotator) Tag(ctx context.Context, sent core.Sentence) (core.TaggedSentence, error) {
	if len(sent) == 0 {
		return core.TaggedSentence{}, nil
	}
	tokens, err := json.Marshal([]string(sent))
	if err != nil {
		return nil, err
	}
	prompt := mustRender(tagPrompt, map[string]any{"Count": len(sent), "Tokens": string(tokens)})
	reply, err := a.complete(ctx, tagSystem, prompt)
	if err != nil {
		return nil, err
	}
	var tags []string
	if err := decodeArray(reply, &tags); err != nil {
		return nil, err
	}
	if len(tags) != len(sent) {
		return nil, fmt.Errorf("%w: %d tags for %d tokens", ErrBadResponse, len(tags), len(sent))
	}
	out := make(core.TaggedSentence, len(sent))
	for i, w := range sent {
		out[i] = core.TaggedWord{Word: w, Tag: strings.TrimSpace(tags[i])}
	}
	return out, nil
}

type arc struct {
	Head  int    `json:"head"`
	Label string `json:"label"`
}

// Dependencies requests one head and label per token.
func (a *Annotator) Dependencies(ctx context.Context, sent core.TaggedSentence) (core.DependencyParse, error) {
	if len(sent) == 0 {
		return core.DependencyParse{}, nil
	}
	prompt := mustRender(depPrompt, map[string]any{"Count": len(sent), "Tagged": format.Tagged(sent)})
	system := mustRender(depSystem, map[string]any{"Labels": DependencyLabels})
	reply, err := a.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	var arcs []arc
	if err := decodeArray(reply, &arcs); err != nil {
		return nil, err
	}
	if len(arcs) != len(sent) {
		return nil, fmt.Errorf("%w: %d arcs for %d tokens", ErrBadResponse, len(arcs), len(sent))
	}
	out := make(core.DependencyParse, len(sent))
	for i, tw := range sent {
		h := arcs[i].Head
		if h < -1 || h >= len(sent) || h == i {
			return nil, fmt.Errorf("%w: invalid head %d for token %d", ErrBadResponse, h, i)
		}
		out[i] = core.DependencyNode{Word: tw.Word, Tag: tw.Tag, Head: h, Label: arcs[i].Label}
	}
	if i := cyclic(out); i >= 0 {
		return nil, fmt.Errorf("%w: head cycle through token %d", ErrBadResponse, i)
	}
	return out, nil
}

// cyclic returns a token on a head cycle or -1.
func cyclic(p core.DependencyParse) int {
	for i := range p {
		steps := 0
		for h := p[i].Head; h != -1; h = p[h].Head {
			if steps++; steps > len(p) {
				return i
			}
		}
	}
	return -1
}

// Constituents requests a bracketed tree and checks its yield against the
// input words.
func (a *Annotator) Constituents(ctx context.Context, sent core.TaggedSentence) (*core.Tree, error) {
	if len(sent) == 0 {
		return nil, nil
	}
	prompt := mustRender(conPrompt, map[string]any{"Count": len(sent), "Tagged": format.Tagged(sent)})
	reply, err := a.complete(ctx, conSystem, prompt)
	if err != nil {
		return nil, err
	}
	start, end := strings.Index(reply, "("), strings.LastIndex(reply, ")")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no bracketed tree", ErrBadResponse)
	}
	tree, err := format.ParseTree(reply[start : end+1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	words := tree.Words()
	if len(words) != len(sent) {
		return nil, fmt.Errorf("%w: tree covers %d of %d words", ErrBadResponse, len(words), len(sent))
	}
	for i, w := range words {
		if w != sent[i].Word {
			return nil, fmt.Errorf("%w: word %d is %q, want %q", ErrBadResponse, i, w, sent[i].Word)
		}
	}
	return tree, nil
}

func decodeArray(reply string, v any) error {
	start, end := strings.Index(reply, "["), strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON array in reply", ErrBadResponse)
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// ConParser adapts an Annotator to core.ConParser.
type ConParser struct{ A *Annotator }

// Parse implements core.ConParser.
func (p ConParser) Parse(ctx context.Context, sent core.TaggedSentence) (*core.Tree, error) {
	return p.A.Constituents(ctx, sent)
}

// DepParser adapts an Annotator to core.DepParser.
type DepParser struct{ A *Annotator }

// Parse implements core.DepParser.
func (p DepParser) Parse(ctx context.Context, sent core.TaggedSentence) (core.DependencyParse, error) {
	return p.A.Dependencies(ctx, sent)
}

var (
	_ core.Tagger    = (*Annotator)(nil)
	_ core.ConParser = ConParser{}
	_ core.DepParser = DepParser{}
)
