// Package pipeline runs one sentence through the annotation steps:
// length guard, tagging, parsing and formatting. It is stateless; the session
// package owns the models and the output buffer and hands both in per call.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/format"
	"github.com/hupe1980/parsekit/lemma"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/tokenizer"
)

// Op names an annotation operation.
type Op string

const (
	// OpTag produces "word/tag" pairs.
	OpTag Op = "tag"
	// OpParse produces a bracketed constituency tree.
	OpParse Op = "parse"
	// OpDepParse produces dependency rows.
	OpDepParse Op = "depparse"
)

// Required returns the model kind the operation runs last.
func (op Op) Required() core.ModelKind {
	switch op {
	case OpParse:
		return core.KindConParser
	case OpDepParse:
		return core.KindDepParser
	default:
		return core.KindTagger
	}
}

// Models is the set of models a call may use. Nil fields are not loaded.
type Models struct {
	Tagger     core.Tagger
	ConParser  core.ConParser
	DepParser  core.DepParser
	Lemmatizer core.Lemmatizer
}

// Check reports core.ErrModelNotLoaded when a model op needs is missing.
// Tagged input skips the tagger requirement.
func (m Models) Check(op Op, tagged bool) error {
	if !tagged && m.Tagger == nil {
		return core.NotLoaded(core.KindTagger)
	}
	switch op {
	case OpParse:
		if m.ConParser == nil {
			return core.NotLoaded(core.KindConParser)
		}
	case OpDepParse:
		if m.DepParser == nil {
			return core.NotLoaded(core.KindDepParser)
		}
	}
	return nil
}

// Request describes one sentence to annotate.
type Request struct {
	Op       Op
	Sentence core.Sentence       // Tokens to tag
	Tagged   core.TaggedSentence // Pre-tagged input; bypasses the tagger when non-nil
	Lemmas   bool                // Append a lemma column to dependency rows
}

// Options configures a Pipeline.
type Options struct {
	Guard     core.Guard
	Tokenizer tokenizer.Tokenizer // Raw-text tokenizer; tokenizer.Default when nil
	Logger    logging.Logger
}

// Pipeline formats annotations of single sentences.
type Pipeline struct {
	guard  core.Guard
	tok    tokenizer.Tokenizer
	logger logging.Logger
}

// New creates a pipeline.
func New(optFns ...func(o *Options)) *Pipeline {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{guard: opts.Guard, tok: opts.Tokenizer, logger: opts.Logger}
}

// Guard returns the length guard in effect.
func (p *Pipeline) Guard() core.Guard { return p.guard }

// Tokenizer returns the tokenizer for the requested mode.
func (p *Pipeline) Tokenizer(tokenize bool) tokenizer.Tokenizer {
	return tokenizer.Select(p.tok, tokenize)
}

// Tokens segments text and drops a trailing newline sentinel token.
func (p *Pipeline) Tokens(text string, tokenize bool) core.Sentence {
	return StripSentinel(p.Tokenizer(tokenize).Tokenize(text))
}

// StripSentinel removes a trailing "\n" token.
func StripSentinel(s core.Sentence) core.Sentence {
	if n := len(s); n > 0 && s[n-1] == "\n" {
		return s[:n-1]
	}
	return s
}

// Run annotates req and appends the formatted result to dst. Empty input and
// sentences dropped by the length guard append nothing; skipped reports the
// latter.
func (p *Pipeline) Run(ctx context.Context, m Models, req Request, dst []byte) (out []byte, skipped bool, err error) {
	tagged := req.Tagged != nil
	n := len(req.Sentence)
	if tagged {
		n = len(req.Tagged)
	}
	if n == 0 {
		return dst, false, nil
	}
	if err := m.Check(req.Op, tagged); err != nil {
		return dst, false, err
	}

	start := time.Now()
	defer func() {
		logging.LogAnnotation(p.logger, string(req.Op), n, time.Since(start), err)
	}()

	words := req.Sentence
	if tagged {
		words = req.Tagged.Words()
	}
	kept, skip, gerr := p.guard.Apply(words)
	if gerr != nil {
		return dst, true, gerr
	}
	if skip {
		logging.LogSentenceSkipped(p.logger, string(req.Op), n, p.guard.Limit())
		return dst, true, nil
	}
	if len(kept) < n {
		n = len(kept)
		req.Sentence = kept
		if tagged {
			req.Tagged = req.Tagged[:n]
		}
	}

	ts := req.Tagged
	if !tagged {
		if ts, err = m.Tagger.Tag(ctx, req.Sentence); err != nil {
			return dst, false, err
		}
		if len(ts) != len(req.Sentence) {
			return dst, false, fmt.Errorf("%w: %d tags for %d tokens", core.ErrModelOutput, len(ts), len(req.Sentence))
		}
	}

	switch req.Op {
	case OpTag:
		return format.AppendTagged(dst, ts), false, nil
	case OpParse:
		tree, err := m.ConParser.Parse(ctx, ts)
		if err != nil {
			return dst, false, err
		}
		return format.AppendTree(dst, tree), false, nil
	case OpDepParse:
		parse, err := m.DepParser.Parse(ctx, ts)
		if err != nil {
			return dst, false, err
		}
		if len(parse) != len(ts) {
			return dst, false, fmt.Errorf("%w: %d nodes for %d tokens", core.ErrModelOutput, len(parse), len(ts))
		}
		lemmas := req.Lemmas
		if lemmas {
			if m.Lemmatizer == nil {
				p.logger.Warn("No lemmatizer configured, ignoring lemma request")
				lemmas = false
			} else {
				lemma.Annotate(m.Lemmatizer, parse)
			}
		}
		return format.AppendDependency(dst, parse, lemmas), false, nil
	default:
		return dst, false, fmt.Errorf("unknown operation %q", req.Op)
	}
}

// ParseTaggedInput reads "word<sep>tag" input for the tagged operations.
func ParseTaggedInput(text, sep string) (core.TaggedSentence, error) {
	ts, err := format.ParseTagged(strings.TrimRight(text, "\r\n"), sep)
	if err != nil {
		return nil, err
	}
	return ts, nil
}
