package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/model"
	"github.com/hupe1980/parsekit/model/builtin"
	"github.com/hupe1980/parsekit/pipeline"
	"github.com/hupe1980/parsekit/tokenizer"
)

// Options configures a Session.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Loader resolves model directories. Defaults to the built-in registry
	// (lexicon, anthropic and openai backends).
	Loader model.Loader

	// LengthPolicy decides what happens to sentences at or beyond the
	// length ceiling. The zero value skips them with a warning.
	LengthPolicy core.LengthPolicy

	// MaxSentenceSize overrides core.MaxSentenceSize when positive.
	MaxSentenceSize int

	// Tokenizer segments raw text when tokenization is requested. Defaults
	// to tokenizer.Default.
	Tokenizer tokenizer.Tokenizer

	// Lemmatizer fills the lemma column of dependency output on request.
	// Without one, lemma requests are ignored with a warning.
	Lemmatizer core.Lemmatizer
}

// DepParseOptions tunes a dependency parse call.
type DepParseOptions struct {
	// WithLemmas appends a lemma column to every row.
	WithLemmas bool
}

// WithLemmas requests the lemma column on dependency output.
func WithLemmas(o *DepParseOptions) { o.WithLemmas = true }

// Session owns a set of models and a single output slot. All methods are
// safe for concurrent use; calls are serialized, so the slot holds the result
// of whichever call finished last.
type Session struct {
	id         string
	mu         sync.Mutex
	store      *ModelStore
	pipe       *pipeline.Pipeline
	lemmatizer core.Lemmatizer
	logger     logging.Logger
	buf        []byte
	closed     bool
}

// New creates a session with no models loaded. It never fails.
func New(optFns ...func(o *Options)) *Session {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	id := uuid.NewString()
	logger := opts.Logger
	if pk, ok := logger.(*logging.ParseKitLogger); ok {
		logger = pk.WithComponent("session").WithSession(id)
	}
	if opts.Loader == nil {
		opts.Loader = builtin.NewRegistry(func(o *model.RegistryOptions) { o.Logger = logger })
	}

	pipe := pipeline.New(func(o *pipeline.Options) {
		o.Guard = core.Guard{Max: opts.MaxSentenceSize, Policy: opts.LengthPolicy}
		o.Tokenizer = opts.Tokenizer
		o.Logger = logger
	})

	return &Session{
		id:         id,
		store:      NewModelStore(opts.Loader),
		pipe:       pipe,
		lemmatizer: opts.Lemmatizer,
		logger:     logger,
	}
}

// ID returns the opaque session handle.
func (s *Session) ID() string { return s.id }

// Output returns the current content of the output slot. The slice is
// borrowed: it stays valid only until the next call on this session or
// Unload. Copy it to keep it.
func (s *Session) Output() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf
}

// Loaded lists the loaded model kinds in load order.
func (s *Session) Loaded() []core.ModelKind { return s.store.Loaded() }

// Guard returns the length guard applied to every sentence.
func (s *Session) Guard() core.Guard { return s.pipe.Guard() }

// LoadTagger loads {dir}/tagger.
func (s *Session) LoadTagger(dir string) error {
	return s.load(func() error { return s.store.LoadTagger(dir) })
}

// LoadParser loads {dir}/conparser, loading the tagger from dir first when
// none is present.
func (s *Session) LoadParser(dir string) error {
	return s.load(func() error { return s.store.LoadConParser(dir) })
}

// LoadDepParser loads {dir}/depparser, loading the tagger from dir first when
// none is present.
func (s *Session) LoadDepParser(dir string) error {
	return s.load(func() error { return s.store.LoadDepParser(dir) })
}

// LoadModels loads the tagger, the constituency parser and the dependency
// parser from dir, stopping at the first failure.
func (s *Session) LoadModels(dir string) error {
	for _, load := range []func(string) error{s.LoadTagger, s.LoadParser, s.LoadDepParser} {
		if err := load(dir); err != nil {
			return err
		}
	}
	return nil
}

// Load loads the given model kinds from dir in the order given.
func (s *Session) Load(dir string, kinds ...core.ModelKind) error {
	for _, k := range kinds {
		var err error
		switch k {
		case core.KindTagger:
			err = s.LoadTagger(dir)
		case core.KindConParser:
			err = s.LoadParser(dir)
		case core.KindDepParser:
			err = s.LoadDepParser(dir)
		default:
			err = fmt.Errorf("unknown model kind %q", k)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) load(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.ErrSessionClosed
	}
	return fn()
}

// TagSentence tags one sentence and returns "word/tag" pairs joined by single
// spaces. With tokenize false the text is split on whitespace only.
func (s *Session) TagSentence(ctx context.Context, text string, tokenize bool) (string, error) {
	return s.annotate(ctx, pipeline.Request{Op: pipeline.OpTag, Sentence: s.pipe.Tokens(text, tokenize)})
}

// ParseSentence returns the bracketed constituency tree of one sentence.
func (s *Session) ParseSentence(ctx context.Context, text string, tokenize bool) (string, error) {
	return s.annotate(ctx, pipeline.Request{Op: pipeline.OpParse, Sentence: s.pipe.Tokens(text, tokenize)})
}

// DepParseSentence returns one "word\ttag\thead\tlabel" row per token.
func (s *Session) DepParseSentence(ctx context.Context, text string, tokenize bool, optFns ...func(o *DepParseOptions)) (string, error) {
	return s.annotate(ctx, pipeline.Request{
		Op:       pipeline.OpDepParse,
		Sentence: s.pipe.Tokens(text, tokenize),
		Lemmas:   depParseOptions(optFns).WithLemmas,
	})
}

// ParseTaggedSentence parses "word<sep>tag" input without calling the
// tagger. An empty sep means "/".
func (s *Session) ParseTaggedSentence(ctx context.Context, tagged, sep string) (string, error) {
	if s.Closed() {
		return "", core.ErrSessionClosed
	}
	ts, err := pipeline.ParseTaggedInput(tagged, sep)
	if err != nil {
		return "", err
	}
	return s.annotate(ctx, pipeline.Request{Op: pipeline.OpParse, Tagged: ts})
}

// DepParseTaggedSentence dependency-parses "word<sep>tag" input without
// calling the tagger.
func (s *Session) DepParseTaggedSentence(ctx context.Context, tagged, sep string, optFns ...func(o *DepParseOptions)) (string, error) {
	if s.Closed() {
		return "", core.ErrSessionClosed
	}
	ts, err := pipeline.ParseTaggedInput(tagged, sep)
	if err != nil {
		return "", err
	}
	return s.annotate(ctx, pipeline.Request{
		Op:     pipeline.OpDepParse,
		Tagged: ts,
		Lemmas: depParseOptions(optFns).WithLemmas,
	})
}

func depParseOptions(optFns []func(o *DepParseOptions)) DepParseOptions {
	var opts DepParseOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// annotate runs one request and stores its result in the output slot.
func (s *Session) annotate(ctx context.Context, req pipeline.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", core.ErrSessionClosed
	}

	out, _, err := s.pipe.Run(ctx, s.models(), req, s.buf[:0])
	if err != nil {
		s.buf = s.buf[:0]
		return "", err
	}
	s.buf = out
	return string(s.buf), nil
}

func (s *Session) models() pipeline.Models {
	m := s.store.Models()
	m.Lemmatizer = s.lemmatizer
	return m
}

// Unload releases every model and the output slot. Later calls return
// core.ErrSessionClosed; a second Unload is a no-op.
func (s *Session) Unload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.buf = nil
	err := s.store.Release()
	if err != nil {
		s.logger.Error("Releasing models failed", "error", err.Error())
	} else {
		s.logger.Debug("Session unloaded")
	}
	return err
}

// Closed reports whether Unload has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
