// Package parsekit provides a session-scoped façade over an English
// annotation pipeline producing part-of-speech tags, constituency trees and
// dependency parses. Most applications:
//  1. Create a Session via Initialize (or Open, which also loads models)
//  2. Load models from a directory holding tagger, conparser and depparser files
//  3. Annotate single sentences or whole files and Unload when done
//
// Sessions are independent; every result of a single-sentence call replaces
// the previous one in the session's output slot. The default loader reads
// model descriptors backed by a built-in lexicon model, Anthropic or OpenAI.
package parsekit

import (
	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/model"
	"github.com/hupe1980/parsekit/session"
	"github.com/hupe1980/parsekit/tokenizer"
)

// Session is the unit of ownership for models and output.
type Session = session.Session

// Options configures a Session.
type Options = session.Options

// Initialize creates a session with no models loaded. It never fails.
func Initialize(optFns ...func(o *Options)) *Session {
	return session.New(optFns...)
}

// Open creates a session and loads kinds from dir. Without kinds it loads
// every model. The session is unloaded again when a load fails.
func Open(dir string, kinds []core.ModelKind, optFns ...func(o *Options)) (*Session, error) {
	s := session.New(optFns...)
	var err error
	if len(kinds) == 0 {
		err = s.LoadModels(dir)
	} else {
		err = s.Load(dir, kinds...)
	}
	if err != nil {
		_ = s.Unload()
		return nil, err
	}
	return s, nil
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithLoader sets the model loader.
func WithLoader(l model.Loader) func(o *Options) {
	return func(o *Options) { o.Loader = l }
}

// WithLengthPolicy sets how overlong sentences are handled.
func WithLengthPolicy(p core.LengthPolicy) func(o *Options) {
	return func(o *Options) { o.LengthPolicy = p }
}

// WithMaxSentenceSize overrides the sentence length ceiling.
func WithMaxSentenceSize(n int) func(o *Options) {
	return func(o *Options) { o.MaxSentenceSize = n }
}

// WithTokenizer replaces the raw-text tokenizer.
func WithTokenizer(t tokenizer.Tokenizer) func(o *Options) {
	return func(o *Options) { o.Tokenizer = t }
}

// WithLemmatizer enables the lemma column of dependency output.
func WithLemmatizer(l core.Lemmatizer) func(o *Options) {
	return func(o *Options) { o.Lemmatizer = l }
}
