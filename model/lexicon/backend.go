// Package lexicon is the built-in, deterministic model backend. Its tagger
// combines a closed-class lexicon, suffix rules and a default tag; its parsers
// apply head rules and a chunk grammar over the tags. It needs no trained
// weights, so a model directory of empty files is enough to run parsekit.
package lexicon

import (
	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/model"
)

// Name is the descriptor backend name.
const Name = model.DefaultBackend

// Backend implements model.Backend.
type Backend struct{}

// NewBackend returns the lexicon backend.
func NewBackend() *Backend { return &Backend{} }

// NewTagger implements model.Backend. The descriptor's lexicon entries extend
// the built-in word list.
func (Backend) NewTagger(d model.Descriptor) (core.Tagger, error) {
	return NewTagger(d.Lexicon, d.DefaultTag), nil
}

// NewConParser implements model.Backend.
func (Backend) NewConParser(model.Descriptor) (core.ConParser, error) {
	return NewConParser(), nil
}

// NewDepParser implements model.Backend.
func (Backend) NewDepParser(model.Descriptor) (core.DepParser, error) {
	return NewDepParser(), nil
}

var _ model.Backend = Backend{}
