package testutil

import (
	"strings"

	"github.com/hupe1980/parsekit/core"
)

// TaggedBuilder provides a fluent helper for constructing tagged sentences.
// Example:
//
//	ts := NewTagged().Word("I", "PRP").Word("left", "VBD").Build()
type TaggedBuilder struct {
	words core.TaggedSentence
}

// NewTagged creates an empty builder.
func NewTagged() *TaggedBuilder { return &TaggedBuilder{} }

// Word appends a word with its tag (chainable).
func (b *TaggedBuilder) Word(word, tag string) *TaggedBuilder {
	b.words = append(b.words, core.TaggedWord{Word: word, Tag: tag})
	return b
}

// Pairs appends "word/tag" pairs separated by spaces (chainable). Tokens are
// split on their last "/".
func (b *TaggedBuilder) Pairs(s string) *TaggedBuilder {
	for _, f := range strings.Fields(s) {
		i := strings.LastIndex(f, "/")
		b.words = append(b.words, core.TaggedWord{Word: f[:i], Tag: f[i+1:]})
	}
	return b
}

// Build returns a copy of the tagged sentence.
func (b *TaggedBuilder) Build() core.TaggedSentence {
	out := make(core.TaggedSentence, len(b.words))
	copy(out, b.words)
	return out
}

// Tokens returns a sentence of n copies of word.
func Tokens(n int, word string) core.Sentence {
	s := make(core.Sentence, n)
	for i := range s {
		s[i] = word
	}
	return s
}

// Line returns n copies of word joined by single spaces.
func Line(n int, word string) string {
	return strings.Join(Tokens(n, word), " ")
}
