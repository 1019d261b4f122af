package core

import "context"

// ModelKind names one of the three model roles a session can hold. The string
// value doubles as the model file name under a model directory.
type ModelKind string

const (
	// KindTagger is the part-of-speech tagger.
	KindTagger ModelKind = "tagger"
	// KindConParser is the constituency parser.
	KindConParser ModelKind = "conparser"
	// KindDepParser is the dependency parser.
	KindDepParser ModelKind = "depparser"
)

// Kinds lists every model kind in load order.
var Kinds = []ModelKind{KindTagger, KindConParser, KindDepParser}

// FileName returns the model file name expected under a model directory.
func (k ModelKind) FileName() string { return string(k) }

// RequiresTagger reports whether the kind depends on a loaded tagger.
func (k ModelKind) RequiresTagger() bool { return k != KindTagger }

// Tagger assigns one part-of-speech tag per token. Implementations must be
// safe to call repeatedly and must not mutate themselves while tagging.
type Tagger interface {
	Tag(ctx context.Context, sent Sentence) (TaggedSentence, error)
}

// ConParser builds a phrase-structure tree over a tagged sentence. The
// returned tree may be binarized; callers unbinarize it for display.
type ConParser interface {
	Parse(ctx context.Context, sent TaggedSentence) (*Tree, error)
}

// DepParser builds labeled head arcs over a tagged sentence, returning one
// node per token.
type DepParser interface {
	Parse(ctx context.Context, sent TaggedSentence) (DependencyParse, error)
}

// Lemmatizer maps a word and its tag to a base form.
type Lemmatizer interface {
	Lemma(word, tag string) string
}
