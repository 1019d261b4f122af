package lexicon

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/hupe1980/parsekit/core"
)

// DefaultTag is assigned to open-class words no rule recognizes.
const DefaultTag = "NN"

var number = regexp.MustCompile(`^[+-]?[0-9][0-9,.:/-]*$`)

// closedClass maps lowercase words to their tag.
var closedClass = map[string]string{
	"i": "PRP", "you": "PRP", "he": "PRP", "she": "PRP", "it": "PRP", "we": "PRP", "they": "PRP",
	"me": "PRP", "him": "PRP", "us": "PRP", "them": "PRP", "myself": "PRP", "itself": "PRP",
	"my": "PRP$", "your": "PRP$", "his": "PRP$", "her": "PRP$", "its": "PRP$", "our": "PRP$", "their": "PRP$",
	"the": "DT", "a": "DT", "an": "DT", "this": "DT", "that": "DT", "these": "DT", "those": "DT",
	"some": "DT", "any": "DT", "no": "DT", "every": "DT", "each": "DT", "all": "PDT", "both": "DT",
	"to": "TO",
	"in": "IN", "on": "IN", "at": "IN", "of": "IN", "for": "IN", "with": "IN", "by": "IN", "from": "IN",
	"into": "IN", "about": "IN", "over": "IN", "under": "IN", "after": "IN", "before": "IN", "through": "IN",
	"during": "IN", "without": "IN", "between": "IN", "against": "IN", "because": "IN", "if": "IN",
	"while": "IN", "since": "IN", "until": "IN", "than": "IN", "like": "IN", "near": "IN",
	"and": "CC", "or": "CC", "but": "CC", "nor": "CC",
	"am": "VBP", "'m": "VBP", "are": "VBP", "'re": "VBP", "is": "VBZ", "was": "VBD", "were": "VBD",
	"be": "VB", "been": "VBN", "being": "VBG",
	"have": "VBP", "'ve": "VBP", "has": "VBZ", "had": "VBD",
	"do": "VBP", "does": "VBZ", "did": "VBD",
	"will": "MD", "would": "MD", "can": "MD", "could": "MD", "shall": "MD", "should": "MD",
	"may": "MD", "might": "MD", "must": "MD", "'ll": "MD", "'d": "MD", "ca": "MD", "wo": "MD",
	"said": "VBD", "says": "VBZ", "say": "VBP", "went": "VBD", "go": "VB", "goes": "VBZ", "gone": "VBN",
	"made": "VBD", "make": "VB", "took": "VBD", "take": "VB", "saw": "VBD", "see": "VB", "came": "VBD",
	"come": "VB", "got": "VBD", "get": "VB", "gave": "VBD", "give": "VB", "knew": "VBD", "know": "VB",
	"thought": "VBD", "think": "VBP", "bought": "VBD", "buy": "VB", "told": "VBD", "found": "VBD", "left": "VBD", "ran": "VBD", "ate": "VBD",
	"not": "RB", "n't": "RB", "very": "RB", "also": "RB", "just": "RB", "never": "RB", "always": "RB",
	"often": "RB", "too": "RB", "here": "RB", "now": "RB", "then": "RB", "so": "RB", "still": "RB",
	"there": "EX",
	"who": "WP", "what": "WP", "which": "WDT", "whose": "WP$", "when": "WRB", "where": "WRB", "why": "WRB", "how": "WRB",
	"good": "JJ", "new": "JJ", "old": "JJ", "big": "JJ", "small": "JJ", "great": "JJ", "other": "JJ",
	"more": "JJR", "most": "JJS", "better": "JJR", "best": "JJS",
	"yes": "UH", "oh": "UH",
	".": ".", "?": ".", "!": ".", ",": ",", ":": ":", ";": ":", "--": ":", "...": ":",
	"``": "``", "''": "''", "'": "''", `"`: "''",
	"(": "-LRB-", ")": "-RRB-", "[": "-LRB-", "]": "-RRB-", "{": "-LRB-", "}": "-RRB-",
	"-lrb-": "-LRB-", "-rrb-": "-RRB-",
	"$": "$", "#": "#", "%": "NN", "&": "CC", "@": "IN",
}

// suffixes are tried in order against lowercase words of at least minLen.
var suffixes = []struct {
	suffix string
	minLen int
	tag    string
}{
	{"ing", 5, "VBG"},
	{"ed", 4, "VBD"},
	{"ly", 4, "RB"},
	{"tion", 5, "NN"},
	{"ment", 5, "NN"},
	{"ness", 5, "NN"},
	{"ity", 5, "NN"},
	{"able", 5, "JJ"},
	{"ible", 5, "JJ"},
	{"ful", 5, "JJ"},
	{"ous", 5, "JJ"},
	{"ive", 5, "JJ"},
	{"est", 5, "JJS"},
	{"ss", 3, "NN"},
	{"s", 4, "NNS"},
}

// Tagger assigns tags from a word lexicon, suffix rules and a default tag. It
// holds no mutable state and is safe for concurrent use.
type Tagger struct {
	lexicon    map[string]string
	defaultTag string
}

// NewTagger returns a tagger whose lexicon extends the built-in closed-class
// words with extra entries. Extra keys match exactly first, then lowercase.
func NewTagger(extra map[string]string, defaultTag string) *Tagger {
	lex := make(map[string]string, len(closedClass)+len(extra))
	for w, t := range closedClass {
		lex[w] = t
	}
	for w, t := range extra {
		lex[w] = t
	}
	if defaultTag == "" {
		defaultTag = DefaultTag
	}
	return &Tagger{lexicon: lex, defaultTag: defaultTag}
}

// Tag implements core.Tagger.
func (t *Tagger) Tag(_ context.Context, sent core.Sentence) (core.TaggedSentence, error) {
	out := make(core.TaggedSentence, len(sent))
	prev := ""
	for i, w := range sent {
		tag := t.tagWord(w, i, prev)
		out[i] = core.TaggedWord{Word: w, Tag: tag}
		prev = tag
	}
	return out, nil
}

func (t *Tagger) tagWord(w string, i int, prev string) string {
	lower := strings.ToLower(w)
	if lower == "'s" {
		if isCommonNoun(prev) {
			return "POS"
		}
		return "VBZ"
	}
	if tag, ok := t.lexicon[w]; ok {
		return tag
	}
	if tag, ok := t.lexicon[lower]; ok {
		return tag
	}
	if number.MatchString(w) {
		return "CD"
	}
	if i > 0 && startsUpper(w) {
		return "NNP"
	}
	if prev == "TO" || prev == "MD" {
		return "VB"
	}
	for _, s := range suffixes {
		if len(lower) >= s.minLen && strings.HasSuffix(lower, s.suffix) {
			return s.tag
		}
	}
	if !hasLetter(w) {
		return "SYM"
	}
	return t.defaultTag
}

func startsUpper(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

func hasLetter(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

var _ core.Tagger = (*Tagger)(nil)
