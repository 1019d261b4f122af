// Package lemma maps a word and its Penn Treebank tag to a base form. Only
// nouns, verbs, adjectives and adverbs (tags starting with N, V, J or R) are
// reduced; every other word is returned unchanged.
package lemma

import (
	"strings"

	"github.com/hupe1980/parsekit/core"
)

// exceptions lists irregular forms per word class.
var exceptions = map[byte]map[string]string{
	'N': {
		"men": "man", "women": "woman", "children": "child", "people": "person", "mice": "mouse",
		"feet": "foot", "teeth": "tooth", "geese": "goose", "data": "datum", "criteria": "criterion",
		"knives": "knife", "wives": "wife", "lives": "life", "leaves": "leaf", "halves": "half",
	},
	'V': {
		"am": "be", "'m": "be", "is": "be", "are": "be", "'re": "be", "was": "be", "were": "be",
		"been": "be", "being": "be", "'s": "be",
		"has": "have", "had": "have", "having": "have", "'ve": "have",
		"does": "do", "did": "do", "done": "do",
		"goes": "go", "went": "go", "gone": "go",
		"said": "say", "made": "make", "took": "take", "taken": "take", "saw": "see", "seen": "see",
		"came": "come", "got": "get", "gotten": "get", "gave": "give", "given": "give",
		"knew": "know", "known": "know", "thought": "think", "told": "tell", "found": "find",
		"left": "leave", "ran": "run", "ate": "eat", "eaten": "eat", "bought": "buy", "brought": "bring",
		"wrote": "write", "written": "write", "spoke": "speak", "spoken": "speak", "began": "begin",
		"begun": "begin", "felt": "feel", "kept": "keep", "held": "hold", "stood": "stand", "sat": "sit",
		"met": "meet", "paid": "pay", "sent": "send", "built": "build", "lost": "lose", "sold": "sell",
	},
	'J': {
		"better": "good", "best": "good", "worse": "bad", "worst": "bad",
		"further": "far", "farther": "far", "furthest": "far", "farthest": "far",
	},
	'R': {
		"better": "well", "best": "well",
	},
}

// Lemmatizer is a rule-based English lemmatizer. The zero value is usable.
type Lemmatizer struct {
	extra map[string]string
}

// New returns a lemmatizer consulting extra ("word" -> "lemma") before the
// built-in rules. Keys are matched in lowercase.
func New(extra map[string]string) *Lemmatizer {
	m := make(map[string]string, len(extra))
	for w, l := range extra {
		m[strings.ToLower(w)] = l
	}
	return &Lemmatizer{extra: m}
}

// Lemma implements core.Lemmatizer.
func (l *Lemmatizer) Lemma(word, tag string) string {
	if tag == "" {
		return word
	}
	class := tag[0]
	switch class {
	case 'N', 'V', 'J', 'R':
	default:
		return word
	}
	if class == 'N' && strings.HasPrefix(tag, "NNP") {
		return word
	}
	lower := strings.ToLower(word)
	if l != nil {
		if v, ok := l.extra[lower]; ok {
			return v
		}
	}
	if v, ok := exceptions[class][lower]; ok {
		return v
	}
	switch class {
	case 'N':
		if tag == "NNS" {
			return plural(lower)
		}
	case 'V':
		return verb(lower, tag)
	case 'J', 'R':
		if strings.HasSuffix(tag, "R") || strings.HasSuffix(tag, "S") {
			return graded(lower)
		}
	}
	return lower
}

func plural(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us"):
		return w[:len(w)-1]
	}
	return w
}

func verb(w, tag string) string {
	switch tag {
	case "VBZ":
		return plural(w)
	case "VBG":
		if len(w) > 4 && strings.HasSuffix(w, "ing") {
			return restore(w[:len(w)-3])
		}
	case "VBD", "VBN":
		switch {
		case len(w) > 4 && strings.HasSuffix(w, "ied"):
			return w[:len(w)-3] + "y"
		case len(w) > 3 && strings.HasSuffix(w, "ed"):
			return restore(w[:len(w)-2])
		}
	}
	return w
}

func graded(w string) string {
	switch {
	case len(w) > 5 && strings.HasSuffix(w, "iest"):
		return w[:len(w)-4] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "ier"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "est"):
		return undouble(w[:len(w)-3])
	case len(w) > 3 && strings.HasSuffix(w, "er"):
		return undouble(w[:len(w)-2])
	}
	return w
}

// restore repairs a stem left by stripping -ing or -ed: doubled final
// consonants are undoubled and short consonant-vowel-consonant stems regain
// their silent e.
func restore(stem string) string {
	if s := undouble(stem); s != stem {
		return s
	}
	if len(stem) == 3 && cvc(stem) {
		return stem + "e"
	}
	return stem
}

func undouble(s string) string {
	n := len(s)
	if n >= 3 && s[n-1] == s[n-2] && !isVowel(s[n-1]) && !strings.ContainsRune("lsz", rune(s[n-1])) {
		return s[:n-1]
	}
	return s
}

func cvc(s string) bool {
	n := len(s)
	return !isVowel(s[n-3]) && isVowel(s[n-2]) && !isVowel(s[n-1]) && !strings.ContainsRune("wxy", rune(s[n-1]))
}

func isVowel(b byte) bool { return strings.IndexByte("aeiou", b) >= 0 }

// Annotate fills the Lemma field of every node in p.
func Annotate(l core.Lemmatizer, p core.DependencyParse) {
	for i := range p {
		p[i].Lemma = l.Lemma(p[i].Word, p[i].Tag)
	}
}

var _ core.Lemmatizer = (*Lemmatizer)(nil)
