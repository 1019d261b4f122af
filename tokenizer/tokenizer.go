// Package tokenizer turns text into token sequences for the annotation
// pipeline. Two modes exist: Treebank segments raw text (splitting
// punctuation and clitics, normalizing quotes) while Whitespace treats the
// input as already tokenized and only splits on whitespace.
package tokenizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hupe1980/parsekit/core"
)

// Tokenizer converts one sentence of text into tokens.
type Tokenizer interface {
	Tokenize(text string) core.Sentence
}

// Func adapts a plain function to the Tokenizer interface.
type Func func(text string) core.Sentence

// Tokenize implements Tokenizer.
func (f Func) Tokenize(text string) core.Sentence { return f(text) }

// Whitespace splits pre-tokenized text on runs of whitespace.
var Whitespace Tokenizer = Func(Split)

// Default is the raw-text tokenizer used when tokenization is requested.
var Default Tokenizer = Treebank{}

// Split splits pre-tokenized text on whitespace only.
func Split(text string) core.Sentence {
	return core.Sentence(strings.Fields(text))
}

// Tokenize segments raw text with the Treebank rules.
func Tokenize(text string) core.Sentence {
	return Treebank{}.Tokenize(text)
}

// Select returns the raw-text tokenizer when tokenize is true and the
// whitespace splitter otherwise.
func Select(raw Tokenizer, tokenize bool) Tokenizer {
	if !tokenize {
		return Whitespace
	}
	if raw == nil {
		return Default
	}
	return raw
}

type rule struct {
	re   *regexp.Regexp
	repl string
}

func rules(pairs ...string) []rule {
	out := make([]rule, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, rule{re: regexp.MustCompile(pairs[i]), repl: pairs[i+1]})
	}
	return out
}

var (
	quoteReplacer = strings.NewReplacer(
		"“", " `` ",
		"”", " '' ",
		"‘", "'",
		"’", "'",
		"«", " `` ",
		"»", " '' ",
	)

	startingQuotes = rules(
		`^\s*"`, " `` ",
		"(``)", " ${1} ",
		`\s("|'')\s*$`, " ” ", // closing; rewritten to '' by quoteReplacer
		`([ (\[{<])("|'')`, "${1} `` ",
	)

	punctuation = rules(
		`([:,])([^\d])`, " ${1} ${2}",
		`([:,])$`, " ${1} ",
		`\.\.\.`, " ... ",
		`[;@#$%&]`, " ${0} ",
		`([^.])(\.)([\])}>"']*)\s*$`, "${1} ${2}${3} ",
		`[?!]`, " ${0} ",
		`([^'])' `, "${1} ' ",
		`[\][(){}<>]`, " ${0} ",
		`--`, " -- ",
	)

	endingQuotes = rules(
		`"`, " '' ",
		`(\S)('')`, "${1} ${2} ",
		`([^' ])('[sS]|'[mM]|'[dD]|') `, "${1} ${2} ",
		`([^' ])('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `, "${1} ${2} ",
	)

	contractions = rules(
		`(?i)\b(can)(not)\b`, "${1} ${2}",
		`(?i)\b(d)('ye)\b`, "${1} ${2}",
		`(?i)\b(gim)(me)\b`, "${1} ${2}",
		`(?i)\b(gon)(na)\b`, "${1} ${2}",
		`(?i)\b(got)(ta)\b`, "${1} ${2}",
		`(?i)\b(lem)(me)\b`, "${1} ${2}",
		`(?i)\b(wan)(na)\b`, "${1} ${2}",
	)
)

// Treebank is a Penn Treebank style tokenizer for English raw text.
type Treebank struct{}

// Tokenize implements Tokenizer.
func (Treebank) Tokenize(text string) core.Sentence {
	text = norm.NFC.String(text)
	text = apply(startingQuotes, text)
	text = quoteReplacer.Replace(text)
	text = apply(punctuation, text)
	text = " " + text + " "
	text = apply(endingQuotes, text)
	text = apply(contractions, text)
	return Split(text)
}

func apply(rs []rule, text string) string {
	for _, r := range rs {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return text
}
