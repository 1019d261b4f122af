package lexicon

import (
	"context"

	"github.com/hupe1980/parsekit/core"
)

// Dependency labels produced by DepParser.
const (
	LabelRoot = "ROOT"
	LabelSub  = "SUB"
	LabelObj  = "OBJ"
	LabelVC   = "VC"
	LabelVMod = "VMOD"
	LabelNMod = "NMOD"
	LabelPMod = "PMOD"
	LabelAMod = "AMOD"
	LabelP    = "P"
	LabelDep  = "DEP"
)

// DepParser attaches tokens with deterministic head rules over the tag
// sequence. The first verb is the root; subjects, objects and prepositional
// objects hang off the nearest verb or preposition; pre-modifiers attach to
// the noun ending their phrase. The result is always a tree.
type DepParser struct{}

// NewDepParser returns a rule-based dependency parser.
func NewDepParser() *DepParser { return &DepParser{} }

// Parse implements core.DepParser.
func (p *DepParser) Parse(_ context.Context, sent core.TaggedSentence) (core.DependencyParse, error) {
	out := make(core.DependencyParse, len(sent))
	if len(sent) == 0 {
		return out, nil
	}
	tags := sent.Tags()
	root := findRoot(tags)
	for i, tw := range sent {
		head, label := -1, LabelRoot
		if i != root {
			head, label = attach(tags, i, root)
		}
		out[i] = core.DependencyNode{Word: tw.Word, Tag: tw.Tag, Head: head, Label: label}
	}
	return out, nil
}

func findRoot(tags []string) int {
	for i, t := range tags {
		if isVerb(t) {
			return i
		}
	}
	for i, t := range tags {
		if isNoun(t) {
			return i
		}
	}
	for i, t := range tags {
		if !isPunct(t) {
			return i
		}
	}
	return 0
}

func attach(tags []string, i, root int) (int, string) {
	tag := tags[i]
	switch {
	case isPunct(tag):
		return root, LabelP
	case isVerb(tag):
		if v := prevMatch(tags, i, isVerb); v >= 0 {
			return v, LabelVC
		}
		return root, LabelDep
	case isPrep(tag):
		if v := prevMatch(tags, i, isVerb); v >= 0 {
			return v, LabelVMod
		}
		if n := prevMatch(tags, i, isNoun); n >= 0 {
			return n, LabelNMod
		}
		return root, LabelDep
	case isPreModifier(tag):
		if n := phraseHead(tags, i); n >= 0 {
			return n, LabelNMod
		}
		if v := nearestVerb(tags, i); v >= 0 {
			return v, LabelVMod
		}
		return root, LabelDep
	case isNoun(tag):
		return attachNoun(tags, i, root)
	case isAdverb(tag):
		if v := nearestVerb(tags, i); v >= 0 {
			return v, LabelVMod
		}
		if n := phraseHead(tags, i); n >= 0 {
			return n, LabelAMod
		}
		return root, LabelDep
	default:
		return root, LabelDep
	}
}

func attachNoun(tags []string, i, root int) (int, string) {
	if isCommonNoun(tags[i]) && i+1 < len(tags) && isCommonNoun(tags[i+1]) {
		return phraseHead(tags, i+1), LabelNMod
	}
scan:
	for j := i - 1; j >= 0; j-- {
		t := tags[j]
		switch {
		case isPrep(t):
			return j, LabelPMod
		case isVerb(t):
			return j, LabelObj
		case isPunct(t) || t == "CC":
			break scan
		}
	}
	if i < root {
		return root, LabelSub
	}
	return root, LabelDep
}

// phraseHead returns the last common noun of the first noun run at or after
// from, crossing only pre-modifiers. A pronoun ends the phrase at itself.
func phraseHead(tags []string, from int) int {
	j := from
	for j < len(tags) && (isPreModifier(tags[j]) || isAdverb(tags[j])) {
		j++
	}
	if j >= len(tags) || !isNoun(tags[j]) {
		return -1
	}
	if !isCommonNoun(tags[j]) {
		return j
	}
	for j+1 < len(tags) && isCommonNoun(tags[j+1]) {
		j++
	}
	return j
}

func prevMatch(tags []string, i int, pred func(string) bool) int {
	for j := i - 1; j >= 0; j-- {
		if pred(tags[j]) {
			return j
		}
	}
	return -1
}

func nearestVerb(tags []string, i int) int {
	if v := prevMatch(tags, i, isVerb); v >= 0 {
		return v
	}
	for j := i + 1; j < len(tags); j++ {
		if isVerb(tags[j]) {
			return j
		}
	}
	return -1
}

var _ core.DepParser = (*DepParser)(nil)
