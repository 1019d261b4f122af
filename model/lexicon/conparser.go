package lexicon

import (
	"context"

	"github.com/hupe1980/parsekit/core"
)

// ConParser builds a shallow phrase structure with a chunk grammar: noun
// phrases, prepositional phrases over them, one nested VP per verb and an S
// (or FRAG without a verb) on top. Parse returns the right-binarized tree.
type ConParser struct{}

// NewConParser returns a rule-based constituency parser.
func NewConParser() *ConParser { return &ConParser{} }

// Parse implements core.ConParser.
func (p *ConParser) Parse(_ context.Context, sent core.TaggedSentence) (*core.Tree, error) {
	if len(sent) == 0 {
		return nil, nil
	}
	units := chunk(sent)

	end := len(units)
	for end > 0 && units[end-1].IsPreterminal() && isPunct(units[end-1].Label) {
		end--
	}
	body, tail := units[:end], units[end:]

	v := -1
	for i, u := range body {
		if isVerbUnit(u) {
			v = i
			break
		}
	}
	var children []*core.Tree
	label := "S"
	if v < 0 {
		label = "FRAG"
		children = append(children, body...)
	} else {
		children = append(children, body[:v]...)
		children = append(children, verbPhrase(body[v:]))
	}
	children = append(children, tail...)
	return core.Node(label, children...).Binarize(), nil
}

func isVerbUnit(u *core.Tree) bool { return u.IsPreterminal() && isVerb(u.Label) }

// verbPhrase heads a VP with units[0]; the next verb opens a nested VP.
func verbPhrase(units []*core.Tree) *core.Tree {
	vp := core.Node("VP", units[0])
	for i := 1; i < len(units); i++ {
		if isVerbUnit(units[i]) {
			vp.Children = append(vp.Children, verbPhrase(units[i:]))
			break
		}
		vp.Children = append(vp.Children, units[i])
	}
	return vp
}

// chunk groups preterminals into NP, PP, ADJP and ADVP units.
func chunk(sent core.TaggedSentence) []*core.Tree {
	leaves := make([]*core.Tree, len(sent))
	for i, tw := range sent {
		leaves[i] = core.Leaf(tw.Tag, tw.Word)
	}

	var units []*core.Tree
	for i := 0; i < len(leaves); {
		if np, n := nounPhrase(leaves[i:]); n > 0 {
			units = append(units, np)
			i += n
			continue
		}
		tag := leaves[i].Label
		switch {
		case isAdverb(tag):
			units = append(units, core.Node("ADVP", leaves[i]))
		case tag == "DT" || tag == "CD":
			units = append(units, core.Node("NP", leaves[i]))
		case isPreModifier(tag):
			units = append(units, core.Node("ADJP", leaves[i]))
		default:
			units = append(units, leaves[i])
		}
		i++
	}

	var out []*core.Tree
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u.IsPreterminal() && isPrep(u.Label) && i+1 < len(units) && units[i+1].Label == "NP" {
			out = append(out, core.Node("PP", u, units[i+1]))
			i++
			continue
		}
		out = append(out, u)
	}
	return out
}

// nounPhrase matches pre-modifiers followed by a noun run at the start of
// leaves and returns the phrase and the number of leaves consumed.
func nounPhrase(leaves []*core.Tree) (*core.Tree, int) {
	j := 0
	for j < len(leaves) && isPreModifier(leaves[j].Label) {
		j++
	}
	if j >= len(leaves) || !isNoun(leaves[j].Label) {
		return nil, 0
	}
	if isCommonNoun(leaves[j].Label) {
		for j+1 < len(leaves) && isCommonNoun(leaves[j+1].Label) {
			j++
		}
	}
	j++
	np := make([]*core.Tree, j)
	copy(np, leaves[:j])
	return core.Node("NP", np...), j
}

var _ core.ConParser = (*ConParser)(nil)
