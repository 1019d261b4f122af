package lexicon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/format"
	"github.com/hupe1980/parsekit/model"
)

var market = core.Sentence{"I", "'m", "going", "to", "the", "market", "."}

func tag(t *testing.T, s core.Sentence) core.TaggedSentence {
	t.Helper()
	ts, err := NewTagger(nil, "").Tag(context.Background(), s)
	require.NoError(t, err)
	return ts
}

func TestTagger_Market(t *testing.T) {
	assert.Equal(t, "I/PRP 'm/VBP going/VBG to/TO the/DT market/NN ./.", format.Tagged(tag(t, market)))
}

func TestTagger_Rules(t *testing.T) {
	ts := tag(t, core.Sentence{"Mary", "quickly", "bought", "3", "books", "from", "Acme", "to", "read"})
	assert.Equal(t, []string{"NN", "RB", "VBD", "CD", "NNS", "IN", "NNP", "TO", "VB"}, ts.Tags())
}

func TestTagger_PossessiveAndLexiconOverride(t *testing.T) {
	tg := NewTagger(map[string]string{"Mary": "NNP", "gadget": "NN"}, "FW")
	ts, err := tg.Tag(context.Background(), core.Sentence{"Mary", "'s", "gadget", "xyzzy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"NNP", "POS", "NN", "FW"}, ts.Tags())

	ts = tag(t, core.Sentence{"the", "dog", "'s", "bone"})
	assert.Equal(t, "POS", ts[2].Tag)
}

func TestTagger_OneTagPerToken(t *testing.T) {
	s := core.Sentence{"I", "said", "``", "I", "am", "going", "to", "the", "market", ".", `"`}
	ts := tag(t, s)
	require.Len(t, ts, len(s))
	assert.Equal(t, s, ts.Words())
}

func TestDepParser_Market(t *testing.T) {
	p, err := NewDepParser().Parse(context.Background(), tag(t, market))
	require.NoError(t, err)
	want := "I\tPRP\t1\tSUB\n'm\tVBP\t-1\tROOT\ngoing\tVBG\t1\tVC\nto\tTO\t2\tVMOD\nthe\tDT\t5\tNMOD\nmarket\tNN\t3\tPMOD\n.\t.\t1\tP\n"
	assert.Equal(t, want, format.Dependency(p))
}

func assertTree(t *testing.T, p core.DependencyParse) {
	t.Helper()
	roots := 0
	for i, n := range p {
		if n.Head == -1 {
			roots++
			continue
		}
		require.True(t, n.Head >= 0 && n.Head < len(p), "head out of range at %d", i)
		seen := map[int]bool{}
		for h := i; h != -1; h = p[h].Head {
			require.False(t, seen[h], "cycle through %d", i)
			seen[h] = true
		}
	}
	assert.Equal(t, 1, roots)
}

func TestDepParser_AlwaysTree(t *testing.T) {
	sentences := []core.Sentence{
		{"The", "man", "in", "the", "hat", "left", "."},
		{"I", "gave", "the", "old", "man", "a", "market", "price", "."},
		{"After", "lunch", ",", "we", "very", "quickly", "left", "."},
		{"the", "big", "red", "dog"},
		{"very", "soon", "the", "market"},
		{".", "."},
		{"and"},
	}
	for _, s := range sentences {
		p, err := NewDepParser().Parse(context.Background(), tag(t, s))
		require.NoError(t, err)
		require.Len(t, p, len(s))
		assertTree(t, p)
	}
}

func TestDepParser_Attachments(t *testing.T) {
	p, err := NewDepParser().Parse(context.Background(), tag(t, core.Sentence{"The", "man", "in", "the", "hat", "left", "."}))
	require.NoError(t, err)
	assert.Equal(t, 5, p.Root())
	assert.Equal(t, core.DependencyNode{Word: "man", Tag: "NN", Head: 5, Label: LabelSub}, p[1])
	assert.Equal(t, 1, p[2].Head)
	assert.Equal(t, LabelNMod, p[2].Label)
	assert.Equal(t, LabelPMod, p[4].Label)
}

func TestConParser_Market(t *testing.T) {
	tree, err := NewConParser().Parse(context.Background(), tag(t, market))
	require.NoError(t, err)
	assert.Equal(t,
		"(S (NP (PRP I)) (VP (VBP 'm) (VP (VBG going) (PP (TO to) (NP (DT the) (NN market))))) (. .))",
		format.Tree(tree))
	assert.Contains(t, format.RawTree(tree), "*", "parser output is binarized")
}

func TestConParser_Fragment(t *testing.T) {
	tree, err := NewConParser().Parse(context.Background(), tag(t, core.Sentence{"the", "big", "dog", "!"}))
	require.NoError(t, err)
	assert.Equal(t, "(FRAG (NP (DT the) (JJ big) (NN dog)) (. !))", format.Tree(tree))
}

func TestConParser_YieldPreserved(t *testing.T) {
	s := core.Sentence{"I", "saw", "the", "dog", "run", "quickly", "with", "my", "friends", "."}
	tree, err := NewConParser().Parse(context.Background(), tag(t, s))
	require.NoError(t, err)
	assert.Equal(t, s, tree.Words())
}

func TestBackend_ViaRegistry(t *testing.T) {
	reg := model.NewRegistry()
	reg.Register(Name, NewBackend())

	dir := t.TempDir()
	for _, k := range core.Kinds {
		require.NoError(t, writeFile(model.ModelPath(dir, k), ""))
	}

	tg, err := reg.LoadTagger(dir)
	require.NoError(t, err)
	_, err = reg.LoadConParser(dir)
	require.NoError(t, err)
	_, err = reg.LoadDepParser(dir)
	require.NoError(t, err)

	ts, err := tg.Tag(context.Background(), market)
	require.NoError(t, err)
	assert.Len(t, ts, len(market))
}
