package lemma

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/parsekit/core"
)

func TestLemma(t *testing.T) {
	l := New(nil)
	tests := []struct {
		word, tag, want string
	}{
		{"'m", "VBP", "be"},
		{"going", "VBG", "go"},
		{"running", "VBG", "run"},
		{"making", "VBG", "make"},
		{"walked", "VBD", "walk"},
		{"stopped", "VBD", "stop"},
		{"tried", "VBD", "try"},
		{"hoped", "VBN", "hope"},
		{"watches", "VBZ", "watch"},
		{"went", "VBD", "go"},
		{"markets", "NNS", "market"},
		{"cities", "NNS", "city"},
		{"boxes", "NNS", "box"},
		{"children", "NNS", "child"},
		{"Dogs", "NNS", "dog"},
		{"Paris", "NNP", "Paris"},
		{"bigger", "JJR", "big"},
		{"happiest", "JJS", "happy"},
		{"better", "JJR", "good"},
		{"quickly", "RB", "quickly"},
		{"the", "DT", "the"},
		{"I", "PRP", "I"},
		{".", ".", "."},
		{"x", "", "x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Lemma(tt.word, tt.tag), "%s/%s", tt.word, tt.tag)
	}
}

func TestLemma_Extra(t *testing.T) {
	l := New(map[string]string{"Oxen": "ox"})
	assert.Equal(t, "ox", l.Lemma("oxen", "NNS"))
}

func TestLemma_ZeroValue(t *testing.T) {
	var l Lemmatizer
	assert.Equal(t, "cat", l.Lemma("cats", "NNS"))
}

func TestAnnotate(t *testing.T) {
	p := core.DependencyParse{
		{Word: "I", Tag: "PRP", Head: 1, Label: "SUB"},
		{Word: "'m", Tag: "VBP", Head: -1, Label: "ROOT"},
		{Word: "going", Tag: "VBG", Head: 1, Label: "VC"},
	}
	Annotate(New(nil), p)
	assert.Equal(t, []string{"I", "be", "go"}, []string{p[0].Lemma, p[1].Lemma, p[2].Lemma})
}
