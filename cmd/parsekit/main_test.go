package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/internal/testutil"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	ui := UI{In: strings.NewReader(stdin), Out: &out, Err: &errOut}
	err := newApp(ui).RunContext(context.Background(), append([]string{"parsekit", "--log-level", "error"}, args...))
	return out.String(), errOut.String(), err
}

func TestTag_Arguments(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	out, _, err := run(t, "", "--model-dir", dir, "tag", "I'm", "going", "to", "the", "market.")
	require.NoError(t, err)
	assert.Equal(t, "I/PRP 'm/VBP going/VBG to/TO the/DT market/NN ./.\n", out)
}

func TestTag_Stdin(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	out, _, err := run(t, "the dog\n\nthe market\n", "--model-dir", dir, "tag")
	require.NoError(t, err)
	assert.Equal(t, "the/DT dog/NN\n\nthe/DT market/NN\n", out)
}

func TestParse_Arguments(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	out, _, err := run(t, "", "--model-dir", dir, "parse", "I'm going to the market.")
	require.NoError(t, err)
	assert.Equal(t, "(S (NP (PRP I)) (VP (VBP 'm) (VP (VBG going) (PP (TO to) (NP (DT the) (NN market))))) (. .))\n", out)
}

func TestDepParse_TaggedWithLemmas(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	out, _, err := run(t, "", "--model-dir", dir, "depparse", "--tagged", "--lemmas", "I/PRP 'm/VBP going/VBG")
	require.NoError(t, err)
	assert.Equal(t, "I\tPRP\t1\tSUB\tI\n'm\tVBP\t-1\tROOT\tbe\ngoing\tVBG\t1\tVC\tgo\n\n", out)
}

func TestTag_File(t *testing.T) {
	dir := testutil.LexiconModelDir(t)
	in := testutil.WriteLines(t, "in.txt", "the dog", testutil.Line(core.MaxSentenceSize, "w"), "the market")
	outPath := filepath.Join(t.TempDir(), "out.txt")

	_, stderr, err := run(t, "", "--model-dir", dir, "tag", "--input", in, "--output", outPath, "--progress")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tag: 3 sentences, 1 skipped, 0 failed")

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "the/DT dog/NN\n\nthe/DT market/NN\n", string(content))
}

func TestTag_FileErrors(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	_, _, err := run(t, "", "--model-dir", dir, "tag", "--input", "in.txt")
	assert.EqualError(t, err, "--input requires --output")

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, _, err = run(t, "", "--model-dir", dir, "tag", "--input", missing, "--output", filepath.Join(t.TempDir(), "out.txt"))
	assert.ErrorIs(t, err, core.ErrInputUnavailable)
}

func TestGlobalFlags(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	_, _, err := run(t, "", "--model-dir", dir, "--length-policy", "sideways", "tag", "a")
	assert.Error(t, err)

	_, _, err = run(t, "", "--model-dir", filepath.Join(t.TempDir(), "empty"), "tag", "a")
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)
}

func TestEval(t *testing.T) {
	gold := testutil.WriteLines(t, "gold.txt", "the/DT dog/NN", "a/DT cat/NN")
	test := testutil.WriteLines(t, "test.txt", "the/DT dog/NN", "a/DT cat/VB")

	out, _, err := run(t, "", "eval", "--gold", gold, "--test", test)
	require.NoError(t, err)
	assert.Contains(t, out, "tokens:    3/4 75.00%")
	assert.Contains(t, out, "sentences: 1/2 50.00%")

	_, _, err = run(t, "", "eval", "--gold", gold, "--test", test, "--kind", "tree")
	assert.Error(t, err)
}
