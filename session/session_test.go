package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/internal/testutil"
	"github.com/hupe1980/parsekit/lemma"
	"github.com/hupe1980/parsekit/model"
	"github.com/hupe1980/parsekit/pipeline"
)

const (
	market        = "I'm going to the market."
	marketTagged  = "I/PRP 'm/VBP going/VBG to/TO the/DT market/NN ./."
	marketTree    = "(S (NP (PRP I)) (VP (VBP 'm) (VP (VBG going) (PP (TO to) (NP (DT the) (NN market))))) (. .))"
	marketDepRows = "I\tPRP\t1\tSUB\n'm\tVBP\t-1\tROOT\ngoing\tVBG\t1\tVC\nto\tTO\t2\tVMOD\nthe\tDT\t5\tNMOD\nmarket\tNN\t3\tPMOD\n.\t.\t1\tP\n"
)

func loadedSession(t *testing.T, optFns ...func(o *Options)) *Session {
	t.Helper()
	s := New(optFns...)
	require.NoError(t, s.LoadModels(testutil.LexiconModelDir(t)))
	t.Cleanup(func() { _ = s.Unload() })
	return s
}

func TestSession_SingleSentenceOperations(t *testing.T) {
	s := loadedSession(t)
	ctx := context.Background()

	out, err := s.TagSentence(ctx, market, true)
	require.NoError(t, err)
	assert.Equal(t, marketTagged, out)

	out, err = s.ParseSentence(ctx, market, true)
	require.NoError(t, err)
	assert.Equal(t, marketTree, out)

	out, err = s.DepParseSentence(ctx, market, true)
	require.NoError(t, err)
	assert.Equal(t, marketDepRows, out)
	assert.Equal(t, marketDepRows, string(s.Output()))
}

func TestSession_IDsAreUnique(t *testing.T) {
	a, b := New(), New()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSession_PreTokenizedPairCount(t *testing.T) {
	s := loadedSession(t)
	text := "I said `` I am going to the market . \""

	out, err := s.TagSentence(context.Background(), text, false)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), len(strings.Fields(text)))
	for _, pair := range strings.Fields(out) {
		assert.Contains(t, pair, "/")
	}
}

func TestSession_EmptyInput(t *testing.T) {
	s := loadedSession(t)
	for _, text := range []string{"", "   ", "\t\n"} {
		out, err := s.TagSentence(context.Background(), text, true)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestSession_LoadParserLoadsTagger(t *testing.T) {
	dir := testutil.LexiconModelDir(t)

	s := New()
	require.NoError(t, s.LoadParser(dir))
	assert.Equal(t, []core.ModelKind{core.KindTagger, core.KindConParser}, s.Loaded())

	d := New()
	require.NoError(t, d.LoadDepParser(dir))
	assert.Equal(t, []core.ModelKind{core.KindTagger, core.KindDepParser}, d.Loaded())

	out, err := d.DepParseSentence(context.Background(), market, true)
	require.NoError(t, err)
	assert.Equal(t, marketDepRows, out)
}

func TestSession_LoadErrors(t *testing.T) {
	s := New()
	err := s.LoadTagger(t.TempDir())
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)

	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, core.KindTagger, le.Kind)

	// The tagger loads but the parser file is missing.
	dir := testutil.NewModelDir(t).Tagger("").Build()
	err = s.LoadParser(dir)
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)
	assert.Equal(t, []core.ModelKind{core.KindTagger}, s.Loaded())

	err = New().LoadTagger(testutil.NewModelDir(t).Tagger("backend: nope").Build())
	assert.ErrorIs(t, err, core.ErrUnknownBackend)
}

func TestSession_LoadModelsShortCircuits(t *testing.T) {
	dir := testutil.NewModelDir(t).Tagger("").DepParser("").Build()
	s := New()
	t.Cleanup(func() { _ = s.Unload() })

	err := s.LoadModels(dir)
	require.ErrorIs(t, err, core.ErrModelFileNotFound)

	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, core.KindConParser, le.Kind)
	assert.Equal(t, []core.ModelKind{core.KindTagger}, s.Loaded())
}

func TestSession_NotLoaded(t *testing.T) {
	s := New()
	_, err := s.TagSentence(context.Background(), "hello", false)
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)

	require.NoError(t, s.LoadTagger(testutil.NewModelDir(t).Tagger("").Build()))
	_, err = s.ParseSentence(context.Background(), "hello", false)
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)
	_, err = s.DepParseSentence(context.Background(), "hello", false)
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)
}

func TestSession_TagPairCountBelowCeiling(t *testing.T) {
	s := loadedSession(t)
	for _, n := range []int{1, 2, 50, core.MaxSentenceSize - 1} {
		out, err := s.TagSentence(context.Background(), testutil.Line(n, "dog"), false)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(out), n)
	}
}

func TestSession_CeilingNeverCallsModels(t *testing.T) {
	tagger := &testutil.MockTagger{}
	con := &testutil.MockConParser{}
	dep := &testutil.MockDepParser{}
	s := New(func(o *Options) {
		o.Loader = &model.StaticLoader{Tagger: tagger, ConParser: con, DepParser: dep}
	})
	require.NoError(t, s.LoadModels("unused"))
	ctx := context.Background()

	for _, n := range []int{core.MaxSentenceSize, core.MaxSentenceSize + 1, 2000} {
		line := testutil.Line(n, "w")

		out, err := s.TagSentence(ctx, line, false)
		require.NoError(t, err)
		assert.Empty(t, out)

		out, err = s.ParseSentence(ctx, line, false)
		require.NoError(t, err)
		assert.Empty(t, out)

		out, err = s.DepParseSentence(ctx, line, false)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	tagger.AssertNotCalled(t, "Tag", mock.Anything, mock.Anything)
	con.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
	dep.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
}

func TestSession_LengthPolicyOptions(t *testing.T) {
	s := loadedSession(t, func(o *Options) {
		o.LengthPolicy = core.LengthPolicyError
		o.MaxSentenceSize = 5
	})
	_, err := s.ParseSentence(context.Background(), testutil.Line(5, "w"), false)
	assert.ErrorIs(t, err, core.ErrSentenceTooLong)
	assert.Empty(t, s.Output())

	tr := loadedSession(t, func(o *Options) {
		o.LengthPolicy = core.LengthPolicyTruncate
		o.MaxSentenceSize = 5
	})
	out, err := tr.TagSentence(context.Background(), testutil.Line(8, "w"), false)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 4)
}

func TestSession_ShorterResultHasNoResidue(t *testing.T) {
	s := loadedSession(t)
	ctx := context.Background()

	long, err := s.TagSentence(ctx, "the old man bought a very big house near the river", false)
	require.NoError(t, err)
	require.Equal(t, long, string(s.Output()))

	short, err := s.TagSentence(ctx, "hi", false)
	require.NoError(t, err)
	assert.Equal(t, "hi/NN", short)
	assert.Equal(t, "hi/NN", string(s.Output()))
	assert.Len(t, s.Output(), len("hi/NN"))

	_, err = s.TagSentence(ctx, "", false)
	require.NoError(t, err)
	assert.Empty(t, s.Output())
}

func TestSession_ReturnedStringIsACopy(t *testing.T) {
	s := loadedSession(t)
	first, err := s.TagSentence(context.Background(), "the dog", false)
	require.NoError(t, err)
	_, err = s.TagSentence(context.Background(), "a cat", false)
	require.NoError(t, err)
	assert.Equal(t, "the/DT dog/NN", first)
}

func TestSession_IndependentSessions(t *testing.T) {
	dir := testutil.LexiconModelDir(t)
	a, b := New(), New()
	require.NoError(t, a.LoadTagger(dir))
	require.NoError(t, b.LoadTagger(dir))
	ctx := context.Background()

	outA, err := a.TagSentence(ctx, market, true)
	require.NoError(t, err)
	outB, err := b.TagSentence(ctx, market, true)
	require.NoError(t, err)
	assert.Equal(t, outA, outB)

	require.NoError(t, a.Unload())
	_, err = a.TagSentence(ctx, market, true)
	assert.ErrorIs(t, err, core.ErrSessionClosed)

	outB, err = b.TagSentence(ctx, market, true)
	require.NoError(t, err)
	assert.Equal(t, marketTagged, outB)
}

func TestSession_UnloadRejectsLaterCalls(t *testing.T) {
	dir := testutil.LexiconModelDir(t)
	s := New()
	require.NoError(t, s.LoadModels(dir))
	require.NoError(t, s.Unload())
	require.NoError(t, s.Unload())
	assert.True(t, s.Closed())
	assert.Empty(t, s.Loaded())
	assert.Nil(t, s.Output())

	ctx := context.Background()
	assert.ErrorIs(t, s.LoadTagger(dir), core.ErrSessionClosed)
	_, err := s.ParseSentence(ctx, "x", false)
	assert.ErrorIs(t, err, core.ErrSessionClosed)
	_, err = s.DepParseTaggedSentence(ctx, "not tagged", "")
	assert.ErrorIs(t, err, core.ErrSessionClosed)
	_, err = s.TagFile(ctx, "in", "out", false)
	assert.ErrorIs(t, err, core.ErrSessionClosed)
}

type freshLoader struct {
	model.StaticLoader
	taggers []*testutil.ClosingTagger
}

func (l *freshLoader) LoadTagger(string) (core.Tagger, error) {
	t := &testutil.ClosingTagger{FixedTag: "X"}
	l.taggers = append(l.taggers, t)
	return t, nil
}

func TestSession_ReloadReleasesPrevious(t *testing.T) {
	loader := &freshLoader{}
	s := New(func(o *Options) { o.Loader = loader })

	require.NoError(t, s.LoadTagger("a"))
	require.NoError(t, s.LoadTagger("b"))
	require.Len(t, loader.taggers, 2)
	assert.Equal(t, 1, loader.taggers[0].Closed)
	assert.Equal(t, 0, loader.taggers[1].Closed)

	out, err := s.TagSentence(context.Background(), "a b", false)
	require.NoError(t, err)
	assert.Equal(t, "a/X b/X", out)

	require.NoError(t, s.Unload())
	assert.Equal(t, 1, loader.taggers[1].Closed)
}

func TestSession_ReloadSameInstanceIsKept(t *testing.T) {
	tagger := &testutil.ClosingTagger{FixedTag: "X"}
	s := New(func(o *Options) { o.Loader = &model.StaticLoader{Tagger: tagger} })
	require.NoError(t, s.LoadTagger("a"))
	require.NoError(t, s.LoadTagger("a"))
	assert.Equal(t, 0, tagger.Closed)
}

func TestSession_TaggedInput(t *testing.T) {
	s := loadedSession(t)
	ctx := context.Background()

	out, err := s.DepParseTaggedSentence(ctx, marketTagged, "")
	require.NoError(t, err)
	assert.Equal(t, marketDepRows, out)

	out, err = s.ParseTaggedSentence(ctx, "I_PRP 'm_VBP going_VBG to_TO the_DT market_NN ._.", "_")
	require.NoError(t, err)
	assert.Equal(t, marketTree, out)

	_, err = s.ParseTaggedSentence(ctx, "untagged words", "")
	assert.Error(t, err)
}

func TestSession_TaggedInputSkipsTagger(t *testing.T) {
	tagger := &testutil.MockTagger{}
	dep := &testutil.MockDepParser{}
	tagged := testutil.NewTagged().Pairs("dogs/NNS bark/VBP").Build()
	dep.On("Parse", mock.Anything, tagged).Return(core.DependencyParse{
		{Word: "dogs", Tag: "NNS", Head: 1, Label: "SUB"},
		{Word: "bark", Tag: "VBP", Head: -1, Label: "ROOT"},
	}, nil)
	s := New(func(o *Options) {
		o.Loader = &model.StaticLoader{Tagger: tagger, DepParser: dep}
		o.Lemmatizer = lemma.New(nil)
	})
	require.NoError(t, s.LoadDepParser("unused"))

	out, err := s.DepParseTaggedSentence(context.Background(), "dogs/NNS bark/VBP", "", WithLemmas)
	require.NoError(t, err)
	assert.Equal(t, "dogs\tNNS\t1\tSUB\tdog\nbark\tVBP\t-1\tROOT\tbark\n", out)
	tagger.AssertNotCalled(t, "Tag", mock.Anything, mock.Anything)
	dep.AssertExpectations(t)
}

func TestSession_Lemmas(t *testing.T) {
	s := loadedSession(t, func(o *Options) { o.Lemmatizer = lemma.New(nil) })
	out, err := s.DepParseSentence(context.Background(), "I'm going", true, WithLemmas)
	require.NoError(t, err)
	assert.Equal(t, "I\tPRP\t1\tSUB\tI\n'm\tVBP\t-1\tROOT\tbe\ngoing\tVBG\t1\tVC\tgo\n", out)

	plain := loadedSession(t)
	out, err = plain.DepParseSentence(context.Background(), "I'm going", true, WithLemmas)
	require.NoError(t, err)
	assert.Equal(t, "I\tPRP\t1\tSUB\n'm\tVBP\t-1\tROOT\ngoing\tVBG\t1\tVC\n", out)
}

func TestSession_ConcurrentCalls(t *testing.T) {
	s := loadedSession(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				out, err := s.TagSentence(context.Background(), market, true)
				assert.NoError(t, err)
				assert.Equal(t, marketTagged, out)
			}
		}()
	}
	wg.Wait()
}

func TestSession_Load(t *testing.T) {
	s := New()
	dir := testutil.LexiconModelDir(t)
	require.NoError(t, s.Load(dir, core.KindDepParser))
	assert.Equal(t, []core.ModelKind{core.KindTagger, core.KindDepParser}, s.Loaded())
	assert.Error(t, s.Load(dir, core.ModelKind("lemmatizer")))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestSession_TagFileOneRecordPerLine(t *testing.T) {
	s := loadedSession(t)
	in := testutil.WriteLines(t, "in.txt",
		"The dog barked .",
		"",
		testutil.Line(core.MaxSentenceSize+10, "w"),
	)
	out := filepath.Join(t.TempDir(), "out.txt")

	report, err := s.TagFile(context.Background(), in, out, false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Sentences)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, report.Failures)
	assert.NoError(t, report.Err())

	content := readFile(t, out)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "The/DT dog/NN barked/VBD ./.", lines[0])
	assert.Empty(t, lines[1])
	assert.Empty(t, lines[2])
	assert.Empty(t, s.Output())
}

func TestSession_ParseFileThirdLineOverCeiling(t *testing.T) {
	s := loadedSession(t)
	in := testutil.WriteLines(t, "in.txt",
		"I'm going to the market.",
		"The dog barked.",
		testutil.Line(core.MaxSentenceSize, "w"),
	)
	out := filepath.Join(t.TempDir(), "out.txt")

	report, err := s.ParseFile(context.Background(), in, out, true)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Sentences)

	lines := strings.Split(strings.TrimSuffix(readFile(t, out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, marketTree, lines[0])
	assert.NotEmpty(t, lines[1])
	assert.Empty(t, lines[2])
}

func TestSession_DepParseFileRecords(t *testing.T) {
	s := loadedSession(t)
	in := testutil.WriteLines(t, "in.txt", market, testutil.Line(core.MaxSentenceSize, "w"))
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := s.DepParseFile(context.Background(), in, out, true)
	require.NoError(t, err)
	assert.Equal(t, marketDepRows+"\n"+"\n", readFile(t, out))
}

func TestSession_TaggedFiles(t *testing.T) {
	s := loadedSession(t)
	in := testutil.WriteLines(t, "in.txt", marketTagged, "broken line")
	out := filepath.Join(t.TempDir(), "out.txt")

	report, err := s.DepParseTaggedFile(context.Background(), in, out, "")
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].Line)
	assert.Error(t, report.Err())
	assert.Equal(t, marketDepRows+"\n"+"\n", readFile(t, out))

	report, err = s.ParseTaggedFile(context.Background(), in, out, "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, marketTree+"\n\n", readFile(t, out))
}

func TestSession_BatchErrorPolicyRecordsFailure(t *testing.T) {
	s := loadedSession(t, func(o *Options) { o.LengthPolicy = core.LengthPolicyError })
	in := testutil.WriteLines(t, "in.txt", testutil.Line(core.MaxSentenceSize, "w"), "ok")
	out := filepath.Join(t.TempDir(), "out.txt")

	report, err := s.TagFile(context.Background(), in, out, false)
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0], core.ErrSentenceTooLong)
	assert.Equal(t, "\nok/NN\n", readFile(t, out))
}

func TestSession_BatchIOErrors(t *testing.T) {
	s := loadedSession(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := s.TagFile(ctx, filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.txt"), false)
	assert.ErrorIs(t, err, core.ErrInputUnavailable)

	in := testutil.WriteLines(t, "in.txt", "a b")
	_, err = s.TagFile(ctx, in, filepath.Join(dir, "no", "such", "dir", "out.txt"), false)
	assert.ErrorIs(t, err, core.ErrOutputDestinationUnavailable)
}

func TestSession_BatchMissingModelCreatesNoOutput(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadTagger(testutil.NewModelDir(t).Tagger("").Build()))
	in := testutil.WriteLines(t, "in.txt", "a b")
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := s.ParseFile(context.Background(), in, out, false)
	assert.ErrorIs(t, err, core.ErrModelNotLoaded)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_Stream(t *testing.T) {
	s := loadedSession(t)
	var sb strings.Builder
	var seen []int

	report, err := s.Stream(context.Background(), pipeline.OpTag, strings.NewReader("a dog\r\nthe cat"), &sb, func(o *StreamOptions) {
		o.OnLine = func(line int) { seen = append(seen, line) }
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sentences)
	assert.Equal(t, "a/DT dog/NN\nthe/DT cat/NN\n", sb.String())
	assert.Equal(t, []int{1, 2}, seen)
}

func TestSession_StreamCancelled(t *testing.T) {
	s := loadedSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	_, err := s.Stream(ctx, pipeline.OpTag, strings.NewReader("a\nb\n"), &sb)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sb.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestSession_StreamWriteFailureIsFatal(t *testing.T) {
	s := loadedSession(t)
	_, err := s.Stream(context.Background(), pipeline.OpTag, strings.NewReader("a\nb\n"), failingWriter{})
	assert.ErrorIs(t, err, core.ErrOutputDestinationUnavailable)
}
