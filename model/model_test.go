package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/parsekit/core"
)

type fakeTagger struct{ closed bool }

func (f *fakeTagger) Tag(_ context.Context, s core.Sentence) (core.TaggedSentence, error) {
	out := make(core.TaggedSentence, len(s))
	for i, w := range s {
		out[i] = core.TaggedWord{Word: w, Tag: "X"}
	}
	return out, nil
}

func (f *fakeTagger) Close() error {
	f.closed = true
	return nil
}

type fakeBackend struct {
	seen Descriptor
}

func (b *fakeBackend) NewTagger(d Descriptor) (core.Tagger, error) {
	b.seen = d
	return &fakeTagger{}, nil
}

func (b *fakeBackend) NewConParser(Descriptor) (core.ConParser, error) {
	return nil, errors.New("conparser not supported")
}

func (b *fakeBackend) NewDepParser(Descriptor) (core.DepParser, error) {
	return nil, core.ErrInvalidModel
}

func writeModel(t *testing.T, dir string, kind core.ModelKind, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, kind.FileName()), []byte(content), 0o600))
}

func TestParseDescriptor(t *testing.T) {
	d, err := ParseDescriptor([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, d.Backend)

	d, err = ParseDescriptor([]byte("backend: anthropic\nmodel: m1\nmax_tokens: 256\ntemperature: 0\nrequests_per_second: 1.5\n"))
	require.NoError(t, err)
	assert.Equal(t, "anthropic", d.Backend)
	assert.Equal(t, "m1", d.Model)
	assert.EqualValues(t, 256, d.MaxTokens)
	require.NotNil(t, d.Temperature)
	assert.Zero(t, *d.Temperature)
	assert.InDelta(t, 1.5, d.RequestsPerSecond, 1e-9)

	_, err = ParseDescriptor([]byte("backend: lexicon\nunknown_field: 1\n"))
	assert.ErrorIs(t, err, core.ErrInvalidModel)
}

func TestDescriptor_APIKey(t *testing.T) {
	t.Setenv("PARSEKIT_TEST_KEY", "secret")
	t.Setenv("PARSEKIT_FALLBACK_KEY", "fallback")

	assert.Equal(t, "secret", Descriptor{APIKeyEnv: "PARSEKIT_TEST_KEY"}.APIKey("PARSEKIT_FALLBACK_KEY"))
	assert.Equal(t, "fallback", Descriptor{}.APIKey("PARSEKIT_FALLBACK_KEY"))
	assert.Empty(t, Descriptor{}.APIKey(""))
}

func TestReadDescriptor_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadDescriptor(dir, core.KindTagger)
	require.ErrorIs(t, err, core.ErrModelFileNotFound)

	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, core.KindTagger, le.Kind)
	assert.Equal(t, filepath.Join(dir, "tagger"), le.Path)
}

func TestRegistry_Dispatch(t *testing.T) {
	dir := t.TempDir()
	writeModel(t, dir, core.KindTagger, "backend: fake\nlexicon:\n  dog: NN\n")

	fb := &fakeBackend{}
	reg := NewRegistry()
	reg.Register("fake", fb)
	assert.Equal(t, []string{"fake"}, reg.Backends())

	tg, err := reg.LoadTagger(dir)
	require.NoError(t, err)
	require.NotNil(t, tg)
	assert.Equal(t, core.KindTagger, fb.seen.Kind)
	assert.Equal(t, "NN", fb.seen.Lexicon["dog"])
}

func TestRegistry_Errors(t *testing.T) {
	dir := t.TempDir()
	reg := NewRegistry()
	reg.Register("fake", &fakeBackend{})

	_, err := reg.LoadTagger(dir)
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)

	writeModel(t, dir, core.KindTagger, "backend: nope\n")
	_, err = reg.LoadTagger(dir)
	assert.ErrorIs(t, err, core.ErrUnknownBackend)

	writeModel(t, dir, core.KindDepParser, "backend: fake\n")
	_, err = reg.LoadDepParser(dir)
	assert.ErrorIs(t, err, core.ErrInvalidModel)

	writeModel(t, dir, core.KindConParser, "backend: fake\n")
	_, err = reg.LoadConParser(dir)
	var le *core.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, core.KindConParser, le.Kind)
}

func TestStaticLoader(t *testing.T) {
	ft := &fakeTagger{}
	l := &StaticLoader{Tagger: ft}

	tg, err := l.LoadTagger("/anywhere")
	require.NoError(t, err)
	assert.Same(t, ft, tg)

	_, err = l.LoadConParser("/anywhere")
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)
	_, err = l.LoadDepParser("/anywhere")
	assert.ErrorIs(t, err, core.ErrModelFileNotFound)
}

func TestRelease(t *testing.T) {
	ft := &fakeTagger{}
	require.NoError(t, Release(ft))
	assert.True(t, ft.closed)
	assert.NoError(t, Release(struct{}{}))
	assert.NoError(t, Release(nil))
}
