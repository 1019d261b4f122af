package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/parsekit/core"
)

// ModelDirBuilder writes a model directory with fluent chaining for tests.
// Example:
//
//	dir := NewModelDir(t).Tagger("").DepParser("backend: lexicon").Build()
//
// Kinds without a call are left out so loading them fails with
// core.ErrModelFileNotFound.
type ModelDirBuilder struct {
	t     testing.TB
	files map[core.ModelKind]string
}

// NewModelDir creates a builder writing into a fresh t.TempDir().
func NewModelDir(t testing.TB) *ModelDirBuilder {
	return &ModelDirBuilder{t: t, files: map[core.ModelKind]string{}}
}

// Tagger sets the tagger descriptor content (chainable).
func (b *ModelDirBuilder) Tagger(content string) *ModelDirBuilder {
	b.files[core.KindTagger] = content
	return b
}

// ConParser sets the constituency parser descriptor content (chainable).
func (b *ModelDirBuilder) ConParser(content string) *ModelDirBuilder {
	b.files[core.KindConParser] = content
	return b
}

// DepParser sets the dependency parser descriptor content (chainable).
func (b *ModelDirBuilder) DepParser(content string) *ModelDirBuilder {
	b.files[core.KindDepParser] = content
	return b
}

// All writes empty descriptors (lexicon backend) for every kind (chainable).
func (b *ModelDirBuilder) All() *ModelDirBuilder {
	for _, k := range core.Kinds {
		b.files[k] = ""
	}
	return b
}

// Build writes the files and returns the directory path.
func (b *ModelDirBuilder) Build() string {
	b.t.Helper()
	dir := b.t.TempDir()
	for kind, content := range b.files {
		if err := os.WriteFile(filepath.Join(dir, kind.FileName()), []byte(content), 0o600); err != nil {
			b.t.Fatalf("write %s model: %v", kind, err)
		}
	}
	return dir
}

// LexiconModelDir returns a directory with lexicon descriptors for every kind.
func LexiconModelDir(t testing.TB) string {
	t.Helper()
	return NewModelDir(t).All().Build()
}

// WriteLines writes lines joined by "\n" (with a trailing newline) to a file
// under a fresh temp dir and returns its path.
func WriteLines(t testing.TB, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
