package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/parsekit/core"
)

// DefaultBackend is used when a descriptor leaves the backend empty.
const DefaultBackend = "lexicon"

// Descriptor is the decoded content of a model file.
type Descriptor struct {
	Backend string `yaml:"backend"`

	// Lexicon backend settings.
	Lexicon    map[string]string `yaml:"lexicon,omitempty"`
	DefaultTag string            `yaml:"default_tag,omitempty"`

	// Provider backend settings.
	Model             string   `yaml:"model,omitempty"`
	APIKeyEnv         string   `yaml:"api_key_env,omitempty"`
	BaseURL           string   `yaml:"base_url,omitempty"`
	MaxTokens         int64    `yaml:"max_tokens,omitempty"`
	Temperature       *float64 `yaml:"temperature,omitempty"`
	RequestsPerSecond float64  `yaml:"requests_per_second,omitempty"`

	// Kind and Path are filled in by ReadDescriptor.
	Kind core.ModelKind `yaml:"-"`
	Path string         `yaml:"-"`
}

// APIKey resolves the provider key from the configured environment variable,
// falling back to fallbackEnv.
func (d Descriptor) APIKey(fallbackEnv string) string {
	env := d.APIKeyEnv
	if env == "" {
		env = fallbackEnv
	}
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// ModelPath returns the location of the model file for kind under dir.
func ModelPath(dir string, kind core.ModelKind) string {
	return filepath.Join(dir, kind.FileName())
}

// ReadDescriptor reads the model file for kind under dir. A missing file
// yields a *core.LoadError wrapping core.ErrModelFileNotFound.
func ReadDescriptor(dir string, kind core.ModelKind) (Descriptor, error) {
	path := ModelPath(dir, kind)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Descriptor{}, &core.LoadError{Kind: kind, Path: path, Err: core.ErrModelFileNotFound}
		}
		return Descriptor{}, &core.LoadError{Kind: kind, Path: path, Err: err}
	}
	if info.IsDir() {
		return Descriptor{}, &core.LoadError{Kind: kind, Path: path, Err: fmt.Errorf("%w: is a directory", core.ErrModelFileNotFound)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, &core.LoadError{Kind: kind, Path: path, Err: err}
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return Descriptor{}, &core.LoadError{Kind: kind, Path: path, Err: err}
	}
	d.Kind = kind
	d.Path = path
	return d, nil
}

// ParseDescriptor decodes descriptor YAML. Unknown keys are rejected.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Descriptor{}, fmt.Errorf("%w: %v", core.ErrInvalidModel, err)
	}
	if d.Backend == "" {
		d.Backend = DefaultBackend
	}
	return d, nil
}
