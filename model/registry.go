package model

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/logging"
)

// Backend constructs models from descriptors. A backend may return
// core.ErrInvalidModel for kinds it does not support.
type Backend interface {
	NewTagger(d Descriptor) (core.Tagger, error)
	NewConParser(d Descriptor) (core.ConParser, error)
	NewDepParser(d Descriptor) (core.DepParser, error)
}

// Loader resolves model directories into loaded models.
type Loader interface {
	LoadTagger(dir string) (core.Tagger, error)
	LoadConParser(dir string) (core.ConParser, error)
	LoadDepParser(dir string) (core.DepParser, error)
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry is a Loader dispatching on the descriptor's backend name.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	logger   logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{backends: map[string]Backend{}, logger: opts.Logger}
}

// Register adds or replaces a backend under name.
func (r *Registry) Register(name string, b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = b
}

// Backends returns the registered backend names in sorted order.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for n := range r.backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) resolve(dir string, kind core.ModelKind) (Backend, Descriptor, error) {
	d, err := ReadDescriptor(dir, kind)
	if err != nil {
		return nil, Descriptor{}, err
	}
	r.mu.RLock()
	b, ok := r.backends[d.Backend]
	r.mu.RUnlock()
	if !ok {
		return nil, d, &core.LoadError{Kind: kind, Path: d.Path, Err: fmt.Errorf("%w: %q", core.ErrUnknownBackend, d.Backend)}
	}
	return b, d, nil
}

func load[T any](r *Registry, dir string, kind core.ModelKind, build func(Backend, Descriptor) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	b, d, err := r.resolve(dir, kind)
	if err == nil {
		var m T
		if m, err = build(b, d); err == nil {
			logging.LogModelLoad(r.logger, string(kind), d.Path, time.Since(start), nil)
			return m, nil
		}
		err = &core.LoadError{Kind: kind, Path: d.Path, Err: err}
	}
	logging.LogModelLoad(r.logger, string(kind), ModelPath(dir, kind), time.Since(start), err)
	return zero, err
}

// LoadTagger implements Loader.
func (r *Registry) LoadTagger(dir string) (core.Tagger, error) {
	return load(r, dir, core.KindTagger, func(b Backend, d Descriptor) (core.Tagger, error) { return b.NewTagger(d) })
}

// LoadConParser implements Loader.
func (r *Registry) LoadConParser(dir string) (core.ConParser, error) {
	return load(r, dir, core.KindConParser, func(b Backend, d Descriptor) (core.ConParser, error) { return b.NewConParser(d) })
}

// LoadDepParser implements Loader.
func (r *Registry) LoadDepParser(dir string) (core.DepParser, error) {
	return load(r, dir, core.KindDepParser, func(b Backend, d Descriptor) (core.DepParser, error) { return b.NewDepParser(d) })
}

// Release closes m when it holds resources.
func Release(m any) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var _ Loader = (*Registry)(nil)
