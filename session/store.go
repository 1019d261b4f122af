package session

import (
	"errors"
	"reflect"
	"sync"

	"github.com/hupe1980/parsekit/core"
	"github.com/hupe1980/parsekit/model"
	"github.com/hupe1980/parsekit/pipeline"
)

// ModelStore owns the models of one session. A parser is never held without
// a tagger: loading a parser first loads the tagger from the same directory
// when none is present.
type ModelStore struct {
	mu     sync.RWMutex
	loader model.Loader
	tagger core.Tagger
	con    core.ConParser
	dep    core.DepParser
}

// NewModelStore creates an empty store loading through loader.
func NewModelStore(loader model.Loader) *ModelStore {
	return &ModelStore{loader: loader}
}

// LoadTagger loads {dir}/tagger, replacing and releasing any previous tagger.
// On failure the previous tagger stays in place.
func (s *ModelStore) LoadTagger(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTaggerLocked(dir)
}

func (s *ModelStore) loadTaggerLocked(dir string) error {
	t, err := s.loader.LoadTagger(dir)
	if err != nil {
		return err
	}
	old := s.tagger
	s.tagger = t
	return replaced(old, t)
}

// LoadConParser loads {dir}/conparser, loading the tagger first if absent.
func (s *ModelStore) LoadConParser(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tagger == nil {
		if err := s.loadTaggerLocked(dir); err != nil {
			return err
		}
	}
	p, err := s.loader.LoadConParser(dir)
	if err != nil {
		return err
	}
	old := s.con
	s.con = p
	return replaced(old, p)
}

// LoadDepParser loads {dir}/depparser, loading the tagger first if absent.
func (s *ModelStore) LoadDepParser(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tagger == nil {
		if err := s.loadTaggerLocked(dir); err != nil {
			return err
		}
	}
	p, err := s.loader.LoadDepParser(dir)
	if err != nil {
		return err
	}
	old := s.dep
	s.dep = p
	return replaced(old, p)
}

// Models returns the loaded models for a pipeline run.
func (s *ModelStore) Models() pipeline.Models {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pipeline.Models{Tagger: s.tagger, ConParser: s.con, DepParser: s.dep}
}

// Loaded lists the loaded model kinds in load order.
func (s *ModelStore) Loaded() []core.ModelKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var kinds []core.ModelKind
	if s.tagger != nil {
		kinds = append(kinds, core.KindTagger)
	}
	if s.con != nil {
		kinds = append(kinds, core.KindConParser)
	}
	if s.dep != nil {
		kinds = append(kinds, core.KindDepParser)
	}
	return kinds
}

// Release drops every model, closing those that hold resources.
func (s *ModelStore) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := errors.Join(model.Release(s.dep), model.Release(s.con), model.Release(s.tagger))
	s.tagger, s.con, s.dep = nil, nil, nil
	return err
}

// replaced releases old unless the loader handed back the same instance.
func replaced(old, cur any) error {
	if old == nil || sameInstance(old, cur) {
		return nil
	}
	return model.Release(old)
}

func sameInstance(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	return va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer && va.Pointer() == vb.Pointer()
}
