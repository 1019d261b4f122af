package model

import "github.com/hupe1980/parsekit/core"

// StaticLoader is a Loader handing out pre-built models regardless of the
// directory. A nil field reports the model file as missing.
type StaticLoader struct {
	Tagger    core.Tagger
	ConParser core.ConParser
	DepParser core.DepParser
}

func missing(dir string, kind core.ModelKind) error {
	return &core.LoadError{Kind: kind, Path: ModelPath(dir, kind), Err: core.ErrModelFileNotFound}
}

// LoadTagger implements Loader.
func (l *StaticLoader) LoadTagger(dir string) (core.Tagger, error) {
	if l.Tagger == nil {
		return nil, missing(dir, core.KindTagger)
	}
	return l.Tagger, nil
}

// LoadConParser implements Loader.
func (l *StaticLoader) LoadConParser(dir string) (core.ConParser, error) {
	if l.ConParser == nil {
		return nil, missing(dir, core.KindConParser)
	}
	return l.ConParser, nil
}

// LoadDepParser implements Loader.
func (l *StaticLoader) LoadDepParser(dir string) (core.DepParser, error) {
	if l.DepParser == nil {
		return nil, missing(dir, core.KindDepParser)
	}
	return l.DepParser, nil
}

var _ Loader = (*StaticLoader)(nil)
