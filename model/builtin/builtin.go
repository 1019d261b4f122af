// Package builtin assembles a model.Registry with every backend shipped with
// parsekit: lexicon (the default), anthropic and openai.
package builtin

import (
	"github.com/hupe1980/parsekit/logging"
	"github.com/hupe1980/parsekit/model"
	"github.com/hupe1980/parsekit/model/anthropic"
	"github.com/hupe1980/parsekit/model/lexicon"
	"github.com/hupe1980/parsekit/model/openai"
)

// NewRegistry returns a registry with the bundled backends registered.
func NewRegistry(optFns ...func(o *model.RegistryOptions)) *model.Registry {
	opts := model.RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	reg := model.NewRegistry(func(o *model.RegistryOptions) { *o = opts })
	reg.Register(lexicon.Name, lexicon.NewBackend())
	reg.Register(anthropic.Name, anthropic.NewBackend(func(o *anthropic.BackendOptions) { o.Logger = opts.Logger }))
	reg.Register(openai.Name, openai.NewBackend(func(o *openai.BackendOptions) { o.Logger = opts.Logger }))
	return reg
}
