// Package model loads taggers and parsers from a model directory.
//
// A model directory holds up to three files named after the model kinds:
//
//	{dir}/tagger
//	{dir}/conparser
//	{dir}/depparser
//
// Each file is a YAML Descriptor naming the backend that implements it plus
// backend specific settings. An empty file selects the built-in lexicon
// backend with its defaults:
//
//	backend: anthropic
//	model: claude-3-5-haiku-latest
//	api_key_env: ANTHROPIC_API_KEY
//	requests_per_second: 2
//
// Backends are looked up in a Registry so hosts can plug their own
// implementations next to the bundled ones (see model/builtin):
//
//	reg := builtin.NewRegistry()
//	reg.Register("onnx", myBackend)
//	sess := parsekit.Initialize(parsekit.WithLoader(reg))
//
// StaticLoader hands out pre-built models and is handy for tests and for
// embedding models that are not backed by files.
package model
