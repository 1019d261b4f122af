// Package core provides the foundational domain types, model contracts and
// sentinel errors used by parsekit. It defines the core abstractions for:
//
//   - Sentences (token sequences) and their annotations (tagged sentences,
//     constituency trees, dependency parses)
//   - Models (tagger, constituency parser, dependency parser) as small
//     interfaces so concrete algorithms stay pluggable and mockable
//   - The sentence length guard and its policy
//
// The package intentionally keeps implementation concerns (model loading,
// tokenization, session lifecycle, formatting) out of scope, exposing small
// interfaces that the session and pipeline packages compose.
package core
