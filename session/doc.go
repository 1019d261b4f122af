// Package session holds the stateful side of parsekit. A Session owns one
// ModelStore (tagger, constituency parser, dependency parser) and one output
// slot that every single-sentence call overwrites. Sessions share nothing, so
// several may be open on the same model directory at once.
//
// InMemoryRegistry maps opaque handles to sessions for boundary surfaces such
// as the HTTP server.
package session
