// Package logging is the structured logging layer of parsekit.
//
// Code logs through the small Logger interface. ParseKitLogger is the
// implementation built by the CLI and server from configuration; it writes
// slog JSON or text records and carries a component and session id:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	sess := parsekit.Initialize(parsekit.WithLogger(logger))
//
// Hosts with their own logger wrap it with NewSlogAdapter or NewZapAdapter.
// NoOpLogger is the default when none is given.
//
// LogModelLoad, LogAnnotation, LogSentenceSkipped and LogBatch give the
// domain records one shape regardless of caller.
package logging
