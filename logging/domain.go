package logging

import "time"

// LogModelLoad records the outcome of loading one model file.
func LogModelLoad(l Logger, kind, path string, dur time.Duration, err error) {
	if err != nil {
		l.Error("Model load failed", "kind", kind, "path", path, "duration", dur, "error", err.Error())
		return
	}
	l.Info("Model loaded", "kind", kind, "path", path, "duration", dur)
}

// LogAnnotation records a single-sentence annotation call at debug level.
// Failures are logged at error level.
func LogAnnotation(l Logger, op string, tokens int, dur time.Duration, err error) {
	if err != nil {
		l.Error("Annotation failed", "operation", op, "tokens", tokens, "duration", dur, "error", err.Error())
		return
	}
	l.Debug("Annotation completed", "operation", op, "tokens", tokens, "duration", dur)
}

// LogSentenceSkipped records a sentence dropped by the length guard.
func LogSentenceSkipped(l Logger, op string, tokens, limit int) {
	l.Warn("Sentence exceeds length limit, skipping", "operation", op, "tokens", tokens, "limit", limit)
}

// LogBatch records aggregate metrics of a file run.
func LogBatch(l Logger, op, input, output string, sentences, skipped, failures int, dur time.Duration, err error) {
	args := []any{
		"operation", op,
		"input", input,
		"output", output,
		"sentences", sentences,
		"skipped", skipped,
		"failures", failures,
		"duration", dur,
	}
	if err != nil {
		l.Error("Batch run failed", append(args, "error", err.Error())...)
		return
	}
	l.Info("Batch run completed", args...)
}
