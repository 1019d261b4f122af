package core

import (
	"errors"
	"fmt"
)

var (
	// ErrModelFileNotFound is returned when a model file is absent at the
	// expected path under the model directory.
	ErrModelFileNotFound = errors.New("model file not found")

	// ErrModelNotLoaded is returned when an operation runs before its
	// prerequisite model was loaded into the session.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrSentenceTooLong is returned for sentences at or beyond the length
	// ceiling when the guard policy asks for an explicit error.
	ErrSentenceTooLong = errors.New("sentence too long")

	// ErrOutputDestinationUnavailable is returned when a batch output file
	// cannot be created.
	ErrOutputDestinationUnavailable = errors.New("output destination unavailable")

	// ErrInputUnavailable is returned when a batch input file cannot be opened.
	ErrInputUnavailable = errors.New("input source unavailable")

	// ErrSessionClosed is returned by every session operation after Unload.
	ErrSessionClosed = errors.New("session closed")

	// ErrUnknownBackend is returned when a model file names a backend that is
	// not registered.
	ErrUnknownBackend = errors.New("unknown model backend")

	// ErrInvalidModel is returned when a model file cannot be decoded.
	ErrInvalidModel = errors.New("invalid model file")

	// ErrModelOutput is returned when a model result does not line up with
	// the sentence it was given.
	ErrModelOutput = errors.New("model output does not match input")
)

// LoadError describes a failed model load.
type LoadError struct {
	Kind ModelKind // Model role being loaded
	Path string    // Full path of the model file
	Err  error     // Underlying cause
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s model from %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// NotLoaded wraps ErrModelNotLoaded with the missing kind.
func NotLoaded(kind ModelKind) error {
	return fmt.Errorf("%w: %s", ErrModelNotLoaded, kind)
}
