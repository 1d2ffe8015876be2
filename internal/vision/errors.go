package vision

import (
	"errors"
	"fmt"
)

// ErrModelNotReady is returned by classification calls while no model handle
// is present (still loading, or the load failed).
var ErrModelNotReady = errors.New("model not ready")

// ErrSuperseded marks a classification whose result was discarded because a
// newer upload replaced the session's image.
var ErrSuperseded = errors.New("classification superseded by a newer upload")

// ErrAlreadyLoading is returned by Start when a load is already underway or done.
var ErrAlreadyLoading = errors.New("model load already started")

// IsModelNotReady reports whether err indicates the model is unavailable (return 503).
func IsModelNotReady(err error) bool { return errors.Is(err, ErrModelNotReady) }

// IsSuperseded reports whether err indicates a stale classification.
func IsSuperseded(err error) bool { return errors.Is(err, ErrSuperseded) }

// decodeError signals that the uploaded bytes could not be turned into an image.
type decodeError struct{ err error }

func (e decodeError) Error() string { return "decode image: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

// IsDecode reports whether err stems from a malformed or unsupported image (return 422).
func IsDecode(err error) bool {
	var de decodeError
	return errors.As(err, &de)
}

// sessionNotFoundError is returned when a session id is unknown or expired.
type sessionNotFoundError struct{ id string }

func (e sessionNotFoundError) Error() string { return "session not found: " + e.id }

// IsSessionNotFound reports whether err indicates a missing session.
func IsSessionNotFound(err error) bool {
	var se sessionNotFoundError
	return errors.As(err, &se)
}

// runtimePanicError wraps a panic recovered from the runtime.
type runtimePanicError struct{ v any }

func (e runtimePanicError) Error() string { return fmt.Sprintf("runtime panic: %v", e.v) }
