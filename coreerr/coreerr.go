// Package coreerr defines the core's error kinds: IndexLoadError,
// InvariantViolation, and a debug-only OutOfRange check. It sits below
// every other package (rlbwt, rindex, threshold, oracle, docarray, pml,
// ms) so each can raise a classified error without importing the facade
// package, which in turn reports them to callers as structured values
// rather than raw I/O errors.
package coreerr

import "github.com/pkg/errors"

// Kind classifies a core error.
type Kind int

const (
	// IndexLoad marks a truncated, mis-sized, or malformed on-disk file.
	IndexLoad Kind = iota
	// Invariant marks a structural invariant violated by a loaded index
	// (non-monotone F, missing/duplicate terminator, out-of-range
	// thresholds).
	Invariant
)

func (k Kind) String() string {
	switch k {
	case IndexLoad:
		return "IndexLoadError"
	case Invariant:
		return "InvariantViolation"
	default:
		return "UnknownError"
	}
}

// Error is the structured error value returned by the core at load time.
// Query-time execution on a successfully loaded index returns one only
// when a document-tagged query is made without a loaded document array.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

// Load wraps err as an IndexLoadError, annotated with context (typically
// the offending filename or stream).
func Load(err error, context string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: IndexLoad, err: errors.Wrap(err, context)}
}

// Loadf builds a fresh IndexLoadError from a format string.
func Loadf(format string, args ...interface{}) error {
	return &Error{Kind: IndexLoad, err: errors.Errorf(format, args...)}
}

// Invariantf builds a fresh InvariantViolation error from a format string.
func Invariantf(format string, args ...interface{}) error {
	return &Error{Kind: Invariant, err: errors.Errorf(format, args...)}
}

// Debug gates OutOfRange checks: off by default, flip it on in tests or
// debug builds to get checked panics instead of undefined behavior on
// out-of-domain rank/select arguments.
var Debug = false

// CheckRange panics with an OutOfRange message when Debug is enabled and
// cond is false. In release builds (Debug == false) it is a no-op: the
// engines never invoke out-of-range operations on a well-formed index, so
// the check only exists to catch bugs during development.
func CheckRange(cond bool, format string, args ...interface{}) {
	if !Debug || cond {
		return
	}
	panic("coreerr: OutOfRange: " + errors.Errorf(format, args...).Error())
}
