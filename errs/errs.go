// Package errs defines the error taxonomy shared by every vtx package.
//
// Errors returned across package boundaries are either a *Error carrying one
// of the Kind values below or, where an encoding declines an operation, the
// bare ErrNotImplemented sentinel. Kinds are matched with errors.Is against
// the package-level sentinels (ErrOutOfBounds, ErrInvalidArgument, ...);
// callers that need the underlying cause use errors.Unwrap or errors.As.
package errs

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Kind classifies an error into one of the categories used throughout vtx.
type Kind int

const (
	// KindOutOfBounds indicates an index, offset, or range fell outside the
	// valid domain of an array, buffer, or segment.
	KindOutOfBounds Kind = iota
	// KindInvalidArgument indicates a caller passed a malformed or
	// inconsistent argument (mismatched lengths, nil required fields, ...).
	KindInvalidArgument
	// KindInvalidSerde indicates malformed on-disk or wire data: bad magic,
	// truncated frame, checksum mismatch, unknown version.
	KindInvalidSerde
	// KindMismatchedTypes indicates an operation was attempted between
	// incompatible DTypes or encodings.
	KindMismatchedTypes
	// KindNotImplemented indicates a valid operation for which no
	// implementation exists (e.g. a compute hook an encoding doesn't serve).
	KindNotImplemented
	// KindAssertionFailed indicates an internal invariant was violated; this
	// should never happen in correct code and signals a bug.
	KindAssertionFailed
	// KindIO wraps an underlying I/O failure (short read, disk error, ...).
	KindIO
	// KindComputeError indicates a compute kernel failed for a reason other
	// than a type mismatch (overflow, division by zero, ...).
	KindComputeError
)

func (k Kind) String() string {
	switch k {
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidSerde:
		return "invalid_serde"
	case KindMismatchedTypes:
		return "mismatched_types"
	case KindNotImplemented:
		return "not_implemented"
	case KindAssertionFailed:
		return "assertion_failed"
	case KindIO:
		return "io"
	case KindComputeError:
		return "compute_error"
	default:
		return "unknown"
	}
}

// panicOnErr mirrors the environment-gated behavior the original
// implementation exposes for debugging: when set, New captures and panics
// instead of returning, so a debugger lands at the error's origin.
var panicOnErr = os.Getenv("VTX_PANIC_ON_ERR") != ""

// Error is the concrete error type returned by every vtx package. It carries
// a Kind, a chain of human-readable context frames, an optional wrapped
// cause, and (when VTX_PANIC_ON_ERR is set) a captured stack trace.
type Error struct {
	Kind    Kind
	Context []string
	Cause   error
	Stack   string
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	e := &Error{Kind: kind, Context: []string{fmt.Sprintf(format, args...)}}
	e.maybeCapture()

	return e
}

// Wrap attaches kind and a message to an existing cause, preserving it in
// the unwrap chain.
func Wrap(cause error, kind Kind, format string, args ...any) *Error {
	e := &Error{Kind: kind, Context: []string{fmt.Sprintf(format, args...)}, Cause: cause}
	e.maybeCapture()

	return e
}

func (e *Error) maybeCapture() {
	if !panicOnErr {
		return
	}

	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	e.Stack = string(buf[:n])

	panic(e)
}

// WithContext returns a copy of e with an additional context frame appended,
// innermost-first. Used to annotate an error as it propagates up through
// layout/segment/scan boundaries without losing the original Kind or Cause.
func (e *Error) WithContext(format string, args ...any) *Error {
	ctx := make([]string, 0, len(e.Context)+1)
	ctx = append(ctx, e.Context...)
	ctx = append(ctx, fmt.Sprintf(format, args...))

	return &Error{Kind: e.Kind, Context: ctx, Cause: e.Cause, Stack: e.Stack}
}

func (e *Error) Error() string {
	var b strings.Builder
	for i := len(e.Context) - 1; i >= 0; i-- {
		b.WriteString(e.Context[i])
		if i > 0 {
			b.WriteString(": ")
		}
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is against the sentinel values below by comparing
// Kind, so callers can write errors.Is(err, errs.ErrOutOfBounds) regardless
// of how many context frames were layered on.
func (e *Error) Is(target error) bool {
	sentinel, ok := target.(*sentinel)
	if !ok {
		return false
	}

	return e.Kind == sentinel.kind
}

type sentinel struct{ kind Kind }

func (s *sentinel) Error() string { return s.kind.String() }

// Sentinel kinds, matched via errors.Is(err, errs.ErrXxx).
var (
	ErrOutOfBounds      = &sentinel{KindOutOfBounds}
	ErrInvalidArgument  = &sentinel{KindInvalidArgument}
	ErrInvalidSerde     = &sentinel{KindInvalidSerde}
	ErrMismatchedTypes  = &sentinel{KindMismatchedTypes}
	ErrNotImplemented   = &sentinel{KindNotImplemented}
	ErrAssertionFailed  = &sentinel{KindAssertionFailed}
	ErrIO               = &sentinel{KindIO}
	ErrComputeError     = &sentinel{KindComputeError}
)

// Is reports whether err's Kind matches one of the sentinels above,
// regardless of how it was constructed (New, Wrap, or a third party error
// wrapped with fmt.Errorf("%w", ...)).
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	var s *sentinel
	if errors.As(err, &s) {
		return s.kind == kind
	}

	return false
}
