// Package forkfs implements the sandbox lifecycle manager: creating,
// mounting, entering, and tearing down per-name copy-on-write overlays of
// the host filesystem.
package forkfs

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories used to pick an exit code and,
// in the SetupRequired case, to decide whether to print onboarding help.
type Kind int

const (
	// KindIO covers filesystem and kernel syscall failures that aren't
	// otherwise classified.
	KindIO Kind = iota + 1
	// KindInvalidArgument covers malformed input that the caller controls
	// (bad session names, path strings that can't be passed to the kernel).
	KindInvalidArgument
	// KindSessionNotFound covers operations against a sandbox name that
	// does not exist on disk.
	KindSessionNotFound
	// KindSetupRequired covers the privilege gate failing outright.
	KindSetupRequired
)

// String renders the kind for diagnostics; it is not used for exit-code
// selection (see ExitCode).
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidArgument:
		return "invalid argument"
	case KindSessionNotFound:
		return "session not found"
	case KindSetupRequired:
		return "setup required"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and a chain of human-readable
// context, in the same spirit as the plain fmt.Errorf wrapping used
// throughout this codebase, but additionally carrying enough structure to
// pick a process exit code at the top level.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Context
	}

	return fmt.Sprintf("%s: %s", e.Context, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Sentinel errors, one per Kind, so callers can write errors.Is(err,
// ErrSessionNotFound) instead of comparing ErrorKind(err) against a
// constant. They carry no information of their own; *Error.Is maps them to
// the Kind they name.
var (
	ErrIO              = errors.New("io error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrSessionNotFound = errors.New("session not found")
	ErrSetupRequired   = errors.New("setup required")
)

// Is implements the errors.Is contract: *Error reports a match against
// whichever sentinel names its Kind, regardless of Context or Cause.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrSessionNotFound:
		return e.Kind == KindSessionNotFound
	case ErrSetupRequired:
		return e.Kind == KindSetupRequired
	default:
		return false
	}
}

// wrap builds a new *Error of the given kind, attaching context. If cause is
// already a *Error, its Kind is preserved unless kind is explicitly not
// KindIO (KindIO is treated as "unclassified, inherit from cause").
func wrap(kind Kind, cause error, context string) error {
	if cause == nil {
		return &Error{Kind: kind, Context: context}
	}

	var existing *Error
	if errors.As(cause, &existing) && kind == KindIO {
		kind = existing.Kind
	}

	return &Error{Kind: kind, Context: context, Cause: cause}
}

// ioErr wraps cause as a KindIO error with the given context, unless cause
// is nil in which case it returns nil.
func ioErr(cause error, context string) error {
	if cause == nil {
		return nil
	}

	return wrap(KindIO, cause, context)
}

func invalidArgErr(cause error, context string) error {
	if cause == nil {
		return nil
	}

	return wrap(KindInvalidArgument, cause, context)
}

func sessionNotFoundErr(context string) error {
	return wrap(KindSessionNotFound, nil, context)
}

func setupRequiredErr(context string) error {
	return wrap(KindSetupRequired, nil, context)
}

// ErrorKind extracts the Kind from err, defaulting to KindIO for errors that
// were never classified (e.g. a bare error from a library this package
// doesn't control).
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindIO
}

// ExitCode maps an error's Kind to a process exit code, loosely following
// the BSD sysexits.h conventions: EX_IOERR=74, EX_CONFIG=78, EX_USAGE=64.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch ErrorKind(err) {
	case KindIO:
		return 74
	case KindSetupRequired:
		return 78
	case KindInvalidArgument:
		return 64
	case KindSessionNotFound:
		return 74
	default:
		return 1
	}
}
