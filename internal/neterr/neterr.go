// Package neterr defines the small set of error kinds the netcode core
// propagates to its callers. Everything else — malformed packets, unknown
// peers, challenge mismatches, missing baselines, late or duplicate inputs —
// is recoverable and never returned as an error; it is counted and logged
// instead (see internal/obs).
package neterr

import "fmt"

// Kind enumerates the fatal-to-the-caller error categories.
type Kind int

const (
	// InvalidParam marks a configuration value out of its allowed range.
	InvalidParam Kind = iota
	// InitFailed marks a session that could not be constructed.
	InitFailed
	// Socket marks a transport bind/create failure.
	Socket
	// Full marks an operation that needed a free resource slot and found none.
	Full
	// NotFound marks a lookup against a resource that doesn't exist.
	NotFound
	// Truncated marks a bit-decoder overflow encountered while parsing a message.
	Truncated
)

func (k Kind) String() string {
	switch k {
	case InvalidParam:
		return "invalid_param"
	case InitFailed:
		return "init_failed"
	case Socket:
		return "socket"
	case Full:
		return "full"
	case NotFound:
		return "not_found"
	case Truncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with the operation that produced it and an optional
// underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no underlying cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap builds an *Error carrying an underlying cause.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
