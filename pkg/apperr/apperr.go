package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure by where it originated.
type Kind int

const (
	// Internal is the zero Kind and is reported for errors that were never classified.
	Internal Kind = iota
	// Config covers bad profiles, unknown profile names and malformed connection strings.
	Config
	// Connection covers failures opening or pinging a server.
	Connection
	// Query covers failures running or scanning a catalog query.
	Query
	// IO covers failures writing output files.
	IO
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Connection:
		return "connection"
	case Query:
		return "query"
	case IO:
		return "io"
	default:
		return "internal"
	}
}

// Error is an error tagged with a Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	case e.Msg == "":
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Msg, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Cause allows errors.Cause to see through the kind wrapper.
func (e *Error) Cause() error { return e.Err }

// New returns a new error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is like New with a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind and an optional message. Wrap returns nil when err is nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Wrapf is like Wrap with a format string.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the outermost Kind found in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
