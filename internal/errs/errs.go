// Package errs defines the failure kinds shared by the clone, shim, launch
// and sync operations.
package errs

import (
	"errors"
	"fmt"
)

// Failure kinds. Match with errors.Is.
var (
	// ErrPathPolicy: a destination nested in the source application, or a
	// destructive target outside the managed root. Never auto-corrected.
	ErrPathPolicy = errors.New("path policy violation")
	// ErrNotFound: missing source application, slot directory or backup.
	ErrNotFound = errors.New("not found")
	// ErrIOFailure: copy, move or delete failed part-way.
	ErrIOFailure = errors.New("i/o failure")
	// ErrMalformedState: an owned document could not be parsed.
	ErrMalformedState = errors.New("malformed state")
)

// Error carries the operation and path a failure belongs to.
type Error struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// PathPolicy builds an ErrPathPolicy failure with a human-readable reason.
func PathPolicy(op, path, format string, args ...any) error {
	return &Error{Kind: ErrPathPolicy, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// NotFound builds an ErrNotFound failure.
func NotFound(op, path string, err error) error {
	return &Error{Kind: ErrNotFound, Op: op, Path: path, Err: err}
}

// IO wraps an I/O error as ErrIOFailure.
func IO(op, path string, err error) error {
	return &Error{Kind: ErrIOFailure, Op: op, Path: path, Err: err}
}

// Malformed wraps a parse error as ErrMalformedState.
func Malformed(op, path string, err error) error {
	return &Error{Kind: ErrMalformedState, Op: op, Path: path, Err: err}
}
