// Package fault defines the error kinds reported by conversions.
package fault

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against any *Error of the same kind.
var (
	ErrIO     = errors.New("i/o error")
	ErrFormat = errors.New("format error")
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindIO covers open, read, write and compression failures.
	KindIO Kind = iota
	// KindFormat covers malformed or mismatched input.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error carries the kind, the stage that failed and the file involved.
type Error struct {
	Kind Kind
	Op   string // stage, e.g. "read", "parse text", "load string table"
	Path string // may be empty for in-memory data
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrFormat:
		return e.Kind == KindFormat
	}
	return false
}

// IO wraps err as an I/O failure of op on path.
func IO(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// Format reports malformed input.
func Format(op, path string, err error) error {
	return &Error{Kind: KindFormat, Op: op, Path: path, Err: err}
}

// Formatf is Format with a formatted reason.
func Formatf(op, path, format string, args ...any) error {
	return Format(op, path, fmt.Errorf(format, args...))
}

// WithPath fills in the path of a path-less *Error, leaving other errors as is.
func WithPath(err error, path string) error {
	var fe *Error
	if errors.As(err, &fe) && fe.Path == "" {
		cp := *fe
		cp.Path = path
		return &cp
	}
	return err
}
