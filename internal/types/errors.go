package types

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrNotRegular is wrapped by IOError when a path exists but is not a
// regular file (directory, device, socket, fifo).
var ErrNotRegular = errors.New("not a regular file")

// PatternError reports a regular expression that failed to compile. Its
// message is the underlying syntax diagnostic, unchanged.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string { return e.Err.Error() }
func (e *PatternError) Unwrap() error { return e.Err }

// IOError reports a path that could not be opened or read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	cause := e.Err
	var pe *fs.PathError
	if errors.As(cause, &pe) {
		cause = pe.Err
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, cause)
}

func (e *IOError) Unwrap() error { return e.Err }

// DecodeError marks a matching line that was not valid UTF-8. Such lines are
// skipped; the error is informational only.
type DecodeError struct {
	Line uint64
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("line %d: invalid UTF-8", e.Line)
}

// Class is the category an error is reported under at the call boundary.
type Class string

const (
	ClassNone     Class = ""
	ClassPattern  Class = "pattern"
	ClassIO       Class = "io"
	ClassCanceled Class = "canceled"
	ClassUnknown  Class = "unknown"
)

// Classify buckets err into one of the error classes.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	var pe *PatternError
	if errors.As(err, &pe) {
		return ClassPattern
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassCanceled
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return ClassIO
	}
	var de DecodeError
	if errors.As(err, &de) {
		return ClassIO
	}
	return ClassUnknown
}
