// Package apperr defines the error kinds a ticker command can fail with and
// how they map to process exit codes.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ArgumentError reports missing or invalid command-line input.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// Argumentf builds an ArgumentError.
func Argumentf(format string, args ...any) error {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// FetchError reports a transport failure or a non-200 response.
type FetchError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: got status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CacheMissError means a refresh failed and there was nothing on disk to fall back to.
type CacheMissError struct {
	Key string
	Err error
}

func (e *CacheMissError) Error() string {
	return fmt.Sprintf("no cached data for %q: %v", e.Key, e.Err)
}

func (e *CacheMissError) Unwrap() error { return e.Err }

// ParseError reports a response whose shape could not be understood.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parsef builds a ParseError for source.
func Parsef(source, format string, args ...any) error {
	return &ParseError{Source: source, Err: fmt.Errorf(format, args...)}
}

// SubprocessError reports a command that could not be spawned or exited
// non-zero. Spawn failures carry exit status 2.
type SubprocessError struct {
	Argv     []string
	ExitCode int // -1 when the process never started
	Err      error
}

func (e *SubprocessError) Error() string {
	cmd := strings.Join(e.Argv, " ")
	if e.ExitCode < 0 {
		return fmt.Sprintf("starting %q: %v", cmd, e.Err)
	}
	return fmt.Sprintf("%q exited with status %d", cmd, e.ExitCode)
}

func (e *SubprocessError) Unwrap() error { return e.Err }

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var sub *SubprocessError
	if errors.As(err, &sub) && sub.ExitCode < 0 {
		return 2
	}
	return 1
}

// IsArgument reports whether err is (or wraps) an ArgumentError.
func IsArgument(err error) bool {
	var arg *ArgumentError
	return errors.As(err, &arg)
}
