// internal/harness/errors.go
// Package: harness
package harness

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrBuildFailed is fatal: no sweep runs after it.
	ErrBuildFailed = errors.New("build failed")

	// ErrExecutionFailed marks a single repeat whose process did not exit cleanly.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrMetricMissing means a required timing tag was not in the output.
	ErrMetricMissing = errors.New("metric missing from output")

	// ErrMetricInvalid means a timing tag was present but its value was not a
	// finite non-negative number.
	ErrMetricInvalid = errors.New("metric value invalid")

	// ErrAllRunsFailed means no repeat of a grid point produced usable metrics.
	ErrAllRunsFailed = errors.New("all runs failed")

	// ErrInvalidSweep is returned for an empty grid or non-positive repeat count.
	ErrInvalidSweep = errors.New("invalid sweep configuration")
)

// BuildError describes a failed build step.
type BuildError struct {
	// Command is the argv that failed, empty when the artifact check failed.
	Command []string

	// Output is the tail of the combined build output.
	Output string

	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString("build failed")
	if len(e.Command) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Command, " "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrBuildFailed) true for every BuildError.
func (e *BuildError) Is(target error) bool { return target == ErrBuildFailed }

// ExecutionError describes one failed invocation of the measured program.
type ExecutionError struct {
	Point SweepPoint

	// ExitCode is -1 when the process could not be started or was killed.
	ExitCode int

	// TimedOut is set when the run exceeded the configured timeout.
	TimedOut bool

	// Stderr is the tail of the program's standard error. Its last line is
	// part of Error().
	Stderr string

	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	var reason string
	switch {
	case e.TimedOut:
		reason = "timed out"
	case e.Err != nil:
		reason = e.Err.Error()
	default:
		reason = "exit code " + strconv.Itoa(e.ExitCode)
	}
	msg := fmt.Sprintf("run %s: %s", e.Point, reason)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

// lastLine returns the last non-blank line of s, trimmed.
func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	return s
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExecutionFailed) true for every ExecutionError.
func (e *ExecutionError) Is(target error) bool { return target == ErrExecutionFailed }

// AllRunsFailedError is returned by the trial runner when no repeat succeeded.
type AllRunsFailedError struct {
	Point    SweepPoint
	Attempts int

	// Errors holds one error per failed repeat, in repeat order.
	Errors []error
}

// Error implements the error interface.
func (e *AllRunsFailedError) Error() string {
	msg := fmt.Sprintf("%s: all %d runs failed", e.Point, e.Attempts)
	if n := len(e.Errors); n > 0 {
		msg += ": last error: " + e.Errors[n-1].Error()
	}
	return msg
}

// Unwrap exposes the individual repeat failures to errors.Is/As.
func (e *AllRunsFailedError) Unwrap() []error { return e.Errors }

// Is makes errors.Is(err, ErrAllRunsFailed) true.
func (e *AllRunsFailedError) Is(target error) bool { return target == ErrAllRunsFailed }

// messages flattens the repeat errors for reporting.
func (e *AllRunsFailedError) messages() []string {
	out := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err.Error()
	}
	return out
}
