package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess          = 0   // Indicates successful execution.
	ExitErrorGeneric     = 1   // Indicates a generic error.
	ExitErrorUnavailable = 2   // Indicates the counter sources are not available on this host.
	ExitErrorConfig      = 4   // Indicates a configuration error.
	ExitErrorCanceled    = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sampling error kinds. Every structured error below matches exactly one of
// these with errors.Is.
var (
	// ErrSourceUnavailable reports a counter resource that is missing or unreadable.
	ErrSourceUnavailable = errors.New("counter source unavailable")
	// ErrMalformedData reports a selected line that does not fit its schema.
	ErrMalformedData = errors.New("malformed counter data")
	// ErrInconsistentSample reports two samples that cannot be diffed.
	ErrInconsistentSample = errors.New("inconsistent sample")
	// ErrZeroIntervalTotal reports a delta row whose total is zero.
	ErrZeroIntervalTotal = errors.New("zero interval total")
	// ErrProcessNotFound reports a process whose accounting resource is gone.
	ErrProcessNotFound = errors.New("process not found")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SourceError is returned when a counter resource cannot be read.
type SourceError struct {
	// Resource is the name of the resource relative to the source root.
	Resource string
	// Cause is the underlying I/O error.
	Cause error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Resource, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e SourceError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrSourceUnavailable.
func (e SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

// MalformedDataError describes a line that could not be parsed into the
// fixed schema of its resource.
type MalformedDataError struct {
	// Resource is the name of the resource being parsed.
	Resource string
	// Line is the 1-based line number of the offending line.
	Line int
	// Reason explains what did not match.
	Reason string
}

func (e MalformedDataError) Error() string {
	return fmt.Sprintf("malformed %s line %d: %s", e.Resource, e.Line, e.Reason)
}

// Is reports whether target is ErrMalformedData.
func (e MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// InconsistentSampleError is returned when two CPU samples cannot be diffed,
// either because their row labels differ or because a counter went backwards.
type InconsistentSampleError struct {
	// Missing lists labels present in the older sample only.
	Missing []string
	// Added lists labels present in the newer sample only.
	Added []string
	// Reset names the row whose counters decreased, if any.
	Reset string
}

func (e InconsistentSampleError) Error() string {
	if e.Reset != "" {
		return fmt.Sprintf("inconsistent sample: counters of %s went backwards", e.Reset)
	}
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if len(e.Added) > 0 {
		parts = append(parts, "added "+strings.Join(e.Added, ","))
	}
	return "inconsistent sample: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrInconsistentSample.
func (e InconsistentSampleError) Is(target error) bool { return target == ErrInconsistentSample }

// ZeroIntervalTotalError is returned for a delta row whose counters did not
// advance, which would otherwise divide by zero.
type ZeroIntervalTotalError struct {
	// Row is the label of the affected row.
	Row string
}

func (e ZeroIntervalTotalError) Error() string {
	return fmt.Sprintf("row %s: zero interval total", e.Row)
}

// Is reports whether target is ErrZeroIntervalTotal.
func (e ZeroIntervalTotalError) Is(target error) bool { return target == ErrZeroIntervalTotal }

// ProcessNotFoundError is returned when a process's accounting resource does
// not exist or vanished between the existence check and the read.
type ProcessNotFoundError struct {
	// PID is the process identifier that was requested.
	PID int
	// Cause is the underlying error, if any.
	Cause error
}

func (e ProcessNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("process %d not found: %v", e.PID, e.Cause)
	}
	return fmt.Sprintf("process %d not found", e.PID)
}

// Unwrap returns the underlying cause.
func (e ProcessNotFoundError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrProcessNotFound.
func (e ProcessNotFoundError) Is(target error) bool { return target == ErrProcessNotFound }

// Kind returns a stable, low-cardinality label for err, suitable for use as
// a metric label. A nil error yields "ok".
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProcessNotFound):
		return "process_not_found"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrMalformedData):
		return "malformed_data"
	case errors.Is(err, ErrInconsistentSample):
		return "inconsistent_sample"
	case errors.Is(err, ErrZeroIntervalTotal):
		return "zero_interval_total"
	case IsContextError(err):
		return "canceled"
	default:
		return "error"
	}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.Is(err, ErrSourceUnavailable):
		return ExitErrorUnavailable
	default:
		return ExitErrorGeneric
	}
}
