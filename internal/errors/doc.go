// Package apperrors defines structured application error types: the sampling
// error kinds (source unavailable, malformed data, inconsistent sample, zero
// interval total, process not found), configuration errors and exit codes.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Every sampling error type matches its sentinel through an Is method, so
// callers test kinds with errors.Is and extract details with errors.As.
package apperrors
