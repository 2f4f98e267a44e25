// Package logging provides the structured logging interface used by the
// samplers, the scheduler and the application shell. It abstracts the
// underlying implementation (zerolog by default, the standard library logger
// as a fallback) so components only depend on Logger.
package logging
