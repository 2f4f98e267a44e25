package orchestration

import "time"

// Target is a process the process monitors sample every cycle.
type Target struct {
	// PID is the process identifier.
	PID int
	// Alias prefixes every metric reported for the process.
	Alias string
}

// CycleObserver receives the outcome of every sampling cycle. This interface
// decouples the scheduler from the metrics backend so that the scheduling
// logic can be tested without a Prometheus registry.
type CycleObserver interface {
	// ObserveCycle is called once per sampler invocation.
	//
	// Parameters:
	//   - sampler: The registry slot of the monitor ("cpu", "memory").
	//   - outcome: apperrors.Kind of the returned error ("ok" on success).
	//   - elapsed: The wall time of the invocation.
	ObserveCycle(sampler, outcome string, elapsed time.Duration)
}

// CycleObserverFunc is a function adapter that implements CycleObserver.
type CycleObserverFunc func(sampler, outcome string, elapsed time.Duration)

// ObserveCycle calls the underlying function.
func (f CycleObserverFunc) ObserveCycle(sampler, outcome string, elapsed time.Duration) {
	f(sampler, outcome, elapsed)
}

// NullCycleObserver is a no-op implementation of CycleObserver.
type NullCycleObserver struct{}

// ObserveCycle does nothing.
func (NullCycleObserver) ObserveCycle(string, string, time.Duration) {}
