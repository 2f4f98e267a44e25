// Package orchestration schedules the samplers. The Scheduler is the host the
// samplers register on; it drives each registered monitor from its own
// goroutine at a fixed interval and reports cycle outcomes through a
// CycleObserver, decoupling scheduling from the metrics backend.
package orchestration
