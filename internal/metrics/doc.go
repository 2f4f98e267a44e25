// Package metrics exposes sampled values and scheduler activity through a
// Prometheus registry. A Metrics value is both a sink.MetricSink and an
// orchestration.CycleObserver.
package metrics
