//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

// Package sink defines where sampled observations go. Samplers only know the
// MetricSink interface; backends (Prometheus, OpenTelemetry, logs, the
// dashboard) implement it.
package sink

import (
	"sort"
	"sync"

	"github.com/agbru/procmon/internal/logging"
)

// MetricSink receives named numeric observations. Record is fire-and-forget:
// implementations must not block the sampler for long and have no way to
// report failure.
type MetricSink interface {
	Record(name string, value float64)
}

// Func adapts a plain function to MetricSink.
type Func func(name string, value float64)

// Record calls f.
func (f Func) Record(name string, value float64) { f(name, value) }

// Fanout forwards every observation to each sink in order.
type Fanout []MetricSink

// Record forwards to every sink.
func (f Fanout) Record(name string, value float64) {
	for _, s := range f {
		s.Record(name, value)
	}
}

// LogSink writes every observation as a debug entry.
type LogSink struct {
	logger logging.Logger
}

// NewLogSink returns a sink logging through logger.
func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Record logs the observation.
func (s *LogSink) Record(name string, value float64) {
	s.logger.Debug("observation", logging.String("metric", name), logging.Float64("value", value))
}

// Observation is one recorded value.
type Observation struct {
	Name  string
	Value float64
}

// Recorder keeps every observation in memory. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	seen []Observation
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends the observation.
func (r *Recorder) Record(name string, value float64) {
	r.mu.Lock()
	r.seen = append(r.seen, Observation{Name: name, Value: value})
	r.mu.Unlock()
}

// Observations returns the recorded values in arrival order.
func (r *Recorder) Observations() []Observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Observation(nil), r.seen...)
}

// Latest returns the most recent value per metric name.
func (r *Recorder) Latest() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[string]float64, len(r.seen))
	for _, o := range r.seen {
		latest[o.Name] = o.Value
	}
	return latest
}

// Names returns the sorted set of recorded metric names.
func (r *Recorder) Names() []string {
	latest := r.Latest()
	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recorded observations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Reset drops every recorded observation.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.seen = nil
	r.mu.Unlock()
}
