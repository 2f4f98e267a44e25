package app

import (
	"fmt"

	"github.com/agbru/procmon/internal/config"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/metrics"
	"github.com/agbru/procmon/internal/sink"
)

// buildSinks assembles the configured backends. m is used for the prometheus
// sink and may be nil when that sink is not configured.
func buildSinks(cfg config.AppConfig, m *metrics.Metrics, logger logging.Logger) (sink.Fanout, error) {
	var out sink.Fanout
	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkLog:
			out = append(out, sink.NewLogSink(logger))
		case config.SinkPrometheus:
			if m == nil {
				return nil, fmt.Errorf("prometheus sink without a registry")
			}
			out = append(out, m)
		case config.SinkOTel:
			s, err := sink.NewOTelSink(nil)
			if err != nil {
				return nil, fmt.Errorf("otel sink: %w", err)
			}
			out = append(out, s)
		default:
			return nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	return out, nil
}

// newMetrics returns a registry when the prometheus sink or the metrics
// server needs one.
func newMetrics(cfg config.AppConfig) *metrics.Metrics {
	if cfg.HasSink(config.SinkPrometheus) || cfg.MetricsAddr != "" {
		return metrics.NewMetrics()
	}
	return nil
}
