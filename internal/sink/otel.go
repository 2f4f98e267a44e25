package sink

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelInstrumentName is the gauge every observation is recorded on.
const OTelInstrumentName = "procmon.sample"

// OTelSink records observations on an OpenTelemetry gauge, one attribute set
// per metric name. Without an SDK installed the global meter is a no-op.
type OTelSink struct {
	gauge metric.Float64Gauge
}

// NewOTelSink creates the gauge on meter. A nil meter selects the global
// meter provider.
func NewOTelSink(meter metric.Meter) (*OTelSink, error) {
	if meter == nil {
		meter = otel.Meter("github.com/agbru/procmon")
	}
	gauge, err := meter.Float64Gauge(OTelInstrumentName,
		metric.WithDescription("Latest value of a sampled procfs metric"),
	)
	if err != nil {
		return nil, err
	}
	return &OTelSink{gauge: gauge}, nil
}

// Record sets the gauge for name.
func (s *OTelSink) Record(name string, value float64) {
	s.gauge.Record(context.Background(), value, metric.WithAttributes(attribute.String("metric", name)))
}
