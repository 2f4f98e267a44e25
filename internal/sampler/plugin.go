// Package sampler turns raw procfs counters into metrics: host CPU time in
// state as per-row percentages, and per-process memory accounting as bytes.
//
// Samplers plug into a host application through the ServerHost and
// ProcessHost capabilities; the host decides when to call ReportUsage.
package sampler

import (
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/sink"
)

// Registry slots the samplers claim on their host.
const (
	ServerMonitorSlot  = "cpu"
	ProcessMonitorSlot = "memory"
)

// ServerMonitor samples a host-wide resource.
type ServerMonitor interface {
	CanSample() bool
	ReportUsage(alias string) error
}

// ProcessMonitor samples a resource of one process.
type ProcessMonitor interface {
	CanMonitor(pid int) bool
	ReportUsage(pid int, alias string) error
}

// ServerHost accepts host-wide monitors under a unique name.
type ServerHost interface {
	AddServerMonitor(name string, m ServerMonitor) error
}

// ProcessHost accepts per-process monitors under a unique name.
type ProcessHost interface {
	AddProcessMonitor(name string, m ProcessMonitor) error
}

func orNop(logger logging.Logger) logging.Logger {
	if logger == nil {
		return logging.Nop{}
	}
	return logger
}

func orDiscard(s sink.MetricSink) sink.MetricSink {
	if s == nil {
		return sink.Fanout(nil)
	}
	return s
}
