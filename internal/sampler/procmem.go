package sampler

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/sink"
	"github.com/agbru/procmon/internal/source"
)

// memoryField maps a status tag to the metric it is reported as.
type memoryField struct {
	Tag    string
	Metric string
}

// memorySchema lists the recognized status tags in emission order.
var memorySchema = []memoryField{
	{"VmPeak", "vmTotalPeak"},
	{"VmSize", "vmCurrentSize"},
	{"VmLck", "vmLocked"},
	{"VmHWM", "vmRssPeak"},
	{"VmRSS", "vmCurrentRss"},
	{"VmData", "vmData"},
	{"VmStk", "vmStack"},
	{"VmExe", "vmExe"},
	{"VmLib", "vmLib"},
	{"VmPTE", "vmPTE"},
	{"VmSwap", "vmSwap"},
}

// MemoryMetrics returns the metric names in emission order.
func MemoryMetrics() []string {
	names := make([]string, len(memorySchema))
	for i, f := range memorySchema {
		names[i] = f.Metric
	}
	return names
}

// ProcessMemorySnapshot maps metric names to sizes in bytes. Tags absent from
// the status text are absent from the snapshot.
type ProcessMemorySnapshot map[string]uint64

// ProcessMemorySampler reports the memory accounting of single processes.
// It keeps no state between calls and may serve many pids concurrently.
type ProcessMemorySampler struct {
	src    source.CounterSource
	sink   sink.MetricSink
	logger logging.Logger
}

// NewProcessMemorySampler creates a sampler and registers it on host under
// ProcessMonitorSlot. A nil host skips registration.
func NewProcessMemorySampler(host ProcessHost, src source.CounterSource, s sink.MetricSink, logger logging.Logger) (*ProcessMemorySampler, error) {
	sampler := &ProcessMemorySampler{
		src:    src,
		sink:   orDiscard(s),
		logger: orNop(logger),
	}
	if host != nil {
		if err := host.AddProcessMonitor(ProcessMonitorSlot, sampler); err != nil {
			return nil, fmt.Errorf("register %s monitor: %w", ProcessMonitorSlot, err)
		}
	}
	return sampler, nil
}

// CanMonitor reports whether the status resource of pid exists. The process
// may still exit before the next read.
func (s *ProcessMemorySampler) CanMonitor(pid int) bool {
	if pid <= 0 {
		return false
	}
	return s.src.Exists(source.ProcessStatus(pid))
}

// Snapshot reads and parses the status resource of pid. Any read failure,
// including a process that exited after CanMonitor, is a ProcessNotFoundError.
func (s *ProcessMemorySampler) Snapshot(pid int) (ProcessMemorySnapshot, error) {
	if pid <= 0 {
		return nil, apperrors.ProcessNotFoundError{PID: pid}
	}
	data, err := s.src.ReadAll(source.ProcessStatus(pid))
	if err != nil {
		return nil, apperrors.ProcessNotFoundError{PID: pid, Cause: err}
	}
	return ParseProcessStatus(source.ProcessStatus(pid), data)
}

// ParseProcessStatus extracts the recognized memory tags from a status text.
// Only the first integer token after the tag is used; it is taken as
// kibibytes. resource names the text in errors.
func ParseProcessStatus(resource string, data []byte) (ProcessMemorySnapshot, error) {
	snap := make(ProcessMemorySnapshot)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for _, f := range memorySchema {
			rest, ok := strings.CutPrefix(line, f.Tag+":")
			if !ok {
				continue
			}
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return nil, apperrors.MalformedDataError{Resource: resource, Line: lineNo, Reason: f.Tag + " has no value"}
			}
			kib, err := strconv.ParseUint(fields[0], 10, 64)
			if err != nil {
				return nil, apperrors.MalformedDataError{Resource: resource, Line: lineNo, Reason: fmt.Sprintf("%s: %q is not a size", f.Tag, fields[0])}
			}
			snap[f.Metric] = kib * 1024
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.SourceError{Resource: resource, Cause: err}
	}
	return snap, nil
}

// ReportUsage records alias.<metric> for every tag present in the status of
// pid. Nothing is recorded when the snapshot fails.
func (s *ProcessMemorySampler) ReportUsage(pid int, alias string) error {
	snap, err := s.Snapshot(pid)
	if err != nil {
		return err
	}
	for _, f := range memorySchema {
		if v, ok := snap[f.Metric]; ok {
			s.sink.Record(alias+"."+f.Metric, float64(v))
		}
	}
	s.logger.Debug("process memory reported",
		logging.Int("pid", pid), logging.String("alias", alias), logging.Int("fields", len(snap)))
	return nil
}
