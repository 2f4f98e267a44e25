package sampler

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/sink"
	"github.com/agbru/procmon/internal/source"
)

// cpuRow selects the aggregate row and the rows of logical CPUs 0-999.
var cpuRow = regexp.MustCompile(`^cpu[0-9]{0,3}\s`)

// HostCPUSampler reports host CPU time in state as per-row percentages of the
// interval between two consecutive calls to ReportUsage.
type HostCPUSampler struct {
	src    source.CounterSource
	sink   sink.MetricSink
	logger logging.Logger

	mu       sync.Mutex
	prior    CPUCounterTable
	lastDiff CPUDeltaTable
}

// NewHostCPUSampler creates a sampler and registers it on host under
// ServerMonitorSlot. A nil host skips registration.
func NewHostCPUSampler(host ServerHost, src source.CounterSource, s sink.MetricSink, logger logging.Logger) (*HostCPUSampler, error) {
	sampler := &HostCPUSampler{
		src:    src,
		sink:   orDiscard(s),
		logger: orNop(logger),
	}
	if host != nil {
		if err := host.AddServerMonitor(ServerMonitorSlot, sampler); err != nil {
			return nil, fmt.Errorf("register %s monitor: %w", ServerMonitorSlot, err)
		}
	}
	return sampler, nil
}

// CanSample reports whether the host counter resource is readable.
func (s *HostCPUSampler) CanSample() bool {
	return s.src.Exists(source.HostStat)
}

// GetCPUStats reads and parses one sample of the host counters.
func (s *HostCPUSampler) GetCPUStats() (CPUCounterTable, error) {
	data, err := s.src.ReadAll(source.HostStat)
	if err != nil {
		return nil, err
	}
	return ParseCPUStats(data)
}

// ParseCPUStats parses the cpu rows of a host counter text. Every selected
// row must carry at least NumCPUFields decimal counters; trailing columns
// are ignored. Any violation fails the whole parse.
func ParseCPUStats(data []byte) (CPUCounterTable, error) {
	table := make(CPUCounterTable)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !cpuRow.MatchString(line) {
			continue
		}
		fields := strings.Fields(line)
		label, counters := fields[0], fields[1:]
		if len(counters) < int(NumCPUFields) {
			return nil, malformedStat(lineNo, "expected %d counters for %s, got %d", NumCPUFields, label, len(counters))
		}
		if _, dup := table[label]; dup {
			return nil, malformedStat(lineNo, "duplicate row %s", label)
		}
		row := CPUCounterRow{Label: label}
		for i := range row.Fields {
			v, err := strconv.ParseUint(counters[i], 10, 64)
			if err != nil {
				return nil, malformedStat(lineNo, "%s %s: %q is not a counter", label, CPUField(i), counters[i])
			}
			row.Fields[i] = v
		}
		table[label] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.SourceError{Resource: source.HostStat, Cause: err}
	}
	if len(table) == 0 {
		return nil, malformedStat(0, "no cpu rows")
	}
	return table, nil
}

func malformedStat(line int, format string, args ...any) error {
	return apperrors.MalformedDataError{Resource: source.HostStat, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// ReportUsage takes a sample and, when a baseline exists, records
// alias.cpu.<row>.<state> for every row whose counters advanced.
//
// The first successful call only stores the baseline. A read or parse
// failure leaves the baseline untouched. When the new sample cannot be
// diffed against the baseline (row labels changed, or counters went
// backwards after a reset) the new sample becomes the baseline and nothing
// is recorded. Rows with a zero interval total are skipped and reported
// through the returned error while the other rows are still recorded.
func (s *HostCPUSampler) ReportUsage(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.GetCPUStats()
	if err != nil {
		return err
	}

	if s.prior == nil {
		s.prior = stats
		s.logger.Info("no CPU stats to diff yet", logging.String("alias", alias), logging.Int("rows", len(stats)))
		return nil
	}

	diff, err := DiffCPUStats(s.prior, stats)
	if err == nil {
		if label, reset := diff.counterReset(); reset {
			err = apperrors.InconsistentSampleError{Reset: label}
		}
	}
	if err != nil {
		s.prior = stats
		s.logger.Warn("CPU baseline reset", logging.String("alias", alias), logging.Err(err))
		return err
	}

	percentages, pctErr := StatsToPercent(diff)
	s.prior = stats
	s.lastDiff = diff

	prefix := alias + ".cpu."
	for _, label := range percentages.Labels() {
		row := percentages[label]
		for f := CPUField(0); f < NumCPUFields; f++ {
			s.sink.Record(prefix+label+"."+f.String(), row.Fields[f])
		}
	}
	return pctErr
}

// LastDiff returns a copy of the most recent delta used for reporting, or
// nil before the second successful sample.
func (s *HostCPUSampler) LastDiff() CPUDeltaTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDiff == nil {
		return nil
	}
	out := make(CPUDeltaTable, len(s.lastDiff))
	for label, row := range s.lastDiff {
		out[label] = row
	}
	return out
}

// HasBaseline reports whether a prior sample is stored.
func (s *HostCPUSampler) HasBaseline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prior != nil
}
