package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/orchestration"
	"github.com/agbru/procmon/internal/sampler"
	"github.com/agbru/procmon/internal/sink"
	"github.com/agbru/procmon/internal/source"
	"github.com/agbru/procmon/internal/ui"
)

// SnapshotOptions configures RunSnapshot.
type SnapshotOptions struct {
	// Interval separates the two CPU samples.
	Interval time.Duration
	// HostAlias prefixes the CPU metrics sent to the sink.
	HostAlias string
	// Targets are the processes whose memory is reported.
	Targets []orchestration.Target
}

// RunSnapshot samples the host once, waits opts.Interval, samples again and
// writes the utilization and memory tables to out. Every observation is also
// forwarded to s. It returns the process exit code.
func RunSnapshot(ctx context.Context, src source.CounterSource, opts SnapshotOptions, s sink.MetricSink, out io.Writer, logger logging.Logger) int {
	if logger == nil {
		logger = logging.Nop{}
	}
	if opts.HostAlias == "" {
		opts.HostAlias = "host"
	}
	cpu, err := sampler.NewHostCPUSampler(nil, src, s, logger)
	if err != nil {
		return reportError(out, err)
	}
	mem, err := sampler.NewProcessMemorySampler(nil, src, s, logger)
	if err != nil {
		return reportError(out, err)
	}
	if !cpu.CanSample() {
		return reportError(out, apperrors.SourceError{Resource: source.HostStat, Cause: errors.New("not readable")})
	}

	if err := cpu.ReportUsage(opts.HostAlias); err != nil {
		return reportError(out, err)
	}
	if err := wait(ctx, out, opts.Interval); err != nil {
		return reportError(out, err)
	}
	err = cpu.ReportUsage(opts.HostAlias)
	if err != nil && !errors.Is(err, apperrors.ErrZeroIntervalTotal) {
		return reportError(out, err)
	}
	pct, _ := sampler.StatsToPercent(cpu.LastDiff())
	DisplayCPUTable(out, pct, opts.Interval)

	if len(opts.Targets) > 0 {
		DisplayMemoryTable(out, collectMemory(mem, opts.Targets, logger))
	}
	return apperrors.ExitSuccess
}

func wait(ctx context.Context, out io.Writer, d time.Duration) error {
	sp := newSpinner(spinner.WithWriter(out))
	sp.UpdateSuffix(fmt.Sprintf(" sampling for %s...", format.FormatExecutionDuration(d)))
	sp.Start()
	defer sp.Stop()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func reportError(out io.Writer, err error) int {
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	return apperrors.ExitCode(err)
}

// MemoryRow is the memory accounting of one target, or the reason it could
// not be read.
type MemoryRow struct {
	Target   orchestration.Target
	Snapshot sampler.ProcessMemorySnapshot
	Err      error
}

func collectMemory(mem *sampler.ProcessMemorySampler, targets []orchestration.Target, logger logging.Logger) []MemoryRow {
	rows := make([]MemoryRow, 0, len(targets))
	for _, t := range targets {
		row := MemoryRow{Target: t}
		if err := mem.ReportUsage(t.PID, t.Alias); err != nil {
			logger.Warn("process memory unavailable", logging.Int("pid", t.PID), logging.Err(err))
			row.Err = err
		} else {
			row.Snapshot, row.Err = mem.Snapshot(t.PID)
		}
		rows = append(rows, row)
	}
	return rows
}

// DisplayCPUTable prints one line per CPU row with the main states and a
// busy bar. Busy time is everything except idle and iowait.
// Uses manual padding to correctly handle ANSI color codes.
func DisplayCPUTable(out io.Writer, pct sampler.CPUPercentTable, interval time.Duration) {
	fmt.Fprintf(out, "\n--- CPU utilization over %s ---\n", format.FormatExecutionDuration(interval))

	labels := pct.Labels()
	width := 3
	for _, l := range labels {
		width = max(width, len(l))
	}
	fmt.Fprintf(out, "%sCPU%s%s   %sUser%s      %sSystem%s    %sIdle%s      %sIOWait%s    %sBusy%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", width-3),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for _, l := range labels {
		row := pct[l]
		busy := Busy(row)
		fmt.Fprintf(out, "%s%s%s%s   %s   %s   %s   %s   %s%s%s %s\n",
			ui.ColorBlue(), l, ui.ColorReset(), padRight("", width-len(l)),
			format.FormatPercent(row.Fields[sampler.User]),
			format.FormatPercent(row.Fields[sampler.System]),
			format.FormatPercent(row.Fields[sampler.Idle]),
			format.FormatPercent(row.Fields[sampler.IOWait]),
			ui.ColorForPercent(busy), busyBar(busy, BusyBarWidth), ui.ColorReset(),
			format.FormatPercent(busy))
	}
}

// Busy returns the share of a row spent outside idle and iowait.
func Busy(row sampler.CPUPercentRow) float64 {
	b := 100 - row.Fields[sampler.Idle] - row.Fields[sampler.IOWait]
	if b < 0 {
		return 0
	}
	return b
}

// DisplayMemoryTable prints the resident, peak, virtual and swap sizes of
// each target.
func DisplayMemoryTable(out io.Writer, rows []MemoryRow) {
	fmt.Fprintf(out, "\n--- Process memory ---\n")

	width := 7
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = fmt.Sprintf("%s (%d)", r.Target.Alias, r.Target.PID)
		width = max(width, len(names[i]))
	}
	fmt.Fprintf(out, "%sProcess%s%s   %sRSS%s         %sPeak RSS%s    %sSize%s        %sSwap%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", width-7),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for i, r := range rows {
		name := fmt.Sprintf("%s%s%s%s", ui.ColorBlue(), names[i], ui.ColorReset(), padRight("", width-len(names[i])))
		if r.Err != nil {
			fmt.Fprintf(out, "%s   %s%s%s\n", name, ui.ColorRed(), apperrors.Kind(r.Err), ui.ColorReset())
			continue
		}
		fmt.Fprintf(out, "%s   %s   %s   %s   %s\n", name,
			memCell(r.Snapshot, "vmCurrentRss"),
			memCell(r.Snapshot, "vmRssPeak"),
			memCell(r.Snapshot, "vmCurrentSize"),
			memCell(r.Snapshot, "vmSwap"))
	}
}

func memCell(snap sampler.ProcessMemorySnapshot, metric string) string {
	v, ok := snap[metric]
	if !ok {
		return padRight("-", 8)
	}
	s := format.FormatBytes(v)
	return padRight(s, 9-len(s))
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}
