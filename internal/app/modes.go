package app

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/procmon/internal/cli"
	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/metrics"
	"github.com/agbru/procmon/internal/orchestration"
	"github.com/agbru/procmon/internal/sampler"
	"github.com/agbru/procmon/internal/server"
	"github.com/agbru/procmon/internal/sink"
	"github.com/agbru/procmon/internal/source"
	"github.com/agbru/procmon/internal/sysmon"
	"github.com/agbru/procmon/internal/tui"
)

// targets converts the configured targets for the scheduler and snapshot.
func (a *Application) targets() []orchestration.Target {
	out := make([]orchestration.Target, len(a.Config.Targets))
	for i, t := range a.Config.Targets {
		out[i] = orchestration.Target{PID: t.PID, Alias: t.Alias}
	}
	return out
}

// newScheduler registers both samplers and every target on a new scheduler.
func (a *Application) newScheduler(s sink.MetricSink, m *metrics.Metrics, logger logging.Logger) (*orchestration.Scheduler, error) {
	var observer orchestration.CycleObserver = orchestration.NullCycleObserver{}
	if m != nil {
		observer = m
	}
	sched := orchestration.NewScheduler(orchestration.Options{
		Interval:  a.Config.Interval,
		HostAlias: a.Config.HostAlias,
		Logger:    logger,
		Observer:  observer,
	})
	cpu, err := sampler.NewHostCPUSampler(sched, a.Source, s, logger)
	if err != nil {
		return nil, err
	}
	if !cpu.CanSample() {
		return nil, apperrors.SourceError{Resource: source.HostStat, Cause: fmt.Errorf("not readable below %s", a.Config.ProcRoot)}
	}
	if _, err := sampler.NewProcessMemorySampler(sched, a.Source, s, logger); err != nil {
		return nil, err
	}
	for _, t := range a.targets() {
		if err := sched.AddTarget(t.PID, t.Alias); err != nil {
			return nil, apperrors.NewConfigError("target %d: %v", t.PID, err)
		}
	}
	return sched, nil
}

// healthCheck fails while the host counters cannot be read.
func (a *Application) healthCheck() error {
	if !a.Source.Exists(source.HostStat) {
		return apperrors.SourceError{Resource: source.HostStat, Cause: fmt.Errorf("not readable")}
	}
	return nil
}

// runDaemon samples until ctx is cancelled, serving /metrics when
// configured.
func (a *Application) runDaemon(ctx context.Context) int {
	logger := a.logger()
	m := newMetrics(a.Config)
	sinks, err := buildSinks(a.Config, m, logger)
	if err != nil {
		logger.Error("cannot build sinks", err)
		return apperrors.ExitErrorConfig
	}
	sched, err := a.newScheduler(sinks, m, logger)
	if err != nil {
		logger.Error("cannot start sampling", err)
		return apperrors.ExitCode(err)
	}

	info, err := sysmon.Probe(a.Config.ProcRoot)
	if err != nil {
		logger.Warn("host probe failed", logging.Err(err))
	}
	logger.Info("sampling started",
		logging.String("host", info.Hostname),
		logging.String("kernel", info.Kernel),
		logging.Int("cpus", info.StatCPUs),
		logging.Duration("interval", a.Config.Interval),
		logging.Int("targets", len(a.Config.Targets)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(ctx) })
	if a.Config.MetricsAddr != "" {
		srv := server.NewServer(a.Config.MetricsAddr, m, logger, server.WithHealthCheck(a.healthCheck))
		g.Go(func() error { return srv.Start(ctx) })
	}
	if err := g.Wait(); err != nil {
		logger.Error("stopped", err)
		return apperrors.ExitCode(err)
	}
	logger.Info("sampling stopped")
	return apperrors.ExitSuccess
}

// runOnce prints a single two-sample snapshot.
func (a *Application) runOnce(ctx context.Context, out io.Writer) int {
	logger := a.logger()
	m := newMetrics(a.Config)
	sinks, err := buildSinks(a.Config, m, logger)
	if err != nil {
		logger.Error("cannot build sinks", err)
		return apperrors.ExitErrorConfig
	}
	opts := cli.SnapshotOptions{
		Interval:  a.Config.Interval,
		HostAlias: a.Config.HostAlias,
		Targets:   a.targets(),
	}
	return cli.RunSnapshot(ctx, a.Source, opts, sinks, out, logger)
}

// runTUI launches the interactive dashboard. Log entries would corrupt the
// alternate screen, so the log sink and the logger are silenced.
func (a *Application) runTUI(ctx context.Context) int {
	logger := logging.Nop{}
	m := newMetrics(a.Config)
	sinks, err := buildSinks(a.Config, m, logger)
	if err != nil {
		return apperrors.ExitErrorConfig
	}
	bridge := tui.NewBridge()
	sinks = append(sinks, bridge)

	sched, err := a.newScheduler(sinks, m, logger)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCode(err)
	}

	if a.Config.MetricsAddr != "" {
		srvCtx, stop := context.WithCancel(ctx)
		defer stop()
		srv := server.NewServer(a.Config.MetricsAddr, m, logger, server.WithHealthCheck(a.healthCheck))
		go func() {
			if err := srv.Start(srvCtx); err != nil {
				fmt.Fprintf(a.ErrWriter, "metrics server: %v\n", err)
			}
		}()
	}

	return tui.Run(ctx, sched, bridge, tui.Options{
		Version:   Version,
		HostAlias: a.Config.HostAlias,
		ProcRoot:  a.Config.ProcRoot,
	})
}
