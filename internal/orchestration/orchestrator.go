package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/registry"
	"github.com/agbru/procmon/internal/sampler"
)

// DefaultInterval is the sampling period when none is configured.
const DefaultInterval = 10 * time.Second

// ErrNoMonitors is returned by Run when nothing has been registered.
var ErrNoMonitors = errors.New("no monitors registered")

// Options configures a Scheduler.
type Options struct {
	// Interval is the time between two cycles of the same monitor.
	Interval time.Duration
	// HostAlias prefixes the metrics of server monitors.
	HostAlias string
	// Logger receives cycle failures. Defaults to a no-op logger.
	Logger logging.Logger
	// Observer counts cycle outcomes. Defaults to NullCycleObserver.
	Observer CycleObserver
}

// Scheduler drives registered monitors at a fixed interval. It implements
// sampler.ServerHost and sampler.ProcessHost so samplers can register
// themselves on it at construction.
//
// Every monitor is driven by exactly one goroutine, so a sampler instance
// never sees concurrent calls. A process monitor visits all targets in turn
// on each of its cycles.
type Scheduler struct {
	interval  time.Duration
	hostAlias string
	logger    logging.Logger
	observer  CycleObserver

	servers   *registry.Registry[sampler.ServerMonitor]
	processes *registry.Registry[sampler.ProcessMonitor]
	targets   *registry.Registry[Target]
}

// NewScheduler creates a scheduler with no monitors and no targets.
func NewScheduler(opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.HostAlias == "" {
		opts.HostAlias = "host"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Observer == nil {
		opts.Observer = NullCycleObserver{}
	}
	return &Scheduler{
		interval:  opts.Interval,
		hostAlias: opts.HostAlias,
		logger:    opts.Logger,
		observer:  opts.Observer,
		servers:   registry.New[sampler.ServerMonitor]("server monitor"),
		processes: registry.New[sampler.ProcessMonitor]("process monitor"),
		targets:   registry.New[Target]("target"),
	}
}

// AddServerMonitor registers a host-wide monitor under name.
func (s *Scheduler) AddServerMonitor(name string, m sampler.ServerMonitor) error {
	return s.servers.Register(name, m)
}

// AddProcessMonitor registers a per-process monitor under name.
func (s *Scheduler) AddProcessMonitor(name string, m sampler.ProcessMonitor) error {
	return s.processes.Register(name, m)
}

// AddTarget queues pid for the process monitors. An empty alias defaults to
// "pid<pid>". Targets may be added while Run is active.
func (s *Scheduler) AddTarget(pid int, alias string) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	if alias == "" {
		alias = "pid" + strconv.Itoa(pid)
	}
	return s.targets.Register(strconv.Itoa(pid), Target{PID: pid, Alias: alias})
}

// RemoveTarget drops pid and reports whether it was queued.
func (s *Scheduler) RemoveTarget(pid int) bool {
	return s.targets.Unregister(strconv.Itoa(pid))
}

// Targets returns the queued targets in the order they were added.
func (s *Scheduler) Targets() []Target {
	entries := s.targets.Entries()
	out := make([]Target, len(entries))
	for i, e := range entries {
		out[i] = e.Plugin
	}
	return out
}

// ServerMonitors returns the names of the registered server monitors.
func (s *Scheduler) ServerMonitors() []string { return s.servers.Names() }

// ProcessMonitors returns the names of the registered process monitors.
func (s *Scheduler) ProcessMonitors() []string { return s.processes.Names() }

// Run starts one goroutine per monitor and blocks until ctx is cancelled.
// Each monitor runs a cycle immediately and then once per interval. Server
// monitors that cannot sample are skipped with a warning. Cycle failures are
// logged and counted; they never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	servers := s.servers.Entries()
	processes := s.processes.Entries()
	if len(servers) == 0 && len(processes) == 0 {
		return ErrNoMonitors
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range servers {
		name, m := e.Name, e.Plugin
		if !m.CanSample() {
			s.logger.Warn("server monitor cannot sample, skipping", logging.String("monitor", name))
			continue
		}
		g.Go(func() error {
			s.tick(ctx, func() { s.runServer(name, m) })
			return nil
		})
	}
	for _, e := range processes {
		name, m := e.Name, e.Plugin
		g.Go(func() error {
			s.tick(ctx, func() { s.runProcess(name, m) })
			return nil
		})
	}
	return g.Wait()
}

// RunCycle runs every monitor once, sequentially, in registration order.
func (s *Scheduler) RunCycle() {
	for _, e := range s.servers.Entries() {
		if e.Plugin.CanSample() {
			s.runServer(e.Name, e.Plugin)
		}
	}
	for _, e := range s.processes.Entries() {
		s.runProcess(e.Name, e.Plugin)
	}
}

func (s *Scheduler) tick(ctx context.Context, cycle func()) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		cycle()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runServer(name string, m sampler.ServerMonitor) {
	start := time.Now()
	err := m.ReportUsage(s.hostAlias)
	s.observe(name, err, time.Since(start))
	if err != nil {
		s.logger.Warn("server monitor cycle failed",
			logging.String("monitor", name), logging.String("kind", apperrors.Kind(err)), logging.Err(err))
	}
}

func (s *Scheduler) runProcess(name string, m sampler.ProcessMonitor) {
	for _, t := range s.Targets() {
		start := time.Now()
		var err error
		if m.CanMonitor(t.PID) {
			err = m.ReportUsage(t.PID, t.Alias)
		} else {
			err = apperrors.ProcessNotFoundError{PID: t.PID}
		}
		s.observe(name, err, time.Since(start))

		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrProcessNotFound):
			if s.RemoveTarget(t.PID) {
				s.logger.Info("process gone, target removed",
					logging.Int("pid", t.PID), logging.String("alias", t.Alias))
			}
		default:
			s.logger.Warn("process monitor cycle failed",
				logging.String("monitor", name), logging.Int("pid", t.PID),
				logging.String("kind", apperrors.Kind(err)), logging.Err(err))
		}
	}
}

func (s *Scheduler) observe(name string, err error, elapsed time.Duration) {
	s.observer.ObserveCycle(name, apperrors.Kind(err), elapsed)
}
