package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/orchestration"
	"github.com/agbru/procmon/internal/sysmon"
)

// Options configures the dashboard.
type Options struct {
	// Version is shown in the header.
	Version string
	// HostAlias is the prefix of the host CPU metrics.
	HostAlias string
	// ProcRoot is the counter root probed for the header.
	ProcRoot string
	// Refresh is the header refresh period.
	Refresh time.Duration
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header HeaderModel
	cpu    CPUModel
	mem    MemoryModel
	footer FooterModel
	keymap KeyMap

	ctx      context.Context
	cancel   context.CancelFunc
	opts     Options
	paused   bool
	done     bool
	exitCode int
	width    int
	height   int
}

// NewModel creates a dashboard bound to ctx. Quitting cancels ctx.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.HostAlias == "" {
		opts.HostAlias = "host"
	}
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	keymap := DefaultKeyMap()
	return Model{
		header:   NewHeaderModel(opts.Version),
		cpu:      NewCPUModel(),
		mem:      NewMemoryModel(),
		footer:   NewFooterModel(keymap),
		keymap:   keymap,
		ctx:      ctx,
		cancel:   cancel,
		opts:     opts,
		exitCode: apperrors.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		probeHostCmd(m.opts.ProcRoot),
		sampleSysStatsCmd(),
		tickCmd(m.opts.Refresh),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.cpu.SetSize(m.width, m.height)
		m.mem.SetSize(m.width)
		m.footer.SetWidth(m.width)
		return m, nil

	case ObservationMsg:
		if !m.paused {
			m.observe(msg.Name, msg.Value)
		}
		return m, nil

	case HostInfoMsg:
		if msg.Err == nil {
			m.header.SetHostInfo(msg.Info)
		}
		return m, nil

	case SysStatsMsg:
		m.header.SetStats(msg.Stats)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(), tickCmd(m.opts.Refresh))

	case SchedulerDoneMsg:
		m.done = true
		m.footer.SetDone(msg.Err)
		if msg.Err != nil {
			m.exitCode = apperrors.ExitCode(msg.Err)
			return m, tea.Quit
		}
		return m, nil

	case ContextCancelledMsg:
		m.done = true
		m.footer.SetDone(nil)
		return m, tea.Quit
	}

	return m, nil
}

// observe routes a metric name to the panel that owns it:
// <host>.cpu.<row>.<field> or <alias>.<memory metric>.
func (m *Model) observe(name string, v float64) {
	if rest, ok := strings.CutPrefix(name, m.opts.HostAlias+".cpu."); ok {
		if i := strings.LastIndexByte(rest, '.'); i > 0 {
			m.cpu.Observe(rest[:i], rest[i+1:], v)
		}
		return
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		m.mem.Observe(name[:i], name[i+1:], v)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cpu.Reset()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil
	}
	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.cpu.View(),
		m.mem.View(),
		m.footer.View(),
	)
}

// ExitCode returns the exit status the dashboard ended with.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the dashboard mode. It drives sched in
// the background, feeds the dashboard through bridge, and returns the exit
// code once the user quits or ctx is cancelled.
func Run(ctx context.Context, sched *orchestration.Scheduler, bridge *Bridge, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	bridge.ref.SetProgram(p)

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		err := sched.Run(model.ctx)
		p.Send(SchedulerDoneMsg{Err: err})
	}()

	finalModel, err := p.Run()
	model.cancel()
	<-schedDone
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// tickCmd returns a command that sends a TickMsg after d.
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// probeHostCmd describes the host once for the header.
func probeHostCmd(root string) tea.Cmd {
	return func() tea.Msg {
		info, err := sysmon.Probe(root)
		return HostInfoMsg{Info: info, Err: err}
	}
}

// sampleSysStatsCmd reads host memory usage and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg{Stats: sysmon.Sample()}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
