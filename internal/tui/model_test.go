package tui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/orchestration"
	"github.com/agbru/procmon/internal/sampler"
	"github.com/agbru/procmon/internal/sysmon"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{HostAlias: "box", Version: "v1.0.0"})
	t.Cleanup(m.cancel)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

// feedRow sends a full percent row in emission order.
func feedRow(t *testing.T, m Model, label string, fields [sampler.NumCPUFields]float64) Model {
	t.Helper()
	for f := range sampler.NumCPUFields {
		m = update(t, m, ObservationMsg{Name: "box.cpu." + label + "." + f.String(), Value: fields[f]})
	}
	return m
}

func TestModel_View_Initializing(t *testing.T) {
	m := NewModel(context.Background(), Options{})
	defer m.cancel()
	if m.View() != "Initializing..." {
		t.Errorf("View() before size = %q", m.View())
	}
}

func TestModel_CPUObservations(t *testing.T) {
	m := newTestModel(t)
	m = feedRow(t, m, "cpu1", [sampler.NumCPUFields]float64{10, 0, 10, 70, 10})
	m = feedRow(t, m, "cpu", [sampler.NumCPUFields]float64{25, 0, 25, 50})
	m = feedRow(t, m, "cpu", [sampler.NumCPUFields]float64{0, 0, 0, 100})

	if got := m.cpu.Labels(); !slices.Equal(got, []string{"cpu", "cpu1"}) {
		t.Errorf("Labels() = %v", got)
	}
	if got := m.cpu.rows["cpu"].history.Slice(); !slices.Equal(got, []float64{50, 0}) {
		t.Errorf("cpu history = %v, want [50 0]", got)
	}
	if got := m.cpu.rows["cpu1"].history.Last(); got != 20 {
		t.Errorf("cpu1 busy = %v, want 20", got)
	}
	view := m.View()
	for _, want := range []string{"procmon v1.0.0", "cpu1", " 20.00%", "Sampling"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_MemoryObservations(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, ObservationMsg{Name: "db.primary.vmCurrentRss", Value: 2097152})
	m = update(t, m, ObservationMsg{Name: "web.vmSwap", Value: 0})
	m = update(t, m, ObservationMsg{Name: "web.unknown", Value: 1})
	m = update(t, m, ObservationMsg{Name: "nodots", Value: 1})

	if got := m.mem.Aliases(); !slices.Equal(got, []string{"db.primary", "web"}) {
		t.Errorf("Aliases() = %v", got)
	}
	if !strings.Contains(m.View(), "2.0 MiB") {
		t.Error("View() should show the resident size")
	}
}

func TestModel_IgnoresOtherHostAlias(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, ObservationMsg{Name: "other.cpu.cpu.user", Value: 5})
	if len(m.cpu.rows) != 0 {
		t.Errorf("rows = %v, want none", m.cpu.Labels())
	}
}

func TestModel_Pause(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("space should pause")
	}
	m = update(t, m, ObservationMsg{Name: "web.vmSwap", Value: 1})
	if len(m.mem.Aliases()) != 0 {
		t.Error("observations must be dropped while paused")
	}
	if !strings.Contains(m.View(), "Paused") {
		t.Error("View() should show the paused status")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if m.paused {
		t.Error("p should resume")
	}
}

func TestModel_ResetClearsHistory(t *testing.T) {
	m := newTestModel(t)
	m = feedRow(t, m, "cpu", [sampler.NumCPUFields]float64{25, 0, 25, 50})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.cpu.rows["cpu"].history.Len() != 0 {
		t.Error("r should clear the history")
	}
	if m.cpu.rows["cpu"].pct.Fields[sampler.User] != 25 {
		t.Error("r should keep the latest values")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if next.(Model).ctx.Err() == nil {
		t.Error("quitting should cancel the sampling context")
	}
}

func TestModel_SchedulerDone(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(SchedulerDoneMsg{Err: orchestration.ErrNoMonitors})
	model := next.(Model)
	if cmd == nil {
		t.Fatal("a scheduler failure should quit")
	}
	if model.ExitCode() != apperrors.ExitErrorGeneric {
		t.Errorf("ExitCode() = %d", model.ExitCode())
	}
	if !strings.Contains(model.View(), orchestration.ErrNoMonitors.Error()) {
		t.Error("View() should show the scheduler error")
	}
}

func TestModel_HeaderMessages(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, HostInfoMsg{Info: sysmon.HostInfo{Hostname: "edge-1", Kernel: "6.1.0", LogicalCPUs: 4}})
	m = update(t, m, HostInfoMsg{Err: errors.New("probe failed"), Info: sysmon.HostInfo{Hostname: "ignored"}})
	m = update(t, m, SysStatsMsg{Stats: sysmon.Stats{MemUsed: 1 << 30, MemTotal: 4 << 30, MemPercent: 25}})

	view := m.View()
	for _, want := range []string{"edge-1 (6.1.0, 4 CPUs)", "mem 1.0 GiB / 4.0 GiB"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "ignored") {
		t.Error("a failed probe must not replace the header")
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil || !next.(Model).done {
		t.Error("cancellation should stop the dashboard")
	}
}
