package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/sysmon"
)

// HeaderModel renders the top bar: title, host, kernel, uptime, host memory.
type HeaderModel struct {
	startTime time.Time
	version   string
	info      sysmon.HostInfo
	mem       sysmon.Stats
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetHostInfo stores the static host description.
func (h *HeaderModel) SetHostInfo(info sysmon.HostInfo) { h.info = info }

// SetStats stores the latest host memory usage.
func (h *HeaderModel) SetStats(s sysmon.Stats) { h.mem = s }

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "procmon"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	left := titleStyle.Render(titleText)

	if h.info.Hostname != "" {
		host := fmt.Sprintf("%s (%s, %d CPUs)", h.info.Hostname, h.info.Kernel, h.info.LogicalCPUs)
		left += pipe + valueStyle.Render(host)
	}
	if !h.info.BootTime.IsZero() {
		up := time.Since(h.info.BootTime).Truncate(time.Second)
		left += pipe + dimStyle.Render("up "+up.String())
	}
	if h.mem.MemTotal > 0 {
		mem := fmt.Sprintf("mem %s / %s", format.FormatBytes(h.mem.MemUsed), format.FormatBytes(h.mem.MemTotal))
		left += pipe + utilizationStyle(h.mem.MemPercent).Render(mem)
	}

	elapsed := elapsedStyle.Render(fmt.Sprintf("Watching: %s",
		format.FormatExecutionDuration(time.Since(h.startTime).Truncate(time.Second))))

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(elapsed)
	return headerStyle.Width(h.width).Render(left + spaces(gap) + elapsed)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
