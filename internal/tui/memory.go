package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agbru/procmon/internal/format"
	"github.com/agbru/procmon/internal/sampler"
)

var memoryMetrics = sampler.MemoryMetrics()

// MemoryModel displays the memory accounting of every target seen so far.
type MemoryModel struct {
	order  []string
	values map[string]map[string]float64
	width  int
}

// NewMemoryModel creates an empty memory panel.
func NewMemoryModel() MemoryModel {
	return MemoryModel{values: make(map[string]map[string]float64)}
}

// SetSize updates the available width.
func (m *MemoryModel) SetSize(w int) { m.width = w }

// Observe stores metric for alias. It reports false for names that are not
// memory metrics.
func (m *MemoryModel) Observe(alias, metric string, v float64) bool {
	if !slices.Contains(memoryMetrics, metric) {
		return false
	}
	vals, ok := m.values[alias]
	if !ok {
		vals = make(map[string]float64)
		m.values[alias] = vals
		m.order = append(m.order, alias)
	}
	vals[metric] = v
	return true
}

// Aliases returns the targets in the order they first reported.
func (m MemoryModel) Aliases() []string { return slices.Clone(m.order) }

// View renders the memory panel.
func (m MemoryModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" Processes"))
	if len(m.order) == 0 {
		b.WriteString("\n " + dimStyle.Render("no targets"))
	}
	for _, alias := range m.order {
		vals := m.values[alias]
		fmt.Fprintf(&b, "\n %s %s %s %s %s",
			rowLabelStyle.Render(fmt.Sprintf("%-16s", alias)),
			memCell("rss", vals, "vmCurrentRss"),
			memCell("peak", vals, "vmRssPeak"),
			memCell("size", vals, "vmCurrentSize"),
			memCell("swap", vals, "vmSwap"))
	}
	return panelStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func memCell(name string, vals map[string]float64, metric string) string {
	s := "-"
	if v, ok := vals[metric]; ok {
		s = format.FormatBytes(uint64(v))
	}
	return dimStyle.Render(name) + " " + valueStyle.Render(fmt.Sprintf("%-10s", s))
}
