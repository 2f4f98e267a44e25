package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/procmon/internal/sampler"
)

// cpuFields maps a metric suffix back to its field.
var cpuFields = func() map[string]sampler.CPUField {
	m := make(map[string]sampler.CPUField, sampler.NumCPUFields)
	for f := range sampler.NumCPUFields {
		m[f.String()] = f
	}
	return m
}()

// cpuRow holds the latest percentages of one row and its busy history.
type cpuRow struct {
	pct     sampler.CPUPercentRow
	history *RingBuffer
}

// CPUModel displays one line per CPU row with a busy sparkline.
type CPUModel struct {
	rows    map[string]*cpuRow
	histCap int
	width   int
	height  int
}

// NewCPUModel creates an empty CPU panel.
func NewCPUModel() CPUModel {
	return CPUModel{rows: make(map[string]*cpuRow), histCap: 30}
}

// SetSize updates dimensions and resizes every history to the sparkline width.
func (m *CPUModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.histCap = max(w-cpuFixedWidth, 1)
	for _, r := range m.rows {
		r.history.Resize(m.histCap)
	}
}

// Observe stores one percentage. The guest_nice field is the last of a row
// in emission order, so it closes the row and extends its history.
func (m *CPUModel) Observe(label, field string, v float64) bool {
	f, ok := cpuFields[field]
	if !ok {
		return false
	}
	r, ok := m.rows[label]
	if !ok {
		r = &cpuRow{pct: sampler.CPUPercentRow{Label: label}, history: NewRingBuffer(m.histCap)}
		m.rows[label] = r
	}
	r.pct.Fields[f] = v
	if f == sampler.GuestNice {
		r.history.Push(busy(r.pct))
	}
	return true
}

// Reset clears every history but keeps the latest values.
func (m *CPUModel) Reset() {
	for _, r := range m.rows {
		r.history.Reset()
	}
}

// Labels returns the known rows in display order.
func (m CPUModel) Labels() []string {
	t := make(sampler.CPUPercentTable, len(m.rows))
	for label, r := range m.rows {
		t[label] = r.pct
	}
	return t.Labels()
}

// busy is the share of a row spent outside idle and iowait.
func busy(row sampler.CPUPercentRow) float64 {
	return max(100-row.Fields[sampler.Idle]-row.Fields[sampler.IOWait], 0)
}

// label + four "xxx 100.00%" columns + busy value, spaced.
const cpuFixedWidth = 8 + 4*12 + 10 + 4

// View renders the CPU panel.
func (m CPUModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" CPU"))

	labels := m.Labels()
	if len(labels) == 0 {
		b.WriteString("\n " + dimStyle.Render("waiting for the second sample..."))
	}
	for _, label := range labels {
		r := m.rows[label]
		p := busy(r.pct)
		fmt.Fprintf(&b, "\n %s %s %s %s %s  %s %s",
			rowLabelStyle.Render(fmt.Sprintf("%-7s", label)),
			cell("usr", r.pct.Fields[sampler.User]),
			cell("sys", r.pct.Fields[sampler.System]),
			cell("idl", r.pct.Fields[sampler.Idle]),
			cell("iow", r.pct.Fields[sampler.IOWait]),
			utilizationStyle(p).Render(RenderSparkline(r.history.Slice())),
			utilizationStyle(p).Render(fmt.Sprintf("%6.2f%%", p)))
	}
	return panelStyle.Width(max(m.width-2, 0)).Render(b.String())
}

func cell(name string, v float64) string {
	return dimStyle.Render(name) + " " + valueStyle.Render(fmt.Sprintf("%6.2f%%", v))
}
