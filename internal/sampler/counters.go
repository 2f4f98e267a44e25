package sampler

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// CPUField indexes the fixed time-in-state schema of a CPU counter row.
type CPUField int

// The order matches the column order of the kernel's cpu lines.
const (
	User CPUField = iota
	Nice
	System
	Idle
	IOWait
	IRQ
	SoftIRQ
	Steal
	Guest
	GuestNice

	// NumCPUFields is the number of counters in every row.
	NumCPUFields
)

var cpuFieldNames = [NumCPUFields]string{
	"user", "nice", "system", "idle", "iowait",
	"irq", "softirq", "steal", "guest", "guest_nice",
}

// String returns the metric name of the field.
func (f CPUField) String() string {
	if f < 0 || f >= NumCPUFields {
		return "CPUField(" + strconv.Itoa(int(f)) + ")"
	}
	return cpuFieldNames[f]
}

// CPUCounterRow is one cpu line of a sample: cumulative ticks per state.
type CPUCounterRow struct {
	Label  string
	Fields [NumCPUFields]uint64
}

// Total returns the sum of all counters of the row.
func (r CPUCounterRow) Total() uint64 {
	var total uint64
	for _, v := range r.Fields {
		total += v
	}
	return total
}

// CPUCounterTable is one full sample, keyed by row label.
type CPUCounterTable map[string]CPUCounterRow

// Labels returns the row labels, aggregate row first, then by CPU index.
func (t CPUCounterTable) Labels() []string { return sortedLabels(t) }

// CPUDeltaRow holds the signed tick difference of each counter between two samples.
type CPUDeltaRow struct {
	Label  string
	Fields [NumCPUFields]int64
}

// Total returns the sum of all deltas of the row.
func (r CPUDeltaRow) Total() int64 {
	var total int64
	for _, v := range r.Fields {
		total += v
	}
	return total
}

func (r CPUDeltaRow) decreased() bool {
	for _, v := range r.Fields {
		if v < 0 {
			return true
		}
	}
	return false
}

// CPUDeltaTable holds one delta row per label present in both samples.
type CPUDeltaTable map[string]CPUDeltaRow

// Labels returns the row labels, aggregate row first, then by CPU index.
func (t CPUDeltaTable) Labels() []string { return sortedLabels(t) }

// counterReset returns the first row, in label order, with a negative delta.
func (t CPUDeltaTable) counterReset() (string, bool) {
	for _, label := range t.Labels() {
		if t[label].decreased() {
			return label, true
		}
	}
	return "", false
}

// CPUPercentRow holds the share of each state in the interval, in percent
// rounded to two decimals.
type CPUPercentRow struct {
	Label  string
	Fields [NumCPUFields]float64
}

// Sum returns the sum of all percentages of the row.
func (r CPUPercentRow) Sum() float64 {
	var sum float64
	for _, v := range r.Fields {
		sum += v
	}
	return sum
}

// CPUPercentTable holds one percent row per delta row with a non-zero total.
type CPUPercentTable map[string]CPUPercentRow

// Labels returns the row labels, aggregate row first, then by CPU index.
func (t CPUPercentTable) Labels() []string { return sortedLabels(t) }

// DiffCPUStats subtracts older from newer, counter by counter. Both samples
// must carry the same row labels. Negative deltas are returned as is.
func DiffCPUStats(older, newer CPUCounterTable) (CPUDeltaTable, error) {
	var mismatch apperrors.InconsistentSampleError
	for label := range older {
		if _, ok := newer[label]; !ok {
			mismatch.Missing = append(mismatch.Missing, label)
		}
	}
	for label := range newer {
		if _, ok := older[label]; !ok {
			mismatch.Added = append(mismatch.Added, label)
		}
	}
	if len(mismatch.Missing) > 0 || len(mismatch.Added) > 0 {
		sort.Slice(mismatch.Missing, func(i, j int) bool { return labelLess(mismatch.Missing[i], mismatch.Missing[j]) })
		sort.Slice(mismatch.Added, func(i, j int) bool { return labelLess(mismatch.Added[i], mismatch.Added[j]) })
		return nil, mismatch
	}

	delta := make(CPUDeltaTable, len(newer))
	for label, n := range newer {
		o := older[label]
		row := CPUDeltaRow{Label: label}
		for i := range row.Fields {
			row.Fields[i] = int64(n.Fields[i]) - int64(o.Fields[i])
		}
		delta[label] = row
	}
	return delta, nil
}

// StatsToPercent converts every delta row into percentages of its total.
// Values are rounded half away from zero to two decimals. Rows whose total
// is zero are left out of the table and reported as joined
// ZeroIntervalTotalError values; the remaining rows are still returned.
func StatsToPercent(delta CPUDeltaTable) (CPUPercentTable, error) {
	table := make(CPUPercentTable, len(delta))
	var errs []error
	for _, label := range delta.Labels() {
		row := delta[label]
		total := row.Total()
		if total == 0 {
			errs = append(errs, apperrors.ZeroIntervalTotalError{Row: label})
			continue
		}
		pct := CPUPercentRow{Label: label}
		for i, v := range row.Fields {
			pct.Fields[i] = percentOf(v, total)
		}
		table[label] = pct
	}
	return table, errors.Join(errs...)
}

func percentOf(v, total int64) float64 {
	return math.Round(float64(v)/float64(total)*10000) / 100
}

func sortedLabels[T any](m map[string]T) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labelLess(labels[i], labels[j]) })
	return labels
}

// labelLess orders "cpu" before "cpuN" and numbered rows numerically.
func labelLess(a, b string) bool {
	ai, aok := cpuIndex(a)
	bi, bok := cpuIndex(b)
	switch {
	case aok && bok:
		return ai < bi
	case aok != bok:
		return aok
	default:
		return a < b
	}
}

// cpuIndex returns the numeric suffix of a "cpuN" label. The aggregate row
// sorts as -1.
func cpuIndex(label string) (int, bool) {
	suffix, ok := strings.CutPrefix(label, "cpu")
	if !ok {
		return 0, false
	}
	if suffix == "" {
		return -1, true
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}
