package sampler

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// percentTolerance is the worst-case drift of a row sum after rounding every
// field to two decimals.
const percentTolerance = float64(NumCPUFields)*0.005 + 1e-9

func counterRow(label string, fields ...uint64) CPUCounterRow {
	row := CPUCounterRow{Label: label}
	copy(row.Fields[:], fields)
	return row
}

func deltaRow(label string, fields ...int64) CPUDeltaRow {
	row := CPUDeltaRow{Label: label}
	copy(row.Fields[:], fields)
	return row
}

func TestCPUFieldString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		field CPUField
		want  string
	}{
		{User, "user"},
		{IOWait, "iowait"},
		{SoftIRQ, "softirq"},
		{GuestNice, "guest_nice"},
		{NumCPUFields, "CPUField(10)"},
		{CPUField(-1), "CPUField(-1)"},
	}
	for _, tt := range tests {
		if got := tt.field.String(); got != tt.want {
			t.Errorf("CPUField(%d).String() = %q, want %q", int(tt.field), got, tt.want)
		}
	}
}

func TestLabelsOrder(t *testing.T) {
	t.Parallel()
	table := CPUCounterTable{
		"cpu10": {Label: "cpu10"},
		"cpu2":  {Label: "cpu2"},
		"cpu":   {Label: "cpu"},
		"cpu0":  {Label: "cpu0"},
	}
	want := []string{"cpu", "cpu0", "cpu2", "cpu10"}
	if got := table.Labels(); !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestDiffCPUStats(t *testing.T) {
	t.Parallel()
	older := CPUCounterTable{"cpu": counterRow("cpu", 100, 0, 100, 800)}
	newer := CPUCounterTable{"cpu": counterRow("cpu", 150, 0, 150, 900)}

	diff, err := DiffCPUStats(older, newer)
	if err != nil {
		t.Fatalf("DiffCPUStats failed: %v", err)
	}
	want := deltaRow("cpu", 50, 0, 50, 100)
	if diff["cpu"] != want {
		t.Errorf("delta = %+v, want %+v", diff["cpu"], want)
	}
	if diff["cpu"].Total() != 200 {
		t.Errorf("delta total = %d, want 200", diff["cpu"].Total())
	}
}

func TestDiffCPUStats_NegativeDeltaKept(t *testing.T) {
	t.Parallel()
	older := CPUCounterTable{"cpu": counterRow("cpu", 500, 0, 500, 5000)}
	newer := CPUCounterTable{"cpu": counterRow("cpu", 10, 0, 10, 100)}

	diff, err := DiffCPUStats(older, newer)
	if err != nil {
		t.Fatalf("DiffCPUStats failed: %v", err)
	}
	if diff["cpu"].Fields[User] != -490 {
		t.Errorf("user delta = %d, want -490", diff["cpu"].Fields[User])
	}
	label, reset := diff.counterReset()
	if !reset || label != "cpu" {
		t.Errorf("counterReset() = (%q, %v), want (cpu, true)", label, reset)
	}
}

func TestDiffCPUStats_LabelMismatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		older       CPUCounterTable
		newer       CPUCounterTable
		wantMissing []string
		wantAdded   []string
	}{
		{
			name:      "cpu hot-added",
			older:     CPUCounterTable{"cpu": {}, "cpu0": {}},
			newer:     CPUCounterTable{"cpu": {}, "cpu0": {}, "cpu1": {}},
			wantAdded: []string{"cpu1"},
		},
		{
			name:        "cpu removed",
			older:       CPUCounterTable{"cpu": {}, "cpu0": {}, "cpu1": {}, "cpu12": {}},
			newer:       CPUCounterTable{"cpu": {}, "cpu0": {}},
			wantMissing: []string{"cpu1", "cpu12"},
		},
		{
			name:        "swapped",
			older:       CPUCounterTable{"cpu": {}, "cpu0": {}},
			newer:       CPUCounterTable{"cpu": {}, "cpu1": {}},
			wantMissing: []string{"cpu0"},
			wantAdded:   []string{"cpu1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			diff, err := DiffCPUStats(tt.older, tt.newer)
			if diff != nil {
				t.Errorf("expected no delta table, got %v", diff)
			}
			if !errors.Is(err, apperrors.ErrInconsistentSample) {
				t.Fatalf("expected ErrInconsistentSample, got %v", err)
			}
			var ie apperrors.InconsistentSampleError
			if !errors.As(err, &ie) {
				t.Fatalf("expected InconsistentSampleError, got %T", err)
			}
			if !slices.Equal(ie.Missing, tt.wantMissing) || !slices.Equal(ie.Added, tt.wantAdded) {
				t.Errorf("missing=%v added=%v, want missing=%v added=%v", ie.Missing, ie.Added, tt.wantMissing, tt.wantAdded)
			}
		})
	}
}

func TestStatsToPercent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		row  CPUDeltaRow
		want [NumCPUFields]float64
	}{
		{
			name: "quarter split",
			row:  deltaRow("cpu", 50, 0, 50, 100),
			want: [NumCPUFields]float64{25, 0, 25, 50},
		},
		{
			name: "thirds round to two decimals",
			row:  deltaRow("cpu", 1, 1, 1),
			want: [NumCPUFields]float64{33.33, 33.33, 33.33},
		},
		{
			name: "small share rounds to nearest hundredth",
			row:  deltaRow("cpu", 1, 0, 0, 7999),
			want: [NumCPUFields]float64{0.01, 0, 0, 99.99},
		},
		{
			name: "all idle",
			row:  deltaRow("cpu", 0, 0, 0, 400),
			want: [NumCPUFields]float64{0, 0, 0, 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pct, err := StatsToPercent(CPUDeltaTable{"cpu": tt.row})
			if err != nil {
				t.Fatalf("StatsToPercent failed: %v", err)
			}
			if pct["cpu"].Fields != tt.want {
				t.Errorf("percentages = %v, want %v", pct["cpu"].Fields, tt.want)
			}
		})
	}
}

func TestStatsToPercent_ZeroTotal(t *testing.T) {
	t.Parallel()
	delta := CPUDeltaTable{
		"cpu":  deltaRow("cpu", 10, 0, 10, 80),
		"cpu0": deltaRow("cpu0"),
		"cpu1": deltaRow("cpu1"),
	}
	pct, err := StatsToPercent(delta)
	if !errors.Is(err, apperrors.ErrZeroIntervalTotal) {
		t.Fatalf("expected ErrZeroIntervalTotal, got %v", err)
	}
	if _, ok := pct["cpu0"]; ok {
		t.Error("zero-total row cpu0 should be omitted")
	}
	if len(pct) != 1 || pct["cpu"].Fields[User] != 10 {
		t.Errorf("unexpected table %v", pct)
	}
	var ze apperrors.ZeroIntervalTotalError
	if !errors.As(err, &ze) || ze.Row != "cpu0" {
		t.Errorf("first zero-total row = %q, want cpu0", ze.Row)
	}
	for _, row := range pct {
		for _, v := range row.Fields {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("non-finite percentage %v", v)
			}
		}
	}
}

func TestCounterProperties_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	counters := gen.SliceOfN(int(NumCPUFields), gen.UInt64Range(0, 1<<40))
	deltas := gen.SliceOfN(int(NumCPUFields), gen.Int64Range(0, 1<<32))

	properties.Property("row total equals the sum of its fields", prop.ForAll(
		func(fields []uint64) bool {
			row := counterRow("cpu", fields...)
			var sum uint64
			for _, v := range fields {
				sum += v
			}
			return row.Total() == sum
		},
		counters,
	))

	properties.Property("diffing a sample against itself yields zero deltas", prop.ForAll(
		func(a, b []uint64) bool {
			table := CPUCounterTable{"cpu": counterRow("cpu", a...), "cpu0": counterRow("cpu0", b...)}
			diff, err := DiffCPUStats(table, table)
			if err != nil {
				return false
			}
			for _, row := range diff {
				if row.Fields != ([NumCPUFields]int64{}) {
					return false
				}
			}
			return len(diff) == 2
		},
		counters, counters,
	))

	properties.Property("percentages of a non-zero row sum to 100", prop.ForAll(
		func(fields []int64) bool {
			row := deltaRow("cpu", fields...)
			if row.Total() == 0 {
				row.Fields[Idle] = 1
			}
			pct, err := StatsToPercent(CPUDeltaTable{"cpu": row})
			if err != nil {
				return false
			}
			return math.Abs(pct["cpu"].Sum()-100) <= percentTolerance
		},
		deltas,
	))

	properties.Property("increasing counters diff to their increments", prop.ForAll(
		func(base []uint64, inc []int64) bool {
			older := counterRow("cpu", base...)
			newer := older
			for i, d := range inc {
				newer.Fields[i] += uint64(d)
			}
			diff, err := DiffCPUStats(CPUCounterTable{"cpu": older}, CPUCounterTable{"cpu": newer})
			if err != nil {
				return false
			}
			_, reset := diff.counterReset()
			return !reset && diff["cpu"] == deltaRow("cpu", inc...)
		},
		counters, deltas,
	))

	properties.TestingRun(t)
}

func TestZeroTotal_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("zero-total rows fail with ZeroIntervalTotal", prop.ForAll(
		func(n int) bool {
			delta := make(CPUDeltaTable, n)
			for i := range n {
				label := "cpu" + string(rune('0'+i))
				delta[label] = deltaRow(label)
			}
			pct, err := StatsToPercent(delta)
			return len(pct) == 0 && errors.Is(err, apperrors.ErrZeroIntervalTotal)
		},
		gen.IntRange(1, 9),
	))

	properties.TestingRun(t)
}
