package sysmon

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const fakeStat = `cpu  2255 34 2290 22625563 6290 127 456 0 0 0
cpu0 1132 34 1441 11311718 3675 127 438 0 0 0
cpu1 1123 0 849 11313845 2614 0 18 0 0 0
intr 114930548 113199788 3 0 5 263 0 4
ctxt 1990473
btime 1062191376
processes 2915
procs_running 1
procs_blocked 0
`

func TestProcStat(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "stat"), []byte(fakeStat), 0o644); err != nil {
		t.Fatal(err)
	}
	cpus, boot, err := ProcStat(root)
	if err != nil {
		t.Fatalf("ProcStat failed: %v", err)
	}
	if cpus != 2 {
		t.Errorf("cpus = %d, want 2", cpus)
	}
	if boot.Unix() != 1062191376 {
		t.Errorf("boot time = %d, want 1062191376", boot.Unix())
	}
}

func TestProcStat_MissingRoot(t *testing.T) {
	t.Parallel()
	if _, _, err := ProcStat(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing procfs root")
	}
}

func TestProbe_Host(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("procfs is only available on Linux")
	}
	info, err := Probe("/proc")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if info.LogicalCPUs <= 0 || info.StatCPUs <= 0 {
		t.Errorf("expected positive CPU counts, got %+v", info)
	}
	if info.MemoryTotal == 0 {
		t.Error("expected non-zero MemoryTotal")
	}
}

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
	if s.MemUsed > s.MemTotal {
		t.Errorf("MemUsed %d exceeds MemTotal %d", s.MemUsed, s.MemTotal)
	}
}
