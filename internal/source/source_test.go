package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/agbru/procmon/internal/errors"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestProcessStatus(t *testing.T) {
	t.Parallel()
	if got := ProcessStatus(1234); got != filepath.Join("1234", "status") {
		t.Errorf("ProcessStatus(1234) = %q", got)
	}
}

func TestNewFS_DefaultRoot(t *testing.T) {
	t.Parallel()
	if got := NewFS("").Root; got != DefaultRoot {
		t.Errorf("NewFS(\"\").Root = %q, want %q", got, DefaultRoot)
	}
	if got := NewFS("/host/proc").Root; got != "/host/proc" {
		t.Errorf("NewFS(\"/host/proc\").Root = %q", got)
	}
}

func TestFS_ReadAll(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, HostStat, "cpu  1 2 3 4 5 6 7 8 9 10\n")
	src := NewFS(root)

	t.Run("read existing resource", func(t *testing.T) {
		data, err := src.ReadAll(HostStat)
		if err != nil {
			t.Fatalf("ReadAll failed: %v", err)
		}
		if string(data) != "cpu  1 2 3 4 5 6 7 8 9 10\n" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("read missing resource", func(t *testing.T) {
		_, err := src.ReadAll(ProcessStatus(99999))
		if !errors.Is(err, apperrors.ErrSourceUnavailable) {
			t.Fatalf("expected ErrSourceUnavailable, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist in chain, got %v", err)
		}
		var srcErr apperrors.SourceError
		if !errors.As(err, &srcErr) || srcErr.Resource != ProcessStatus(99999) {
			t.Errorf("unexpected SourceError %+v", srcErr)
		}
	})
}

func TestFS_Exists(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ProcessStatus(42), "VmRSS:\t2048 kB\n")
	src := NewFS(root)

	if !src.Exists(ProcessStatus(42)) {
		t.Error("expected existing resource to be reported")
	}
	if src.Exists(ProcessStatus(43)) {
		t.Error("expected missing resource to be absent")
	}
	if src.Exists(HostStat) {
		t.Error("expected missing stat to be absent")
	}
}

func TestMap(t *testing.T) {
	t.Parallel()
	m := NewMap(map[string]string{HostStat: "cpu 1"})

	if !m.Exists(HostStat) {
		t.Fatal("expected stat to exist")
	}
	data, err := m.ReadAll(HostStat)
	if err != nil || string(data) != "cpu 1" {
		t.Fatalf("ReadAll = %q, %v", data, err)
	}

	// Mutating the returned slice must not change the stored content.
	data[0] = 'X'
	again, _ := m.ReadAll(HostStat)
	if string(again) != "cpu 1" {
		t.Errorf("stored content was aliased: %q", again)
	}

	m.Set(HostStat, "cpu 2")
	data, _ = m.ReadAll(HostStat)
	if string(data) != "cpu 2" {
		t.Errorf("Set did not replace content: %q", data)
	}

	m.Delete(HostStat)
	if m.Exists(HostStat) {
		t.Error("expected stat to be deleted")
	}
	if _, err := m.ReadAll(HostStat); !errors.Is(err, apperrors.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable after delete, got %v", err)
	}
}

func TestCounterSourceInterface(t *testing.T) {
	var _ CounterSource = FS{}
	var _ CounterSource = NewMap(nil)
}
