package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		level    string
		format   string
		wantJSON bool
		wantMsg  bool
	}{
		{"json at info", "info", FormatJSON, true, true},
		{"auto on a buffer is json", "debug", FormatAuto, true, true},
		{"console", "info", FormatConsole, false, true},
		{"level filters", "error", FormatJSON, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			l := Setup(&buf, "procmon", tt.level, tt.format, true)
			l.Info("started", String("mode", "once"))

			out := buf.String()
			if got := strings.Contains(out, "started"); got != tt.wantMsg {
				t.Fatalf("output %q contains message = %v, want %v", out, got, tt.wantMsg)
			}
			if !tt.wantMsg {
				return
			}
			if got := strings.HasPrefix(out, "{"); got != tt.wantJSON {
				t.Errorf("output %q JSON = %v, want %v", out, got, tt.wantJSON)
			}
		})
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	t.Parallel()
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
