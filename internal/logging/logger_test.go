package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("test error")
	tests := []struct {
		name      string
		field     Field
		wantKey   string
		wantValue any
	}{
		{"String", String("alias", "web01"), "alias", "web01"},
		{"Int", Int("pid", 42), "pid", 42},
		{"Uint64", Uint64("bytes", 12345678901234567890), "bytes", uint64(12345678901234567890)},
		{"Float64", Float64("percent", 25.5), "percent", 25.5},
		{"Duration", Duration("interval", time.Second), "interval", time.Second},
		{"Err", Err(testErr), "error", testErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.wantKey)
			}
			if tt.field.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.wantValue)
			}
		})
	}

	t.Run("Err with nil error", func(t *testing.T) {
		f := Err(nil)
		if f.Key != "error" || f.Value != nil {
			t.Errorf("Err(nil) = %+v", f)
		}
	})
}

// TestNewLogger tests the custom logger constructor.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "sampler")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "sampler") {
		t.Errorf("NewLogger should include component field, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("NewLogger should include message, got: %s", output)
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "app", true)
	logger.Info("started", String("mode", "daemon"))

	output := buf.String()
	for _, want := range []string{"started", "mode", "daemon"} {
		if !strings.Contains(output, want) {
			t.Errorf("console output should contain %q, got: %s", want, output)
		}
	}
}

// TestZerologAdapter_Levels tests each leveled method.
func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "info with fields",
			log:      func(l Logger) { l.Info("cycle done", String("sampler", "cpu"), Int("rows", 9)) },
			contains: []string{"cycle done", "info", "cpu", "9"},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("skipping sampler", String("name", "cpu")) },
			contains: []string{"skipping sampler", "warn"},
		},
		{
			name:     "error with cause",
			log:      func(l Logger) { l.Error("cycle failed", errors.New("read stat: permission denied")) },
			contains: []string{"cycle failed", "permission denied", "error"},
		},
		{
			name:     "error with nil cause",
			log:      func(l Logger) { l.Error("warning", nil) },
			contains: []string{"warning", "error"},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("formatted %s %d", "message", 42) },
			contains: []string{"formatted message 42"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("hello", "world") },
			contains: []string{"hello", "world"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, "test"))

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestZerologAdapter_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf)).WithLevel(zerolog.WarnLevel)

	logger.Debug("debug dropped")
	logger.Info("info dropped")
	logger.Warn("warn kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("entries below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn kept") {
		t.Errorf("warn entry missing, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "delta", Value: int64(-17)}, "-17"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pct", Value: 3.14}, "3.14"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("test", tt.field)

			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestStdLoggerAdapter tests the standard library adapter.
func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{"debug", func(l Logger) { l.Debug("trace", Int("line", 42)) }, []string{"[DEBUG]", "trace", "line=42"}},
		{"info", func(l Logger) { l.Info("user action", String("user", "bob")) }, []string{"[INFO]", "user action", "user=bob"}},
		{"warn", func(l Logger) { l.Warn("slow read") }, []string{"[WARN]", "slow read"}},
		{"error", func(l Logger) { l.Error("db failed", errors.New("timeout"), String("db", "mysql")) }, []string{"[ERROR]", "db failed", "timeout", "db=mysql"}},
		{"printf", func(l Logger) { l.Printf("value is %d", 123) }, []string{"value is 123"}},
		{"println", func(l Logger) { l.Println("a", "b", "c") }, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestLoggerInterface verifies every adapter implements the Logger interface.
func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
	var _ Logger = Nop{}
}
