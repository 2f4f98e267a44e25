// Package config resolves the application configuration from command-line
// flags, PROCMON_* environment variables, an optional YAML file and built-in
// defaults, in that order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
	"github.com/agbru/procmon/internal/source"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "PROCMON_"

// Default values.
const (
	DefaultInterval  = 10 * time.Second
	DefaultHostAlias = "host"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "auto"
)

// Sink names accepted by -sinks.
const (
	SinkLog        = "log"
	SinkPrometheus = "prometheus"
	SinkOTel       = "otel"
)

var (
	validSinks      = []string{SinkLog, SinkPrometheus, SinkOTel}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"auto", "console", "json"}
)

// Target is a process to monitor and the alias its metrics are reported under.
type Target struct {
	PID   int    `yaml:"pid"`
	Alias string `yaml:"alias"`
}

// String renders the target as accepted by -pid.
func (t Target) String() string {
	if t.Alias == "" {
		return strconv.Itoa(t.PID)
	}
	return strconv.Itoa(t.PID) + ":" + t.Alias
}

// ParseTarget parses "pid" or "pid:alias".
func ParseTarget(s string) (Target, error) {
	pidPart, alias, _ := strings.Cut(strings.TrimSpace(s), ":")
	pid, err := strconv.Atoi(pidPart)
	if err != nil || pid <= 0 {
		return Target{}, fmt.Errorf("invalid target %q: want pid or pid:alias with pid > 0", s)
	}
	return Target{PID: pid, Alias: alias}, nil
}

// ParseTargets parses a comma-separated list of targets.
func ParseTargets(s string) ([]Target, error) {
	var targets []Target
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseTarget(part)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// targetList is a repeatable flag.Value collecting targets.
type targetList struct{ targets *[]Target }

func (l targetList) String() string {
	if l.targets == nil {
		return ""
	}
	parts := make([]string, len(*l.targets))
	for i, t := range *l.targets {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func (l targetList) Set(s string) error {
	parsed, err := ParseTargets(s)
	if err != nil {
		return err
	}
	*l.targets = append(*l.targets, parsed...)
	return nil
}

// sinkList is a flag.Value for a comma-separated sink list.
type sinkList struct{ sinks *[]string }

func (l sinkList) String() string {
	if l.sinks == nil {
		return ""
	}
	return strings.Join(*l.sinks, ",")
}

func (l sinkList) Set(s string) error {
	*l.sinks = splitList(s)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// AppConfig aggregates all application configuration parameters.
type AppConfig struct {
	// ProcRoot is the procfs mount the counter resources are read from.
	ProcRoot string
	// Interval is the time between two sampling cycles.
	Interval time.Duration
	// HostAlias prefixes host CPU metrics.
	HostAlias string
	// Targets are the processes whose memory is sampled.
	Targets []Target
	// MetricsAddr, when set, serves /metrics and /healthz on this address.
	MetricsAddr string
	// Sinks lists the metric backends: log, prometheus, otel.
	Sinks []string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is auto, console or json. auto picks console on a terminal.
	LogFormat string
	// Once takes a single two-sample snapshot and exits.
	Once bool
	// TUI starts the interactive dashboard.
	TUI bool
	// NoColor disables colored output.
	NoColor bool
	// ConfigFile is the YAML file that seeded this configuration.
	ConfigFile string
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() AppConfig {
	return AppConfig{
		ProcRoot:  source.DefaultRoot,
		Interval:  DefaultInterval,
		HostAlias: DefaultHostAlias,
		Sinks:     []string{SinkLog},
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// HasSink reports whether name is among the configured sinks.
func (c AppConfig) HasSink(name string) bool {
	return slices.Contains(c.Sinks, name)
}

// ParseConfig parses args into an AppConfig. Flags explicitly set on the
// command line win over PROCMON_* environment variables, which win over the
// YAML file named by -config (or PROCMON_CONFIG), which wins over Defaults.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: Receives usage and flag errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp for -h, or an apperrors.ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	config := Defaults()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\nSamples host CPU and process memory counters from procfs.\n\nOptions:\n", programName)
		fs.PrintDefaults()
	}

	fs.StringVar(&config.ProcRoot, "proc-root", config.ProcRoot, "Procfs mount point to read counters from.")
	fs.DurationVar(&config.Interval, "interval", config.Interval, "Time between two sampling cycles.")
	fs.StringVar(&config.HostAlias, "alias", config.HostAlias, "Metric prefix for host CPU metrics.")
	fs.Var(targetList{&config.Targets}, "pid", "Process to monitor, as pid or pid:alias (repeatable, comma-separated).")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address (e.g. :9100).")
	fs.Var(sinkList{&config.Sinks}, "sinks", "Comma-separated metric sinks: log, prometheus, otel.")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "Log format: auto, console, json.")
	fs.BoolVar(&config.Once, "once", false, "Take one two-sample snapshot, print it and exit.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", "")
	}
	if config.ConfigFile != "" {
		file, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		if err := applyFileOverrides(&config, file, fs); err != nil {
			return AppConfig{}, err
		}
	}
	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}
	if config.MetricsAddr != "" && !config.HasSink(SinkPrometheus) {
		config.Sinks = append(config.Sinks, SinkPrometheus)
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	if c.ProcRoot == "" {
		return apperrors.NewConfigError("proc root must not be empty")
	}
	if c.Interval <= 0 {
		return apperrors.NewConfigError("interval must be positive, got %s", c.Interval)
	}
	if c.HostAlias == "" {
		return apperrors.NewConfigError("alias must not be empty")
	}
	if c.Once && c.TUI {
		return apperrors.NewConfigError("-once and -tui are mutually exclusive")
	}
	if len(c.Sinks) == 0 && !c.Once {
		return apperrors.NewConfigError("at least one sink is required")
	}
	for _, s := range c.Sinks {
		if !slices.Contains(validSinks, s) {
			return apperrors.NewConfigError("unknown sink %q (valid: %s)", s, strings.Join(validSinks, ", "))
		}
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return apperrors.NewConfigError("unknown log level %q (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return apperrors.NewConfigError("unknown log format %q (valid: %s)", c.LogFormat, strings.Join(validLogFormats, ", "))
	}
	seen := make(map[int]bool, len(c.Targets))
	for _, t := range c.Targets {
		if t.PID <= 0 {
			return apperrors.NewConfigError("invalid pid %d", t.PID)
		}
		if seen[t.PID] {
			return apperrors.NewConfigError("pid %d listed twice", t.PID)
		}
		seen[t.PID] = true
	}
	return nil
}
