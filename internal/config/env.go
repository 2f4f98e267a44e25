// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strings"
	"time"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// override declares how one setting is overridden from a lower-priority
// layer. Each entry maps a key (an env suffix or a YAML field) to the CLI
// flag it corresponds to and a function that applies the value.
type override struct {
	key   string
	flag  string
	apply func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []override{
	{"PROC_ROOT", "proc-root", func(c *AppConfig, v string) error {
		c.ProcRoot = v
		return nil
	}},
	{"INTERVAL", "interval", func(c *AppConfig, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Interval = d
		return nil
	}},
	{"ALIAS", "alias", func(c *AppConfig, v string) error {
		c.HostAlias = v
		return nil
	}},
	{"PIDS", "pid", func(c *AppConfig, v string) error {
		targets, err := ParseTargets(v)
		if err != nil {
			return err
		}
		c.Targets = targets
		return nil
	}},
	{"METRICS_ADDR", "metrics-addr", func(c *AppConfig, v string) error {
		c.MetricsAddr = v
		return nil
	}},
	{"SINKS", "sinks", func(c *AppConfig, v string) error {
		c.Sinks = splitList(v)
		return nil
	}},
	{"LOG_LEVEL", "log-level", func(c *AppConfig, v string) error {
		c.LogLevel = strings.ToLower(v)
		return nil
	}},
	{"LOG_FORMAT", "log-format", func(c *AppConfig, v string) error {
		c.LogFormat = strings.ToLower(v)
		return nil
	}},
	{"ONCE", "once", func(c *AppConfig, v string) error {
		c.Once = parseBoolEnv(v, c.Once)
		return nil
	}},
	{"TUI", "tui", func(c *AppConfig, v string) error {
		c.TUI = parseBoolEnv(v, c.TUI)
		return nil
	}},
	{"NO_COLOR", "no-color", func(c *AppConfig, v string) error {
		c.NoColor = parseBoolEnv(v, c.NoColor)
		return nil
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
//
// Supported environment variables (all prefixed with PROCMON_):
//   - PROC_ROOT, INTERVAL, ALIAS, PIDS, METRICS_ADDR, SINKS,
//     LOG_LEVEL, LOG_FORMAT, ONCE, TUI, NO_COLOR, CONFIG
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSet(fs, o.flag) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.key); val != "" {
			if err := o.apply(config, val); err != nil {
				return apperrors.NewConfigError("invalid %s%s: %v", EnvPrefix, o.key, err)
			}
		}
	}
	return nil
}
