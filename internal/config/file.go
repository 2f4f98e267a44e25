package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/procmon/internal/errors"
)

// File mirrors the YAML configuration file. Absent keys leave the
// corresponding setting untouched.
type File struct {
	ProcRoot    *string  `yaml:"proc_root"`
	Interval    *string  `yaml:"interval"`
	HostAlias   *string  `yaml:"alias"`
	Targets     []Target `yaml:"targets"`
	MetricsAddr *string  `yaml:"metrics_addr"`
	Sinks       []string `yaml:"sinks"`
	LogLevel    *string  `yaml:"log_level"`
	LogFormat   *string  `yaml:"log_format"`
	NoColor     *bool    `yaml:"no_color"`
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected. An empty file is valid.
func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, apperrors.NewConfigError("open config file: %v", err)
	}
	defer f.Close()
	return DecodeFile(f)
}

// DecodeFile decodes a YAML configuration from r.
func DecodeFile(r io.Reader) (File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, apperrors.NewConfigError("parse config file: %v", err)
	}
	return file, nil
}

// overrides lists the settings present in the file.
func (f File) overrides() []override {
	var out []override
	str := func(key, flag string, v *string, dst func(*AppConfig) *string) {
		if v != nil {
			out = append(out, override{key, flag, func(c *AppConfig, _ string) error {
				*dst(c) = *v
				return nil
			}})
		}
	}
	str("proc_root", "proc-root", f.ProcRoot, func(c *AppConfig) *string { return &c.ProcRoot })
	str("alias", "alias", f.HostAlias, func(c *AppConfig) *string { return &c.HostAlias })
	str("metrics_addr", "metrics-addr", f.MetricsAddr, func(c *AppConfig) *string { return &c.MetricsAddr })
	str("log_level", "log-level", f.LogLevel, func(c *AppConfig) *string { return &c.LogLevel })
	str("log_format", "log-format", f.LogFormat, func(c *AppConfig) *string { return &c.LogFormat })

	if f.Interval != nil {
		out = append(out, override{"interval", "interval", func(c *AppConfig, _ string) error {
			d, err := time.ParseDuration(*f.Interval)
			if err != nil {
				return err
			}
			c.Interval = d
			return nil
		}})
	}
	if f.Targets != nil {
		out = append(out, override{"targets", "pid", func(c *AppConfig, _ string) error {
			c.Targets = append([]Target(nil), f.Targets...)
			return nil
		}})
	}
	if f.Sinks != nil {
		out = append(out, override{"sinks", "sinks", func(c *AppConfig, _ string) error {
			c.Sinks = append([]string(nil), f.Sinks...)
			return nil
		}})
	}
	if f.NoColor != nil {
		out = append(out, override{"no_color", "no-color", func(c *AppConfig, _ string) error {
			c.NoColor = *f.NoColor
			return nil
		}})
	}
	return out
}

// applyFileOverrides applies the file settings whose flags were not set on
// the command line.
func applyFileOverrides(config *AppConfig, file File, fs *flag.FlagSet) error {
	for _, o := range file.overrides() {
		if isFlagSet(fs, o.flag) {
			continue
		}
		if err := o.apply(config, ""); err != nil {
			return apperrors.NewConfigError("invalid %s in %s: %v", o.key, config.ConfigFile, err)
		}
	}
	return nil
}
