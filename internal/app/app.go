package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/procmon/internal/config"
	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/source"
	"github.com/agbru/procmon/internal/ui"
)

// Application represents the procmon application instance.
type Application struct {
	Config    config.AppConfig
	Source    source.CounterSource
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the procfs source derived from -proc-root.
func WithSource(src source.CounterSource) AppOption {
	return func(a *Application) { a.Source = src }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "procmon"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	if app.Source == nil {
		app.Source = source.NewFS(cfg.ProcRoot)
	}
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code. SIGINT and SIGTERM cancel ctx.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	switch {
	case a.Config.Once:
		return a.runOnce(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx)
	default:
		return a.runDaemon(ctx)
	}
}

// logger builds the application logger on the error writer.
func (a *Application) logger() logging.Logger {
	return logging.Setup(a.ErrWriter, "procmon", a.Config.LogLevel, a.Config.LogFormat, a.Config.NoColor)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
