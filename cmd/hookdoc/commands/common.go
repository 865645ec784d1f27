package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hookdoc/internal/config"
	"git.home.luguber.info/inful/hookdoc/internal/logfields"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer // user-facing output, stdout in production
}

// NewGlobal returns the production globals.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to hookdoc.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate    GenerateCmd    `cmd:"" default:"withargs" help:"Generate the README from the hooks directory (default)"`
	Check       CheckCmd       `cmd:"" help:"Fail when the README is missing, stale or has broken anchors"`
	Watch       WatchCmd       `cmd:"" help:"Regenerate the README whenever the hooks directory changes"`
	List        ListCmd        `cmd:"" help:"List discovered hooks"`
	Init        InitCmd        `cmd:"" help:"Write a default configuration file"`
	InstallHook InstallHookCmd `cmd:"" name:"install-hook" help:"Install a git pre-commit hook that runs 'hookdoc check'"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// TargetFlags override where hooks are read from and where the README goes.
type TargetFlags struct {
	HooksDir   string `name:"hooks-dir" help:"Directory holding one directory per hook (overrides hooks.directory)" placeholder:"DIR"`
	SourceFile string `name:"source-file" help:"Source file read from each hook directory (overrides hooks.source_file)" placeholder:"NAME"`
	Output     string `short:"o" name:"output" help:"README path (overrides output.path)" placeholder:"PATH"`
}

func (f TargetFlags) apply(cfg *config.Config) bool {
	changed := false
	if f.HooksDir != "" {
		cfg.Hooks.Directory = f.HooksDir
		changed = true
	}
	if f.SourceFile != "" {
		cfg.Hooks.SourceFile = f.SourceFile
		changed = true
	}
	if f.Output != "" {
		cfg.Output.Path = f.Output
		changed = true
	}
	return changed
}

// loadConfig resolves the configuration file and applies flag overrides. Overridden
// configurations are validated again.
func loadConfig(root *CLI, flags TargetFlags) (*config.Config, error) {
	cfg, path, err := config.Resolve(root.Config)
	if err != nil {
		return nil, err
	}
	if path == "" {
		slog.Debug("No configuration file, using defaults")
	} else {
		slog.Debug("Configuration loaded", logfields.Path(path))
	}
	if flags.apply(cfg) {
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
