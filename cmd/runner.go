package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/services"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	backend    services.Backend
	logger     *log.Logger
	output     io.Writer
	opener     shared.Opener
	mu         sync.Mutex // Guards backend swaps from reloadSession
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Backend    services.Backend // Built from config on first use when nil
	Logger     *log.Logger
	Output     io.Writer
	Opener     shared.Opener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		backend:    opts.Backend,
		logger:     opts.Logger,
		output:     opts.Output,
		opener:     opts.Opener,
	}
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// setup is the root command's Before hook. It loads config and applies the global flags.
func (r *Runner) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, fmt.Errorf("failed to load %s: %w", r.configPath, err)
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if baseURL := cmd.String("base-url"); baseURL != "" {
		r.config.Backend.BaseURL = baseURL
	}
	if err := r.config.Validate(); err != nil {
		return ctx, fmt.Errorf("%s: %w", r.configFile(), err)
	}

	level := shared.ParseLogLevel(r.config.Logging.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// client returns the backend, building a cookie-carrying HTTP client from config on first use.
func (r *Runner) client() (services.Backend, error) {
	if r.backend != nil {
		return r.backend, nil
	}

	baseURL := r.config.Backend.BaseURL
	httpClient, err := services.NewSessionClient(baseURL, r.config.Session.Cookie)
	if err != nil {
		return nil, err
	}
	if r.config.Session.Cookie == "" {
		r.logger.Debug("no session cookie configured, requests are anonymous")
	}

	r.backend = services.NewBackendService(baseURL, httpClient, r.logger)
	return r.backend, nil
}

// reloadSession re-reads session.cookie from the config file and rebuilds the backend when it changed.
//
// It lets the browser pick up a 'plx session import' run from another terminal.
func (r *Runner) reloadSession(ctx context.Context) (services.Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.configFile()
	if _, err := os.Stat(path); err != nil {
		return r.client()
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", path, err)
	}

	if r.backend != nil && config.Session.Cookie == r.config.Session.Cookie {
		return r.backend, nil
	}

	r.config.Session.Cookie = config.Session.Cookie
	r.backend = nil
	r.logger.Info("session reloaded", "path", path)
	return r.client()
}

func (r *Runner) exporter() (*tasks.Exporter, error) {
	backend, err := r.client()
	if err != nil {
		return nil, err
	}
	return tasks.NewExporter(backend, r.logger), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		browseCommand, loginCommand, playlistsCommand, tracksCommand,
		exportCommand, exportAllCommand, sessionCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
