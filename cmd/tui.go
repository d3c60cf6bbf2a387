package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/plx/internal/formatter"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/desertthunder/plx/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive playlist browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, logFile, err := shared.NewFileLogger(r.config.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())

	prev := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(prev)

	backend, err := r.client()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, backend, ui.ModelOpts{
		Saver:    formatter.DirSaver{Dir: r.config.Export.Dir},
		Opener:   r.opener,
		Logger:   r.logger,
		Dialect:  r.config.Export.Dialect,
		Filename: r.config.Export.Filename,
		Reload:   r.reloadSession,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
