package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login opens the backend's login page. The backend owns the whole authorization flow.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	backend, err := r.client()
	if err != nil {
		return err
	}

	url := backend.LoginURL()
	r.logger.Info("opening login page", "url", url)

	if err := r.opener(url); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlain("Open this URL in your browser to log in:\n  %s\n", url)
	} else {
		r.writePlain("✓ Opened %s in your browser\n", url)
	}

	r.writePlainln("Next steps:")
	r.writePlain("1. Finish logging in, then copy any request to %s as cURL from DevTools\n", r.config.Backend.BaseURL)
	r.writePlain("2. Run 'plx session import --curl-file request.sh'\n")
	return nil
}

// SessionImport stores the backend session cookie from a browser cURL command in the config file.
func (r *Runner) SessionImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var req *shared.CurlRequest
	var err error

	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	cookie, err := req.SessionCookie()
	if err != nil {
		return err
	}

	r.config.Session.Cookie = cookie
	r.backend = nil

	path := r.configFile()
	if err := shared.SaveConfig(path, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.logger.Info("session cookie saved", "path", path)

	r.writePlain("✓ Session cookie saved to %s\n", path)
	r.writePlain("Run 'plx playlists' to check the session\n")
	return nil
}

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := r.configFile()
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Set backend.base_url, then run 'plx login'\n")
	return nil
}

func (r *Runner) configFile() string {
	if r.configPath == "" {
		return defaultConfigPath
	}
	return r.configPath
}
