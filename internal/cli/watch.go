package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/five82/lametric/internal/app"
)

func watch(e *env, args []string) error {
	fs := e.flagSet()
	poll := fs.Duration("poll", 2*time.Second, "refresh interval")
	prefsPath := fs.String("prefs", "", "preferences file (default ~/.config/lametric/prefs.toml)")
	logFile := fs.String("log-file", "", "append diagnostics to this file while the dashboard runs")
	if _, err := e.parse(fs, args, 0, 0); err != nil {
		return err
	}
	if *poll <= 0 {
		return usagef("-poll must be positive")
	}

	// The dashboard owns the terminal; request traces would corrupt it.
	client, resolved, err := e.connect(false)
	if err != nil {
		return err
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		e.log.SetOutput(f)
	} else {
		e.log.SetOutput(io.Discard)
	}

	return app.Run(e.ctx, app.Options{
		Client:    client,
		Logger:    e.log,
		Target:    resolved.Connection.String(),
		PrefsPath: *prefsPath,
		PollEvery: *poll,
	})
}
