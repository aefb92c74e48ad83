// Package window hosts the service UI in a desktop window. It prefers a
// Chromium app window via lorca and falls back to the default browser
// when no Chrome or Edge install is found.
package window

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/zserge/lorca"
)

// Options configures the desktop window.
type Options struct {
	URL    string
	Width  int
	Height int
	Logger *slog.Logger
}

// Show opens the window at opts.URL and blocks until the user closes it
// or ctx is cancelled. With the browser fallback there is no
// window-closed signal, so it blocks on ctx alone.
func Show(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "window")

	ui, err := lorca.New(opts.URL, "", opts.Width, opts.Height)
	if err != nil {
		logger.Warn("no chromium window available, falling back to browser", "error", err)
		if err := openBrowser(opts.URL); err != nil {
			return fmt.Errorf("opening browser: %w", err)
		}
		logger.Info("opened in default browser", "url", opts.URL)
		<-ctx.Done()
		return nil
	}
	defer ui.Close()

	logger.Info("window open", "url", opts.URL)
	select {
	case <-ui.Done():
		logger.Info("window closed")
	case <-ctx.Done():
	}
	return nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
