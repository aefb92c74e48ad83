package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/oldphotos/launcher/internal/config"
	"github.com/oldphotos/launcher/internal/health"
	"github.com/oldphotos/launcher/internal/logbuf"
	"github.com/oldphotos/launcher/internal/supervisor"
	"github.com/oldphotos/launcher/internal/window"
	"github.com/oldphotos/launcher/internal/workroot"
	"github.com/spf13/cobra"
)

// Distinguished exit codes for startup failures.
const (
	exitSpawnFailure = 2
	exitNotReady     = 3
)

// outputTail is how many lines of service output are retained for the
// failure diagnostics dump.
const outputTail = 200

// fatalError carries a distinguished exit code through cobra back to main.
type fatalError struct {
	code int
	err  error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// resolveConfig builds the effective configuration and working root:
// defaults, environment, then the project config file from the root.
// The root is resolved before the file is read, so the file can tune
// ports and timeouts but not relocate the project.
func resolveConfig() (config.Config, string, error) {
	cfg := config.Default()
	cfg.FromEnv(os.LookupEnv)
	root := workroot.Resolve(cfg.RootOverride, workroot.StartDir(), cfg.MarkerDir)
	if err := cfg.MergeFile(filepath.Join(root, config.FileName)); err != nil {
		return cfg, root, err
	}
	return cfg, root, nil
}

func runLaunch(cmd *cobra.Command, args []string) error {
	cfg, root, err := resolveConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("launcher starting", "root", root, "port", cfg.Port)

	winOpts := window.Options{
		URL:    cfg.ServiceURL(),
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
	}

	if cfg.SkipServer {
		slog.Info("external dev server assumed running, skipping supervision", "url", cfg.ServiceURL())
		return window.Show(ctx, winOpts)
	}

	buf := logbuf.New(outputTail)
	sup := supervisor.New(supervisor.Config{
		Root:        root,
		EntryScript: cfg.EntryScript,
		Port:        cfg.Port,
		StopGrace:   cfg.StopGrace.Duration,
		Output:      buf,
	})
	if err := sup.Start(); err != nil {
		return &fatalError{code: exitSpawnFailure, err: err}
	}
	defer sup.Terminate()

	probe := health.Config{
		Port:     cfg.Port,
		Path:     cfg.StatusPath,
		Interval: cfg.PollInterval.Duration,
		Timeout:  cfg.ReadyTimeout.Duration,
	}
	if !health.WaitReady(ctx, probe, slog.Default()) {
		dumpServiceOutput(buf)
		return &fatalError{
			code: exitNotReady,
			err:  fmt.Errorf("service did not become ready within %s", cfg.ReadyTimeout),
		}
	}

	probe.Interval = cfg.MonitorInterval.Duration
	mon := health.NewMonitor(probe, slog.Default())
	mon.Start(ctx)
	defer mon.Stop()

	return window.Show(ctx, winOpts)
}

func dumpServiceOutput(buf *logbuf.Ring) {
	lines := buf.Last(40)
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "--- service output (tail) ---")
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, line)
	}
}
