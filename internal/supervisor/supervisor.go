// Package supervisor owns the lifecycle of the spawned service process:
// spawn it bound to a fixed port, and guarantee it is killed and reaped
// when the launcher exits, on every exit path.
package supervisor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/oldphotos/launcher/internal/config"
)

// Config holds everything needed to spawn the service process.
type Config struct {
	Root        string        // working root; also the child's cwd
	Command     string        // interpreter, default "node"
	EntryScript string        // entry script path relative to Root
	Port        int           // exported to the child as PORT
	StopGrace   time.Duration // wait after SIGTERM before SIGKILL
	Output      io.Writer     // child stdout+stderr sink, optional
	Logger      *slog.Logger  // optional, defaults to slog.Default
}

// Supervisor is a mutex-guarded optional handle to the spawned process.
// At most one live process is held; Terminate atomically takes the
// handle out of the slot, so it is idempotent and safe to call
// concurrently from a shutdown hook.
type Supervisor struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{} // closed once the process has been reaped
}

// New creates a supervisor. No process is spawned until Start.
func New(cfg Config) *Supervisor {
	if cfg.Command == "" {
		cfg.Command = "node"
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 3 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		cfg:    cfg,
		logger: logger.With("component", "supervisor"),
	}
}

// Start spawns the service process asynchronously. The child gets the
// listening port and the working root in its environment, runs with the
// root as its cwd, and is placed in its own process group so Terminate
// can take down anything it forks. A spawn error is fatal to startup;
// it is never retried.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("service already running (pid %d)", s.cmd.Process.Pid)
	}

	entry := filepath.Join(s.cfg.Root, filepath.FromSlash(s.cfg.EntryScript))
	cmd := exec.Command(s.cfg.Command, entry)
	cmd.Dir = s.cfg.Root
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("PORT=%d", s.cfg.Port),
		config.EnvRoot+"="+s.cfg.Root,
	)
	if s.cfg.Output != nil {
		cmd.Stdout = s.cfg.Output
		cmd.Stderr = s.cfg.Output
	}
	setSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning %s %s: %w", s.cfg.Command, entry, err)
	}

	done := make(chan struct{})
	go func() {
		if err := cmd.Wait(); err != nil {
			s.logger.Debug("service process exited", "error", err)
		}
		close(done)
	}()

	s.cmd = cmd
	s.done = done
	s.logger.Info("service started", "pid", cmd.Process.Pid, "entry", entry, "port", s.cfg.Port)
	return nil
}

// Running reports whether a spawned process is alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	s.mu.Unlock()

	if cmd == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Terminate takes the process handle out of its slot, signals the
// process group to stop, and blocks until the process has been reaped.
// After a grace period a SIGKILL follows. A second or concurrent call,
// or a call when nothing was spawned, is a no-op.
func (s *Supervisor) Terminate() {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	s.cmd = nil
	s.mu.Unlock()

	if cmd == nil {
		return
	}

	select {
	case <-done:
		s.logger.Info("service already exited", "pid", cmd.Process.Pid)
		return
	default:
	}

	pid := cmd.Process.Pid
	s.logger.Info("stopping service", "pid", pid)
	terminateProcess(cmd)

	select {
	case <-done:
	case <-time.After(s.cfg.StopGrace):
		s.logger.Warn("service did not stop in time, killing", "pid", pid, "grace", s.cfg.StopGrace)
		killProcess(cmd)
		<-done
	}
	s.logger.Info("service stopped", "pid", pid)
}
