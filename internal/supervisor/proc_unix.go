//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setSysProcAttr puts the child in its own process group so signals
// reach the whole tree it forks.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateProcess(cmd *exec.Cmd) {
	// Negative pid targets the process group. The process may already be
	// gone; that is fine.
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
}

func killProcess(cmd *exec.Cmd) {
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
}
