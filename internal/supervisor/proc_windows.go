//go:build windows

package supervisor

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
}

// Windows has no SIGTERM; both paths resort to TerminateProcess.
func terminateProcess(cmd *exec.Cmd) {
	_ = cmd.Process.Kill()
}

func killProcess(cmd *exec.Cmd) {
	_ = cmd.Process.Kill()
}
