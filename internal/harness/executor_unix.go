// internal/harness/executor_unix.go
// Package: harness

//go:build unix

package harness

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the launcher in its own process group and makes
// cancellation kill the whole group, so ranks spawned by the launcher do not
// outlive a timed-out run.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
