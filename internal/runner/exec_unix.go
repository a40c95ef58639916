//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// setupCommand places cmd in its own process group so Kill can signal the
// whole subtree (a shell that forked children) rather than just the shell.
func setupCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killCommand(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
