//go:build windows

package runner

import "os/exec"

// setupCommand is a no-op on Windows; there is no process-group
// equivalent wired up here, so Kill falls back to killing the direct
// child process only.
func setupCommand(cmd *exec.Cmd) {}

func killCommand(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
