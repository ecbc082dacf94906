//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the child in its own process group and makes
// cancellation signal the whole group, so tools spawned by the child stop too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}
