//go:build !windows

package subset

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcGroup puts the tool in its own process group so a cancelled
// context kills any helpers it spawned as well.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		}
		return nil
	}
}
