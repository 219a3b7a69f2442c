//go:build unix

package shell

import (
	osexec "os/exec"
	"syscall"
)

// isolate puts the build in its own process group so that cancellation
// kills the shell together with everything it spawned.
func isolate(cmd *osexec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
