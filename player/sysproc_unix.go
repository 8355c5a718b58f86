//go:build !windows

package player

import (
	"os/exec"
	"syscall"
	"time"
)

const killGrace = 2 * time.Second

// mpv runs in its own process group so a terminal Ctrl-C reaches us first
// and we decide when the player goes.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminate asks the player's group to quit and kills it if it is still
// around after killGrace.
func terminate(cmd *exec.Cmd, exited <-chan struct{}) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	pgid := -cmd.Process.Pid
	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil {
		return cmd.Process.Kill()
	}

	select {
	case <-exited:
		return nil
	case <-time.After(killGrace):
		_ = syscall.Kill(pgid, syscall.SIGKILL)
		return cmd.Process.Kill()
	}
}
