//go:build !windows

package process

import "syscall"

// KillGroup kills the browser and every renderer it forked by sending
// SIGKILL to the process group (negative PID).
func KillGroup(pid int) {
	if pid <= 0 {
		return
	}
	// launcher.Kill() runs afterwards and covers a failed group kill.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
