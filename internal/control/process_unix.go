//go:build unix

package control

import (
	"errors"
	"syscall"
)

// detachAttr puts the recorder in its own process group so it survives the
// terminal that launched it.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func interruptProcess(pid int) error {
	return syscall.Kill(pid, syscall.SIGINT)
}

func terminateProcess(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}
