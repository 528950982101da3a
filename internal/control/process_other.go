//go:build !unix

package control

import (
	"os"
	"syscall"
)

func detachAttr() *syscall.SysProcAttr { return nil }

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// interruptProcess falls back to a kill where SIGINT cannot be delivered.
func interruptProcess(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := p.Signal(os.Interrupt); err == nil {
		return nil
	}
	return p.Kill()
}

func terminateProcess(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
