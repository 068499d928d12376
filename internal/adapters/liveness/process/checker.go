// Package process checks session liveness by signalling the recorded PID.
package process

import (
	"errors"
	"os"
	"syscall"

	"github.com/bnema/rsessions/internal/ports"
)

// Checker reports liveness for processes on this host.
type Checker struct{}

var _ ports.LivenessChecker = Checker{}

// Alive sends signal 0, which checks for existence without affecting the
// process. EPERM means the process exists but belongs to another user.
func (Checker) Alive(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
