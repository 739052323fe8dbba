//go:build !windows

package utils

import (
	"os"
	"syscall"
)

// TerminateProcess requests cooperative shutdown via SIGTERM. The caller is
// responsible for escalating to Kill when the grace period expires.
func TerminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
