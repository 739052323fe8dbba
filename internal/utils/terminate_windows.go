//go:build windows

package utils

import "os"

// TerminateProcess kills the process outright. Windows offers no portable
// cooperative shutdown signal for console children.
func TerminateProcess(p *os.Process) error {
	return p.Kill()
}
