package utils

import (
	"github.com/shirou/gopsutil/v3/process"
)

/**
 * Check whether a process is currently running
 * @param {int} pid - Process ID to check
 * @returns {(bool, error)} Returns running flag and error
 * @description
 * - Asks the OS process table rather than trusting cached handles, the
 *   process may have exited without its wait result being observed yet
 */
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, nil
	}
	return process.PidExists(int32(pid))
}
