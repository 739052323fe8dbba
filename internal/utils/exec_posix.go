//go:build !windows

package utils

import "os"

// IsExecutable reports whether the user-execute permission bit is set.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&0100 != 0
}

/**
 * Set user read/write/execute bits on a binary
 * @param {string} path - Binary file path
 * @returns {error} Returns error if chmod fails, nil on success
 * @description
 * - Idempotent, already-executable files are left unchanged
 */
func MakeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode()
	if mode&0700 == 0700 {
		return nil
	}
	return os.Chmod(path, mode|0700)
}
