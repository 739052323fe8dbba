//go:build windows

package utils

import (
	"path/filepath"
	"strings"
)

// IsExecutable reports whether the file carries the .exe extension. Windows
// has no execute permission bit.
func IsExecutable(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".exe")
}

// MakeExecutable is a no-op on Windows.
func MakeExecutable(path string) error {
	return nil
}
