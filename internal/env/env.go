package env

import (
	"os"
	"path/filepath"
)

var Version string = "dev"

// (default: %USERPROFILE%/.pushbridge on Windows, $HOME/.pushbridge on Linux/macOS)
var PushbridgeDir string = GetPushbridgeDir()

/**
 * Get pushbridge data directory path
 * @returns {string} Returns pushbridge directory path
 */
func GetPushbridgeDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".pushbridge")
}
