package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// BinaryBaseName is the file-name stem of the tunnel client executable.
const BinaryBaseName = "frpc"

/**
 * Get canonical platform identifier for the running host
 * @returns {string} Returns "{os}_{arch}" (e.g. "windows_amd64", "darwin_arm64")
 * @description
 * - Pure function over runtime.GOOS/GOARCH, never fails
 * - Unknown architectures fall back to amd64, unknown systems to linux
 */
func CurrentPlatform() string {
	return Resolve(runtime.GOOS, runtime.GOARCH)
}

// Resolve maps an OS/architecture pair to the identifier used to pick
// tunnel binary file names.
func Resolve(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64", "386", "arm64", "arm":
	default:
		arch = "amd64"
	}

	switch goos {
	case "windows", "linux", "darwin":
		return fmt.Sprintf("%s_%s", goos, arch)
	default:
		return fmt.Sprintf("linux_%s", arch)
	}
}

// BinaryFileName returns the expected tunnel binary file name for a platform,
// with the ".exe" suffix on Windows.
func BinaryFileName(platform string) string {
	name := fmt.Sprintf("%s_%s", BinaryBaseName, platform)
	if strings.HasPrefix(platform, "windows") {
		name += ".exe"
	}
	return name
}

// MetadataFileName returns the sidecar file name holding the serialized
// BinaryInfo for a platform's cached binary.
func MetadataFileName(platform string) string {
	return fmt.Sprintf("%s_%s_info.json", BinaryBaseName, platform)
}
