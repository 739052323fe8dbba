package platform

import (
	"strings"
	"testing"
)

/**
 * Test platform identifier resolution
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Known OS/arch pairs map to their canonical "{os}_{arch}" identifier
 * - Unknown architectures fall back to amd64
 * - Unknown operating systems fall back to linux
 */
func TestResolve(t *testing.T) {
	cases := []struct {
		goos   string
		goarch string
		want   string
	}{
		{"windows", "amd64", "windows_amd64"},
		{"windows", "386", "windows_386"},
		{"linux", "amd64", "linux_amd64"},
		{"linux", "arm64", "linux_arm64"},
		{"linux", "arm", "linux_arm"},
		{"darwin", "arm64", "darwin_arm64"},
		{"darwin", "amd64", "darwin_amd64"},
		// unknown arch falls back to amd64
		{"linux", "riscv64", "linux_amd64"},
		{"windows", "mips", "windows_amd64"},
		// unknown OS falls back to linux
		{"freebsd", "amd64", "linux_amd64"},
		{"plan9", "arm64", "linux_arm64"},
		// both unknown
		{"aix", "ppc64", "linux_amd64"},
	}
	for _, c := range cases {
		got := Resolve(c.goos, c.goarch)
		if got != c.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", c.goos, c.goarch, got, c.want)
		}
	}
}

/**
 * Test binary file name construction
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Windows platforms get the ".exe" suffix, others do not
 */
func TestBinaryFileName(t *testing.T) {
	if got := BinaryFileName("windows_amd64"); got != "frpc_windows_amd64.exe" {
		t.Errorf("BinaryFileName(windows_amd64) = %q", got)
	}
	if got := BinaryFileName("linux_arm64"); got != "frpc_linux_arm64" {
		t.Errorf("BinaryFileName(linux_arm64) = %q", got)
	}
	if got := BinaryFileName("darwin_amd64"); got != "frpc_darwin_amd64" {
		t.Errorf("BinaryFileName(darwin_amd64) = %q", got)
	}
}

/**
 * Test metadata sidecar file name construction
 * @param {*testing.T} t - Testing framework instance
 */
func TestMetadataFileName(t *testing.T) {
	if got := MetadataFileName("linux_amd64"); got != "frpc_linux_amd64_info.json" {
		t.Errorf("MetadataFileName(linux_amd64) = %q", got)
	}
}

/**
 * Test current platform detection
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Never fails, always yields a well-formed "{os}_{arch}" identifier
 */
func TestCurrentPlatform(t *testing.T) {
	plat := CurrentPlatform()
	if plat == "" {
		t.Fatal("CurrentPlatform returned empty string")
	}
	parts := strings.Split(plat, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		t.Errorf("CurrentPlatform() = %q, want \"os_arch\" form", plat)
	}
}
