package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"pushbridge/internal/logger"
)

// MinBinarySize guards against truncated downloads: no real tunnel client
// binary is smaller than 1 MiB.
const MinBinarySize = 1 << 20

/**
 * Calculate SHA-256 checksum of a file
 * @param {string} path - File path to hash
 * @returns {(int64, string, error)} Returns file size, lowercase hex digest and error
 * @description
 * - Streams the file through the hash, never loads it into memory whole
 */
func CalcFileSha256(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", fmt.Errorf("CalcFileSha256('%s'): %v", path, err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", fmt.Errorf("CalcFileSha256('%s'): %v", path, err)
	}
	return size, hex.EncodeToString(h.Sum(nil)), nil
}

/**
 * Validate a tunnel binary file
 * @param {string} path - Binary file path
 * @param {string} expectedChecksum - Expected SHA-256 hex digest, empty to skip comparison
 * @returns {bool} Returns true when the file exists, is plausibly sized and matches
 * @description
 * - Expected failure conditions (missing file, short file, mismatch) log and
 *   return false rather than erroring
 */
func ValidateBinary(path string, expectedChecksum string) bool {
	info, err := os.Stat(path)
	if err != nil {
		logger.Warnf("Binary '%s' is not accessible: %v", path, err)
		return false
	}
	if info.Size() < MinBinarySize {
		logger.Warnf("Binary '%s' is too small (%d bytes), likely truncated", path, info.Size())
		return false
	}
	if expectedChecksum == "" {
		return true
	}
	_, sum, err := CalcFileSha256(path)
	if err != nil {
		logger.Warnf("Checksum calculation for '%s' failed: %v", path, err)
		return false
	}
	if sum != expectedChecksum {
		logger.Warnf("Checksum mismatch for '%s': expected %s, got %s", path, expectedChecksum, sum)
		return false
	}
	return true
}
