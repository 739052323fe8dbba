package services

import "errors"

// Error taxonomy of the tunnel subsystem. Validation and binary-resolution
// failures surface synchronously to the Start caller; runtime crashes are
// reported through status and events only, never as errors.
var (
	ErrConfigValidation   = errors.New("invalid tunnel configuration")
	ErrBinaryNotFound     = errors.New("tunnel binary not found")
	ErrAssetNotFound      = errors.New("no release asset matches platform")
	ErrChecksumMismatch   = errors.New("binary checksum mismatch")
	ErrTruncatedDownload  = errors.New("truncated binary download")
	ErrNetwork            = errors.New("release registry unreachable")
	ErrProcessStart       = errors.New("failed to start tunnel process")
	ErrTerminationTimeout = errors.New("tunnel process did not terminate")
	ErrNoConfiguration    = errors.New("no tunnel configuration available, call Start first")
)
