package models

import "time"

/**
 * BinaryInfo describes one resolved tunnel client binary. Persisted as a JSON
 * sidecar next to the binary so later resolutions can skip re-download while
 * the cached copy still validates.
 */
type BinaryInfo struct {
	Version     string    `json:"version"`
	Path        string    `json:"path"`
	FileName    string    `json:"fileName"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	Checksum    string    `json:"checksum"`
	Size        int64     `json:"size"`
	Platform    string    `json:"platform"`
	LastUpdated time.Time `json:"lastUpdated"`
	Validated   bool      `json:"validated"`
	Executable  bool      `json:"executable"`
}
