package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/internal/models"
	"pushbridge/internal/platform"
	"pushbridge/internal/utils"
)

// BinaryResolver guarantees a validated tunnel binary is present locally.
type BinaryResolver interface {
	EnsureBinary(ctx context.Context, plat string) (string, error)
}

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type releaseInfo struct {
	TagName string         `json:"tag_name"`
	Assets  []releaseAsset `json:"assets"`
}

/**
 * BinaryManager resolves the tunnel client binary for the current platform.
 * Two strategies, selected by configuration:
 * - bundled: the binary for every supported platform ships with the app
 * - fetch: latest release metadata is queried from a registry and the
 *   matching asset downloaded to a cache directory, checksum-validated
 */
type BinaryManager struct {
	cfg config.BinaryConfig
}

func NewBinaryManager(cfg config.BinaryConfig) *BinaryManager {
	return &BinaryManager{cfg: cfg}
}

/**
 * Guarantee a validated, executable binary for a platform
 * @param {context.Context} ctx - Cancellation context, honored during downloads
 * @param {string} plat - Canonical platform id (e.g. "linux_amd64")
 * @returns {(string, error)} Returns local binary path and error
 */
func (bm *BinaryManager) EnsureBinary(ctx context.Context, plat string) (string, error) {
	if bm.cfg.Mode == "bundled" {
		return bm.ensureBundled(plat)
	}
	return bm.ensureFetched(ctx, plat)
}

func (bm *BinaryManager) ensureBundled(plat string) (string, error) {
	path := filepath.Join(bm.cfg.BundledDir, platform.BinaryFileName(plat))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: expected bundled binary at '%s'", ErrBinaryNotFound, path)
	}
	if err := utils.MakeExecutable(path); err != nil {
		return "", fmt.Errorf("failed to mark '%s' executable: %w", path, err)
	}
	return path, nil
}

/**
 * Resolve binary via the release registry
 * @description
 * - Queries latest release metadata and locates the asset whose name starts
 *   with the platform's expected binary file name
 * - A cached copy that still validates against fresh metadata skips download
 * - On checksum mismatch the file is deleted and re-fetched exactly once
 * - When the registry is unreachable, a cached copy validating against its
 *   sidecar metadata is used so the agent keeps working offline
 */
func (bm *BinaryManager) ensureFetched(ctx context.Context, plat string) (string, error) {
	binPath := filepath.Join(bm.cfg.CacheDir, platform.BinaryFileName(plat))
	infoPath := filepath.Join(bm.cfg.CacheDir, platform.MetadataFileName(plat))
	cached := loadBinaryInfo(infoPath)

	rel, err := bm.latestRelease(ctx)
	if err != nil {
		if cached != nil && utils.ValidateBinary(binPath, cached.Checksum) {
			logger.Warnf("Release registry unreachable, using cached binary %s (%s): %v",
				binPath, cached.Version, err)
			return binPath, nil
		}
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	wantPrefix := platform.BinaryFileName(plat)
	var asset *releaseAsset
	for i := range rel.Assets {
		if strings.HasPrefix(rel.Assets[i].Name, wantPrefix) {
			asset = &rel.Assets[i]
			break
		}
	}
	if asset == nil {
		return "", fmt.Errorf("%w: platform %s in release %s", ErrAssetNotFound, plat, rel.TagName)
	}

	sums := bm.checksumManifest(ctx, rel)
	expected := sums[asset.Name]

	if cached != nil && cached.Version == rel.TagName && utils.ValidateBinary(binPath, expected) {
		logger.Debugf("Cached binary %s (%s) still validates, skipping download", binPath, rel.TagName)
		return binPath, nil
	}

	var gotSum string
	var gotSize int64
	for attempt := 1; attempt <= 2; attempt++ {
		if err := utils.GetFile(ctx, asset.BrowserDownloadURL, binPath); err != nil {
			return "", fmt.Errorf("%w: download '%s' failed: %v", ErrNetwork, asset.BrowserDownloadURL, err)
		}
		size, sum, err := utils.CalcFileSha256(binPath)
		if err != nil {
			return "", err
		}
		gotSum = sum
		gotSize = size
		if size >= utils.MinBinarySize && (expected == "" || sum == expected) {
			if err := utils.MakeExecutable(binPath); err != nil {
				return "", fmt.Errorf("failed to mark '%s' executable: %w", binPath, err)
			}
			bm.saveBinaryInfo(infoPath, models.BinaryInfo{
				Version:     rel.TagName,
				Path:        binPath,
				FileName:    filepath.Base(binPath),
				DownloadURL: asset.BrowserDownloadURL,
				Checksum:    sum,
				Size:        size,
				Platform:    plat,
				LastUpdated: time.Now(),
				Validated:   true,
				Executable:  utils.IsExecutable(binPath),
			})
			logger.Infof("Tunnel binary %s (%s) ready at %s", asset.Name, rel.TagName, binPath)
			return binPath, nil
		}
		logger.Warnf("Downloaded binary failed validation (attempt %d/2), deleting and re-fetching", attempt)
		os.Remove(binPath)
	}
	if gotSize < utils.MinBinarySize {
		return "", fmt.Errorf("%w: asset '%s' is only %d bytes", ErrTruncatedDownload, asset.Name, gotSize)
	}
	return "", fmt.Errorf("%w: asset '%s' expected %s, got %s", ErrChecksumMismatch, asset.Name, expected, gotSum)
}

/**
 * Describe the currently resolved binary without touching the network
 * @param {string} plat - Canonical platform id
 * @returns {(*models.BinaryInfo, error)} Returns binary metadata, error when nothing is resolved
 */
func (bm *BinaryManager) Describe(plat string) (*models.BinaryInfo, error) {
	if bm.cfg.Mode == "bundled" {
		path := filepath.Join(bm.cfg.BundledDir, platform.BinaryFileName(plat))
		st, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: expected bundled binary at '%s'", ErrBinaryNotFound, path)
		}
		return &models.BinaryInfo{
			Version:     "bundled",
			Path:        path,
			FileName:    filepath.Base(path),
			Size:        st.Size(),
			Platform:    plat,
			LastUpdated: st.ModTime(),
			Validated:   st.Size() >= utils.MinBinarySize,
			Executable:  utils.IsExecutable(path),
		}, nil
	}

	infoPath := filepath.Join(bm.cfg.CacheDir, platform.MetadataFileName(plat))
	info := loadBinaryInfo(infoPath)
	if info == nil {
		return nil, fmt.Errorf("%w: no cached binary for platform %s", ErrBinaryNotFound, plat)
	}
	// refresh flags, the cache may have been tampered with since the sidecar was written
	info.Validated = utils.ValidateBinary(info.Path, info.Checksum)
	info.Executable = utils.IsExecutable(info.Path)
	return info, nil
}

func (bm *BinaryManager) latestRelease(ctx context.Context) (*releaseInfo, error) {
	urlStr := fmt.Sprintf("%s/releases/latest", strings.TrimSuffix(bm.cfg.RegistryURL, "/"))
	data, err := utils.GetBytes(ctx, urlStr, nil)
	if err != nil {
		return nil, err
	}
	rel := &releaseInfo{}
	if err := json.Unmarshal(data, rel); err != nil {
		return nil, fmt.Errorf("latestRelease('%s') unmarshal error: %v", urlStr, err)
	}
	return rel, nil
}

/**
 * Download and parse the release's checksum manifest
 * @returns {map[string]string} Returns asset name to SHA-256 hex digest mapping
 * @description
 * - Manifest lines follow the coreutils format: "<hash>  <filename>"
 * - A release without a manifest yields an empty map, download validation
 *   then falls back to the size floor alone
 */
func (bm *BinaryManager) checksumManifest(ctx context.Context, rel *releaseInfo) map[string]string {
	sums := map[string]string{}
	var manifest *releaseAsset
	for i := range rel.Assets {
		name := rel.Assets[i].Name
		if strings.Contains(name, "checksums") || strings.HasSuffix(name, ".sha256") {
			manifest = &rel.Assets[i]
			break
		}
	}
	if manifest == nil {
		logger.Warnf("Release %s publishes no checksum manifest", rel.TagName)
		return sums
	}
	data, err := utils.GetBytes(ctx, manifest.BrowserDownloadURL, nil)
	if err != nil {
		logger.Warnf("Failed to download checksum manifest '%s': %v", manifest.Name, err)
		return sums
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimPrefix(fields[1], "*")
		sums[name] = fields[0]
	}
	return sums
}

func loadBinaryInfo(path string) *models.BinaryInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var info models.BinaryInfo
	if err := json.Unmarshal(data, &info); err != nil {
		logger.Warnf("Corrupt binary metadata sidecar '%s': %v", path, err)
		return nil
	}
	return &info
}

func (bm *BinaryManager) saveBinaryInfo(path string, info models.BinaryInfo) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logger.Errorf("Failed to serialize binary metadata: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Errorf("Failed to create metadata directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Errorf("Failed to write binary metadata sidecar '%s': %v", path, err)
	}
}
