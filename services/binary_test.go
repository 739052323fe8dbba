package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pushbridge/internal/config"
	"pushbridge/internal/platform"
)

// fakeRegistry mimics a GitHub-style release registry serving one release
// with a platform binary and a checksum manifest.
type fakeRegistry struct {
	server        *httptest.Server
	payload       []byte
	manifestSum   string // digest published in the manifest
	assetRequests int32
	blockAssets   bool // hold asset downloads open until the client gives up
}

func newFakeRegistry(t *testing.T, plat string) *fakeRegistry {
	t.Helper()
	fr := &fakeRegistry{}
	fr.payload = bytes.Repeat([]byte{0x42}, 1<<20+64)
	sum := sha256.Sum256(fr.payload)
	fr.manifestSum = hex.EncodeToString(sum[:])

	assetName := platform.BinaryFileName(plat)
	mux := http.NewServeMux()
	mux.HandleFunc("/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"tag_name": "v0.9.1",
			"assets": [
				{"name": "%s", "browser_download_url": "%s/assets/%s", "size": %d},
				{"name": "checksums.txt", "browser_download_url": "%s/assets/checksums.txt", "size": 100}
			]
		}`, assetName, fr.server.URL, assetName, len(fr.payload), fr.server.URL)
	})
	mux.HandleFunc("/assets/checksums.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s  %s\n", fr.manifestSum, assetName)
	})
	mux.HandleFunc("/assets/"+assetName, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fr.assetRequests, 1)
		if fr.blockAssets {
			<-r.Context().Done()
			return
		}
		w.Write(fr.payload)
	})
	fr.server = httptest.NewServer(mux)
	t.Cleanup(fr.server.Close)
	return fr
}

/**
 * Test fetch-mode binary resolution against a mock registry
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - The matching release asset is downloaded, checksum-validated against the
 *   manifest and a metadata sidecar is written next to it
 * - A second resolution with an up-to-date cache skips the download
 */
func TestEnsureBinaryFetch(t *testing.T) {
	plat := platform.CurrentPlatform()
	fr := newFakeRegistry(t, plat)
	cacheDir := t.TempDir()
	bm := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: fr.server.URL,
		CacheDir:    cacheDir,
	})

	path, err := bm.EnsureBinary(context.Background(), plat)
	if err != nil {
		t.Fatalf("EnsureBinary: %v", err)
	}
	if path != filepath.Join(cacheDir, platform.BinaryFileName(plat)) {
		t.Errorf("unexpected binary path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, fr.payload) {
		t.Fatalf("downloaded binary does not match served payload (err=%v)", err)
	}

	info, err := bm.Describe(plat)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if info.Version != "v0.9.1" || info.Checksum != fr.manifestSum || !info.Validated {
		t.Errorf("sidecar metadata = %+v", info)
	}

	if _, err := bm.EnsureBinary(context.Background(), plat); err != nil {
		t.Fatalf("second EnsureBinary: %v", err)
	}
	if n := atomic.LoadInt32(&fr.assetRequests); n != 1 {
		t.Errorf("asset downloaded %d times, want 1 (cache should satisfy the second call)", n)
	}
}

/**
 * Test checksum-mismatch handling
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - A corrupt asset is deleted and re-fetched exactly once before the
 *   resolution fails with a mismatch error
 */
func TestEnsureBinaryChecksumMismatch(t *testing.T) {
	plat := platform.CurrentPlatform()
	fr := newFakeRegistry(t, plat)
	fr.manifestSum = "0000000000000000000000000000000000000000000000000000000000000000"
	bm := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: fr.server.URL,
		CacheDir:    t.TempDir(),
	})

	_, err := bm.EnsureBinary(context.Background(), plat)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("EnsureBinary = %v, want ErrChecksumMismatch", err)
	}
	if n := atomic.LoadInt32(&fr.assetRequests); n != 2 {
		t.Errorf("asset downloaded %d times, want exactly 2 (one re-fetch)", n)
	}
}

/**
 * Test that canceling the context aborts a download promptly
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - The registry never finishes serving the asset, cancellation must not
 *   leave the resolution hanging until the HTTP client timeout
 */
func TestEnsureBinaryCanceledDownload(t *testing.T) {
	plat := platform.CurrentPlatform()
	fr := newFakeRegistry(t, plat)
	fr.blockAssets = true
	bm := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: fr.server.URL,
		CacheDir:    t.TempDir(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := bm.EnsureBinary(ctx, plat)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("EnsureBinary = %v, want ErrNetwork", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("cancellation took %v, want prompt abort", elapsed)
	}
}

/**
 * Test classification of a persistently short download
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - Without a checksum manifest the size floor is the only validation;
 *   a download under it fails as truncated, not as a checksum mismatch
 */
func TestEnsureBinaryTruncatedDownload(t *testing.T) {
	plat := platform.CurrentPlatform()
	assetName := platform.BinaryFileName(plat)
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/releases/latest":
			fmt.Fprintf(w, `{"tag_name": "v0.9.1", "assets": [
				{"name": "%s", "browser_download_url": "%s/assets/%s", "size": 16}
			]}`, assetName, server.URL, assetName)
		default:
			w.Write([]byte("way too short"))
		}
	}))
	defer server.Close()

	bm := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: server.URL,
		CacheDir:    t.TempDir(),
	})
	_, err := bm.EnsureBinary(context.Background(), plat)
	if !errors.Is(err, ErrTruncatedDownload) {
		t.Errorf("EnsureBinary = %v, want ErrTruncatedDownload", err)
	}
}

/**
 * Test resolution when the release carries no asset for the platform
 * @param {*testing.T} t - Testing framework instance
 */
func TestEnsureBinaryAssetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name": "v0.9.1", "assets": []}`)
	}))
	defer server.Close()

	bm := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: server.URL,
		CacheDir:    t.TempDir(),
	})
	_, err := bm.EnsureBinary(context.Background(), platform.CurrentPlatform())
	if !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("EnsureBinary = %v, want ErrAssetNotFound", err)
	}
}

/**
 * Test offline fallback to a previously validated cache
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - When the registry becomes unreachable, a cached binary that still
 *   matches its sidecar checksum keeps serving
 * - Without a usable cache the resolution fails as a network error
 */
func TestEnsureBinaryOfflineFallback(t *testing.T) {
	plat := platform.CurrentPlatform()
	fr := newFakeRegistry(t, plat)
	cacheDir := t.TempDir()
	cfg := config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: fr.server.URL,
		CacheDir:    cacheDir,
	}

	bm := NewBinaryManager(cfg)
	path, err := bm.EnsureBinary(context.Background(), plat)
	if err != nil {
		t.Fatalf("initial EnsureBinary: %v", err)
	}

	fr.server.Close()
	got, err := bm.EnsureBinary(context.Background(), plat)
	if err != nil || got != path {
		t.Errorf("offline EnsureBinary = (%q, %v), want cached %q", got, err, path)
	}

	cold := NewBinaryManager(config.BinaryConfig{
		Mode:        "fetch",
		RegistryURL: fr.server.URL,
		CacheDir:    t.TempDir(),
	})
	if _, err := cold.EnsureBinary(context.Background(), plat); !errors.Is(err, ErrNetwork) {
		t.Errorf("offline EnsureBinary without cache = %v, want ErrNetwork", err)
	}
}

/**
 * Test bundled-mode resolution
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - The bundled binary is returned straight from the bundle directory
 * - A missing bundle entry fails with a not-found error
 */
func TestEnsureBinaryBundled(t *testing.T) {
	plat := platform.CurrentPlatform()
	dir := t.TempDir()
	path := filepath.Join(dir, platform.BinaryFileName(plat))
	if err := os.WriteFile(path, bytes.Repeat([]byte{1}, 2048), 0755); err != nil {
		t.Fatal(err)
	}

	bm := NewBinaryManager(config.BinaryConfig{Mode: "bundled", BundledDir: dir})
	got, err := bm.EnsureBinary(context.Background(), plat)
	if err != nil || got != path {
		t.Errorf("bundled EnsureBinary = (%q, %v), want %q", got, err, path)
	}

	empty := NewBinaryManager(config.BinaryConfig{Mode: "bundled", BundledDir: t.TempDir()})
	if _, err := empty.EnsureBinary(context.Background(), plat); !errors.Is(err, ErrBinaryNotFound) {
		t.Errorf("bundled EnsureBinary without binary = %v, want ErrBinaryNotFound", err)
	}
}
