package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

var httpClient = &http.Client{Timeout: 5 * time.Minute}

/**
 * Fetch the content of a remote file
 * @param {context.Context} ctx - Cancellation context, honored promptly
 * @param {string} urlStr - Resource URL
 * @param {map[string]string} params - Optional query parameters
 * @returns {([]byte, error)} Returns response body and error
 */
func GetBytes(ctx context.Context, urlStr string, params map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("GetBytes: %v", err)
	}
	if len(params) > 0 {
		vals := make(url.Values)
		for k, v := range params {
			vals.Set(k, v)
		}
		req.URL.RawQuery = vals.Encode()
	}

	rsp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GetBytes: %v", err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != 200 {
		rspBody, _ := io.ReadAll(rsp.Body)
		return rspBody, fmt.Errorf("GetBytes('%s') code:%d, error:%s",
			urlStr, rsp.StatusCode, string(rspBody))
	}
	return io.ReadAll(rsp.Body)
}

/**
 * Download a remote file to a local path
 * @param {context.Context} ctx - Cancellation context, aborts the transfer mid-stream
 * @param {string} urlStr - Resource URL
 * @param {string} savePath - Destination file path, parent directories are created
 * @returns {error} Returns error if download or write fails, nil on success
 */
func GetFile(ctx context.Context, urlStr string, savePath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return fmt.Errorf("GetFile('%s') failed: %v", urlStr, err)
	}

	rsp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GetFile('%s') failed: %v", urlStr, err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != 200 {
		rspBody, _ := io.ReadAll(rsp.Body)
		return fmt.Errorf("GetFile('%s') code: %d, error:%s",
			urlStr, rsp.StatusCode, string(rspBody))
	}

	if err = os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return fmt.Errorf("GetFile('%s'): MkdirAll('%s') error:%v", urlStr, savePath, err)
	}
	out, err := os.Create(savePath)
	if err != nil {
		return fmt.Errorf("GetFile('%s'): create('%s') error: %v", urlStr, savePath, err)
	}
	defer out.Close()

	if _, err = io.Copy(out, rsp.Body); err != nil {
		return fmt.Errorf("GetFile('%s'): copy error: %v", urlStr, err)
	}
	return nil
}
