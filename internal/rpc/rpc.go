package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pushbridge/internal/config"
	"pushbridge/internal/models"
)

// Client is the HTTP interface the CLI uses to talk to a locally running
// agent server before falling back to in-process management.
type Client interface {
	Get(path string) (*Response, error)
	Post(path string, data interface{}) (*Response, error)
	Delete(path string) (*Response, error)
}

type ClientConfig struct {
	Address string        // agent server listen address
	Timeout time.Duration // per-request timeout
}

// DefaultClientConfig points at the configured local agent server.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Address: config.Config.Server.Address,
		Timeout: 5 * time.Second,
	}
}

// Response is a decoded agent API reply.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       []byte `json:"body"`
	Error      string `json:"error"`
}

// OK reports whether the reply carries a success status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func buildURL(address, path string) (string, error) {
	u, err := url.Parse("http://" + address)
	if err != nil {
		return "", fmt.Errorf("invalid server address '%s': %w", address, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String(), nil
}

func deserializeResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()
	out := &Response{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	out.Body = body
	decodeBody(out)
	return out, nil
}

// decodeBody fills Error from the standard error payload on failure replies.
func decodeBody(out *Response) {
	if out.OK() || len(out.Body) == 0 {
		if !out.OK() && out.Error == "" {
			out.Error = http.StatusText(out.StatusCode)
		}
		return
	}
	var errBody models.ErrorResponse
	if err := json.Unmarshal(out.Body, &errBody); err == nil && errBody.Error != "" {
		out.Error = errBody.Error
		return
	}
	out.Error = http.StatusText(out.StatusCode)
}
