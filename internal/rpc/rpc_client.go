package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"pushbridge/internal/logger"
)

type httpClient struct {
	config *ClientConfig
	client *http.Client
}

/**
 * Create HTTP client for the local agent server
 * @param {*ClientConfig} config - Client configuration, nil for defaults
 * @returns {Client} Returns client interface
 */
func NewClient(config *ClientConfig) Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	return &httpClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

func (c *httpClient) Get(path string) (*Response, error) {
	return c.do("GET", path, nil)
}

func (c *httpClient) Post(path string, data interface{}) (*Response, error) {
	return c.do("POST", path, data)
}

func (c *httpClient) Delete(path string) (*Response, error) {
	return c.do("DELETE", path, nil)
}

func (c *httpClient) do(method, path string, data interface{}) (*Response, error) {
	urlStr, err := buildURL(c.config.Address, path)
	if err != nil {
		return nil, err
	}
	var body *bytes.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request body: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	logger.Debugf("Sending %s request to %s", method, urlStr)
	req, err := http.NewRequest(method, urlStr, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return deserializeResponse(resp)
}
