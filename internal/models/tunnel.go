package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

/**
 * TunnelConfig describes one tunnel session to the relay server.
 * Immutable after validation, a session never mutates its config.
 * @property {string} localAddr - Local bind address exposed through the tunnel
 * @property {int} localPort - Local port to expose (1-65535)
 * @property {string} serverAddr - Relay server address, required
 * @property {int} serverPort - Relay server port (1-65535)
 * @property {string} proxyName - Unique session identifier on the relay, required
 */
type TunnelConfig struct {
	LocalAddr      string `json:"localAddr"`
	LocalPort      int    `json:"localPort"`
	ServerAddr     string `json:"serverAddr"`
	ServerPort     int    `json:"serverPort"`
	Token          string `json:"token,omitempty"`
	User           string `json:"user,omitempty"`
	ProxyName      string `json:"proxyName"`
	Subdomain      string `json:"subdomain,omitempty"`
	CustomDomain   string `json:"customDomain,omitempty"`
	UseTLS         bool   `json:"useTls"`
	UseEncryption  bool   `json:"useEncryption"`
	UseCompression bool   `json:"useCompression"`
	Protocol       string `json:"protocol,omitempty"`
	LogLevel       string `json:"logLevel,omitempty"`
}

/**
 * Validate tunnel configuration invariants
 * @returns {error} Returns nil when the config is usable, descriptive error otherwise
 * @description
 * - Local and server ports must be in [1,65535]
 * - ProxyName and ServerAddr must be non-empty
 * - Side-effect free, always called before any process is spawned
 */
func (c *TunnelConfig) Validate() error {
	if c.LocalPort < 1 || c.LocalPort > 65535 {
		return fmt.Errorf("local port %d out of range [1,65535]", c.LocalPort)
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port %d out of range [1,65535]", c.ServerPort)
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		return fmt.Errorf("server address is required")
	}
	if strings.TrimSpace(c.ProxyName) == "" {
		return fmt.Errorf("proxy name is required")
	}
	return nil
}

/**
 * Build command-line arguments for the tunnel client binary
 * @returns {[]string} Returns deterministic, order-stable argument list
 * @description
 * - Every populated field maps to one frpc flag, empty optionals are omitted
 * - Values are raw, exec passes each list element as its own argv entry;
 *   quoting happens only when rendering via CommandLine
 */
func (c *TunnelConfig) BuildArguments() []string {
	localAddr := c.LocalAddr
	if localAddr == "" {
		localAddr = "127.0.0.1"
	}
	proxyType := "tcp"
	if c.Subdomain != "" || c.CustomDomain != "" {
		proxyType = "http"
	}

	args := []string{
		proxyType,
		"--server-addr", c.ServerAddr,
		"--server-port", strconv.Itoa(c.ServerPort),
		"--proxy-name", c.ProxyName,
		"--local-ip", localAddr,
		"--local-port", strconv.Itoa(c.LocalPort),
	}
	if c.Token != "" {
		args = append(args, "--token", c.Token)
	}
	if c.User != "" {
		args = append(args, "--user", c.User)
	}
	if c.Subdomain != "" {
		args = append(args, "--sd", c.Subdomain)
	}
	if c.CustomDomain != "" {
		args = append(args, "--custom-domain", c.CustomDomain)
	}
	if c.UseTLS {
		args = append(args, "--tls-enable")
	}
	if c.UseEncryption {
		args = append(args, "--ue")
	}
	if c.UseCompression {
		args = append(args, "--uc")
	}
	if c.Protocol != "" {
		args = append(args, "--protocol", c.Protocol)
	}
	if c.LogLevel != "" {
		args = append(args, "--log-level", c.LogLevel)
	}
	return args
}

/**
 * Render the full invocation as one shell-safe command line
 * @param {string} binPath - Tunnel client binary path
 * @returns {string} Returns binary and arguments joined with quoting applied
 * @description
 * - For logs and diagnostics only; joining raw values could make a value
 *   with whitespace read as several arguments, so quoting happens here,
 *   at the rendering boundary, never in the argv list itself
 */
func (c *TunnelConfig) CommandLine(binPath string) string {
	parts := []string{QuoteArg(binPath)}
	for _, arg := range c.BuildArguments() {
		parts = append(parts, QuoteArg(arg))
	}
	return strings.Join(parts, " ")
}

/**
 * Create tunnel configuration with generated session identity
 * @param {int} localPort - Local port the notification endpoint listens on
 * @param {string} serverAddr - Relay server address
 * @returns {TunnelConfig} Returns config with fresh unique proxy name and subdomain
 * @description
 * - Proxy name and subdomain embed a random UUID fragment so repeated
 *   sessions do not collide on the relay server
 */
func CreateDefault(localPort int, serverAddr string) TunnelConfig {
	id := strings.Split(uuid.NewString(), "-")[0]
	return TunnelConfig{
		LocalAddr:  "127.0.0.1",
		LocalPort:  localPort,
		ServerAddr: serverAddr,
		ServerPort: 7000,
		ProxyName:  fmt.Sprintf("pushbridge-%s", id),
		Subdomain:  fmt.Sprintf("pb-%s", id),
		UseTLS:     true,
		Protocol:   "tcp",
		LogLevel:   "info",
	}
}

// QuoteArg wraps values containing whitespace in double quotes, escaping
// embedded quotes. Plain values pass through untouched.
func QuoteArg(s string) string {
	if !strings.ContainsAny(s, " \t\n\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
