package services

import (
	"fmt"
	"regexp"
)

// URL discovery matches informal, unversioned text in the tunnel client's
// output. Best-effort heuristic, not a stable contract: unmatched lines are
// logged at debug level for diagnosis.
var (
	// structured success line, e.g.
	// "[pushbridge-1a2b] start proxy success: http listen on 1.2.3.4:8080"
	proxyStartedPattern = regexp.MustCompile(`start proxy success\S*\s+(https?)\s+listen on\s+([A-Za-z0-9_.-]+:\d{1,5})`)

	// loose fallback, any bare URL appearing in the line
	bareURLPattern = regexp.MustCompile(`https?://[^\s"']+`)
)

/**
 * Extract the public tunnel URL from one output line
 * @param {string} line - Raw stdout/stderr line from the tunnel client
 * @returns {(string, bool)} Returns detected URL and whether a pattern matched
 * @description
 * - The structured "start proxy success" pattern wins over the bare-URL fallback
 */
func DetectTunnelURL(line string) (string, bool) {
	if m := proxyStartedPattern.FindStringSubmatch(line); m != nil {
		return fmt.Sprintf("%s://%s", m[1], m[2]), true
	}
	if m := bareURLPattern.FindString(line); m != "" {
		return m, true
	}
	return "", false
}
