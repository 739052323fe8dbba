package services

import "testing"

/**
 * Test tunnel URL extraction from client output lines
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - The structured "start proxy success" line yields a scheme://host:port URL
 * - Lines carrying a bare URL match through the fallback pattern
 * - Ordinary log lines do not match
 */
func TestDetectTunnelURL(t *testing.T) {
	cases := []struct {
		line    string
		wantURL string
		wantOK  bool
	}{
		{
			"[pushbridge-1a2b] start proxy success: http listen on 1.2.3.4:8080",
			"http://1.2.3.4:8080", true,
		},
		{
			"2026/08/30 12:00:01 [I] [proxy.go:204] [pb-9f] start proxy success: https listen on relay.pushbridge.io:443",
			"https://relay.pushbridge.io:443", true,
		},
		{
			"tunnel established at https://pb-1a2b.relay.pushbridge.io/push",
			"https://pb-1a2b.relay.pushbridge.io/push", true,
		},
		{"login to server success, get run id [abc]", "", false},
		{"[W] [control.go:169] token mismatch", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		url, ok := DetectTunnelURL(c.line)
		if ok != c.wantOK || url != c.wantURL {
			t.Errorf("DetectTunnelURL(%q) = (%q, %v), want (%q, %v)",
				c.line, url, ok, c.wantURL, c.wantOK)
		}
	}
}

/**
 * Test pattern precedence
 * @param {*testing.T} t - Testing framework instance
 * @description
 * - When both patterns could fire, the structured one wins
 */
func TestDetectTunnelURLPrecedence(t *testing.T) {
	line := "visit http://docs.example.com - start proxy success: https listen on 10.0.0.1:443"
	url, ok := DetectTunnelURL(line)
	if !ok || url != "https://10.0.0.1:443" {
		t.Errorf("structured pattern should win, got (%q, %v)", url, ok)
	}
}
