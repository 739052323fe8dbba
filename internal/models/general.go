package models

import "time"

// ErrorResponse defines API error response format
type ErrorResponse struct {
	Error string `json:"error"`
}

// TunnelResponse defines tunnel operation success response format
type TunnelResponse struct {
	Status  string `json:"status"`  // operation status
	Message string `json:"message"` // response message
}

// AgentState summarizes the running agent for the state endpoint
type AgentState struct {
	Version    string    `json:"version"`
	StartTime  time.Time `json:"startTime"`
	Platform   string    `json:"platform"`
	BinaryMode string    `json:"binaryMode"`
	Tunnel     string    `json:"tunnel"` // human status line of the supervised tunnel
	TunnelURL  string    `json:"tunnelUrl,omitempty"`
}
