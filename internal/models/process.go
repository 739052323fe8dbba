package models

import (
	"fmt"
	"time"
)

type RunState string

const (
	// Freshly constructed supervisor, nothing ever started
	StateIdle RunState = "idle"
	// Process launched, public URL not discovered yet
	StateStarting RunState = "starting"
	// Tunnel established, public URL known
	StateRunning RunState = "running"
	// Graceful shutdown in progress
	StateStopping RunState = "stopping"
	// Stopped by an explicit Stop call, or start attempt failed
	StateStopped RunState = "stopped"
	// Process exited without an explicit Stop call
	StateCrashed RunState = "crashed"
)

/**
 * ProcessStatus is the supervisor's single source of truth for one tunnel
 * session. The supervisor owns the live instance, callers only ever receive
 * value snapshots.
 * @property {int} pid - OS process id, 0 when not running
 * @property {*TunnelConfig} config - Config that produced the process, retained
 *                                    across stop so Restart needs no resupply
 * @property {*int} exitCode - Exit code once the process ended, nil before
 */
type ProcessStatus struct {
	Pid          int           `json:"pid"`
	Running      bool          `json:"running"`
	State        RunState      `json:"state"`
	StartTime    time.Time     `json:"startTime"`
	LastChecked  time.Time     `json:"lastChecked"`
	TunnelURL    string        `json:"tunnelUrl,omitempty"`
	Config       *TunnelConfig `json:"config,omitempty"`
	ExitCode     *int          `json:"exitCode,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	Output       []string      `json:"output,omitempty"`
}

// Uptime reports how long the process has been running. Valid only while
// Running is true.
func (s *ProcessStatus) Uptime() time.Duration {
	if !s.Running || s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}

/**
 * Human readable status line
 * @returns {string} Returns one-line status description
 */
func (s *ProcessStatus) Description() string {
	switch s.State {
	case StateStarting:
		return "Starting..."
	case StateRunning:
		return fmt.Sprintf("Running - tunnel active at %s", s.TunnelURL)
	case StateStopping:
		return "Stopping..."
	case StateCrashed:
		if s.ExitCode != nil {
			return fmt.Sprintf("Exited with code %d", *s.ExitCode)
		}
		return "Exited unexpectedly"
	case StateStopped:
		if s.ErrorMessage != "" {
			return fmt.Sprintf("Stopped: %s", s.ErrorMessage)
		}
		return "Stopped"
	default:
		return "Idle"
	}
}
