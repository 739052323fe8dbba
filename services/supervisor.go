package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"pushbridge/internal/config"
	"pushbridge/internal/logger"
	"pushbridge/internal/models"
	"pushbridge/internal/platform"
	"pushbridge/internal/utils"
)

type SupervisorOptions struct {
	GracefulTimeout time.Duration // bound for cooperative shutdown
	KillTimeout     time.Duration // bound for forced kill
	SettleDelay     time.Duration // pause between stop and start on restart
	MaxOutputLines  int           // diagnostic buffer line cap
	MaxOutputBytes  int           // diagnostic buffer byte cap
}

func defaultSupervisorOptions() SupervisorOptions {
	return SupervisorOptions{
		GracefulTimeout: 5 * time.Second,
		KillTimeout:     2 * time.Second,
		SettleDelay:     500 * time.Millisecond,
		MaxOutputLines:  200,
		MaxOutputBytes:  64 * 1024,
	}
}

/**
 * Supervisor owns the lifecycle of at most one tunnel client process.
 * It launches the external binary, follows its stdout/stderr line by line to
 * discover the assigned public URL, and keeps a mutex-guarded ProcessStatus
 * that callers poll or subscribe to. Not a pool: one instance, one child.
 *
 * Runtime crashes after a successful start are never returned as errors,
 * they surface through the status and the status-changed callback only.
 */
type Supervisor struct {
	binaries BinaryResolver
	opts     SupervisorOptions

	opMu sync.Mutex // serializes Start/Stop/Restart
	mu   sync.Mutex // guards everything below

	status   *models.ProcessStatus
	cmd      *exec.Cmd
	waitDone chan struct{}
	stopping bool
	outBytes int

	urlChanged    func(string)
	statusChanged func(models.ProcessStatus)
}

/**
 * Create a new supervisor instance
 * @param {BinaryResolver} binaries - Component guaranteeing a local tunnel binary
 * @param {*SupervisorOptions} opts - Timeouts and buffer caps, nil for defaults
 * @returns {*Supervisor} Returns supervisor in Idle state
 * @description
 * - Instances are independent, multiple supervisors (e.g. in tests) coexist
 * @example
 * sup := services.NewSupervisor(services.NewBinaryManager(config.Config.Binary), nil)
 * status, err := sup.Start(ctx, cfg)
 */
func NewSupervisor(binaries BinaryResolver, opts *SupervisorOptions) *Supervisor {
	o := defaultSupervisorOptions()
	if opts != nil {
		if opts.GracefulTimeout > 0 {
			o.GracefulTimeout = opts.GracefulTimeout
		}
		if opts.KillTimeout > 0 {
			o.KillTimeout = opts.KillTimeout
		}
		if opts.SettleDelay > 0 {
			o.SettleDelay = opts.SettleDelay
		}
		if opts.MaxOutputLines > 0 {
			o.MaxOutputLines = opts.MaxOutputLines
		}
		if opts.MaxOutputBytes > 0 {
			o.MaxOutputBytes = opts.MaxOutputBytes
		}
	}
	return &Supervisor{binaries: binaries, opts: o}
}

// DefaultSupervisor builds a supervisor wired from the global configuration.
func DefaultSupervisor() *Supervisor {
	return NewSupervisor(NewBinaryManager(config.Config.Binary), nil)
}

// OnTunnelURLChanged registers the callback fired exactly once per distinct
// discovered URL.
func (s *Supervisor) OnTunnelURLChanged(fn func(url string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urlChanged = fn
}

// OnStatusChanged registers the callback fired on every status transition.
// The callback receives a snapshot, never the live status.
func (s *Supervisor) OnStatusChanged(fn func(status models.ProcessStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusChanged = fn
}

/**
 * Start the tunnel process
 * @param {context.Context} ctx - Cancellation context, honored during binary resolution
 * @param {models.TunnelConfig} cfg - Session configuration, validated before launch
 * @returns {(models.ProcessStatus, error)} Returns status snapshot and error
 * @description
 * - Idempotent while running: returns the existing status without spawning
 *   a second process
 * - Validates config, resolves the binary, builds arguments, launches the
 *   child with stdout/stderr captured and begins async line readers
 * - Resolution/launch failures are captured into a Stopped status with
 *   ErrorMessage set AND returned to the caller
 */
func (s *Supervisor) Start(ctx context.Context, cfg models.TunnelConfig) (models.ProcessStatus, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.start(ctx, cfg)
}

func (s *Supervisor) start(ctx context.Context, cfg models.TunnelConfig) (models.ProcessStatus, error) {
	s.mu.Lock()
	if s.cmd != nil && s.status != nil && s.status.Running {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		logger.Infof("Tunnel process already running (PID: %d), returning existing status", snap.Pid)
		return snap, nil
	}
	s.mu.Unlock()

	// invalid configs are rejected before any side effect, the previously
	// retained config stays usable for Restart
	if err := cfg.Validate(); err != nil {
		return models.ProcessStatus{}, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}

	binPath, err := s.binaries.EnsureBinary(ctx, platform.CurrentPlatform())
	if err != nil {
		return s.failStart(cfg, err)
	}

	args := cfg.BuildArguments()
	logger.Debugf("Launching tunnel client: %s", cfg.CommandLine(binPath))
	cmd := exec.Command(binPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return s.failStart(cfg, fmt.Errorf("%w: %v", ErrProcessStart, err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.failStart(cfg, fmt.Errorf("%w: %v", ErrProcessStart, err))
	}
	if err := cmd.Start(); err != nil {
		return s.failStart(cfg, fmt.Errorf("%w: %v", ErrProcessStart, err))
	}

	now := time.Now()
	cfgCopy := cfg
	s.mu.Lock()
	s.cmd = cmd
	s.stopping = false
	s.outBytes = 0
	s.waitDone = make(chan struct{})
	s.status = &models.ProcessStatus{
		Pid:         cmd.Process.Pid,
		Running:     true,
		State:       models.StateStarting,
		StartTime:   now,
		LastChecked: now,
		Config:      &cfgCopy,
	}
	snap := s.snapshotLocked()
	done := s.waitDone
	s.mu.Unlock()

	go s.readLines(stdout)
	go s.readLines(stderr)
	go s.watchExit(cmd, done)

	logger.Infof("Tunnel process started (PID: %d): %s", cmd.Process.Pid, binPath)
	s.notifyStatus(snap)
	return snap, nil
}

// failStart records a resolution/launch failure into a Stopped status so
// pollers see the history, and returns the error to the caller.
func (s *Supervisor) failStart(cfg models.TunnelConfig, err error) (models.ProcessStatus, error) {
	cfgCopy := cfg
	now := time.Now()
	s.mu.Lock()
	s.status = &models.ProcessStatus{
		State:        models.StateStopped,
		LastChecked:  now,
		Config:       &cfgCopy,
		ErrorMessage: err.Error(),
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	logger.Errorf("Tunnel start failed: %v", err)
	s.notifyStatus(snap)
	return snap, err
}

/**
 * Stop the tunnel process
 * @param {context.Context} ctx - Cancellation context, wait bounds are cut short
 * @returns {(bool, error)} Returns true when the process ended (gracefully or
 *          forced) or none was active, false only on failure to terminate
 * @description
 * - Requests cooperative shutdown, waits the graceful bound, then escalates
 *   to a forced kill with a second shorter bound
 * - The terminal status retains the session config so Restart stays possible
 */
func (s *Supervisor) Stop(ctx context.Context) (bool, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.stop(ctx)
}

func (s *Supervisor) stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.cmd == nil || s.status == nil || !s.status.Running {
		s.mu.Unlock()
		return true, nil
	}
	s.stopping = true
	s.status.State = models.StateStopping
	proc := s.cmd.Process
	done := s.waitDone
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notifyStatus(snap)

	if err := utils.TerminateProcess(proc); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Warnf("Graceful termination signal failed (PID: %d): %v", proc.Pid, err)
	}
	select {
	case <-done:
		logger.Infof("Tunnel process (PID: %d) exited gracefully", proc.Pid)
		return true, nil
	case <-ctx.Done():
		// cancellation escalates immediately so no orphan is left behind
		logger.Warnf("Stop canceled, killing tunnel process (PID: %d)", proc.Pid)
	case <-time.After(s.opts.GracefulTimeout):
		logger.Warnf("Tunnel process (PID: %d) did not exit within %v, killing",
			proc.Pid, s.opts.GracefulTimeout)
	}

	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Errorf("Failed to kill tunnel process (PID: %d): %v", proc.Pid, err)
	}
	select {
	case <-done:
		return true, nil
	case <-time.After(s.opts.KillTimeout):
		return false, fmt.Errorf("%w within %v after forced kill", ErrTerminationTimeout, s.opts.KillTimeout)
	}
}

/**
 * Restart the tunnel with the retained configuration
 * @param {context.Context} ctx - Cancellation context
 * @returns {(models.ProcessStatus, error)} Returns status of the new process
 * @description
 * - Requires a configuration from a previous Start, running or not
 * - Stop is idempotent here, a stopped tunnel restarts directly after the
 *   settle interval
 */
func (s *Supervisor) Restart(ctx context.Context) (models.ProcessStatus, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	var cfg *models.TunnelConfig
	if s.status != nil {
		cfg = s.status.Config
	}
	s.mu.Unlock()
	if cfg == nil {
		return models.ProcessStatus{}, ErrNoConfiguration
	}

	if ok, err := s.stop(ctx); !ok {
		return models.ProcessStatus{}, fmt.Errorf("restart aborted: %w", err)
	}
	select {
	case <-time.After(s.opts.SettleDelay):
	case <-ctx.Done():
		return models.ProcessStatus{}, ctx.Err()
	}
	return s.start(ctx, *cfg)
}

/**
 * Get a refreshed status snapshot
 * @returns {*models.ProcessStatus} Returns snapshot, nil if never started
 * @description
 * - LastChecked is updated and the running flag re-derived from the OS
 *   process table, the child may have exited between polls before the
 *   exit notification was observed
 */
func (s *Supervisor) GetStatus() *models.ProcessStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return nil
	}
	s.status.LastChecked = time.Now()
	if s.status.Running {
		running, err := utils.IsProcessRunning(s.status.Pid)
		if err == nil && !running {
			s.status.Running = false
		}
	}
	snap := s.snapshotLocked()
	return &snap
}

// GetTunnelURL returns the currently known public URL, empty until discovered.
func (s *Supervisor) GetTunnelURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return ""
	}
	return s.status.TunnelURL
}

// readLines drives one output stream; each line feeds the diagnostic buffer
// and the URL detector.
func (s *Supervisor) readLines(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		s.handleLine(scanner.Text())
	}
}

func (s *Supervisor) handleLine(line string) {
	url, matched := DetectTunnelURL(line)

	s.mu.Lock()
	if s.status == nil {
		s.mu.Unlock()
		return
	}
	s.appendOutputLocked(line)

	var snap models.ProcessStatus
	var urlCb func(string)
	var statusCb func(models.ProcessStatus)
	discovered := false
	if matched && url != s.status.TunnelURL {
		s.status.TunnelURL = url
		if s.status.State == models.StateStarting {
			s.status.State = models.StateRunning
		}
		snap = s.snapshotLocked()
		urlCb = s.urlChanged
		statusCb = s.statusChanged
		discovered = true
	}
	s.mu.Unlock()

	if !matched {
		logger.Debugf("tunnel output: %s", line)
		return
	}
	if discovered {
		logger.Infof("Tunnel URL discovered: %s", url)
		RecordURLDiscovery()
		if urlCb != nil {
			urlCb(url)
		}
		if statusCb != nil {
			statusCb(snap)
		}
	}
}

// appendOutputLocked keeps the captured output bounded by line count and
// total bytes; oldest lines are dropped first.
func (s *Supervisor) appendOutputLocked(line string) {
	s.status.Output = append(s.status.Output, line)
	s.outBytes += len(line) + 1
	for (len(s.status.Output) > s.opts.MaxOutputLines || s.outBytes > s.opts.MaxOutputBytes) &&
		len(s.status.Output) > 1 {
		s.outBytes -= len(s.status.Output[0]) + 1
		s.status.Output = s.status.Output[1:]
	}
}

/**
 * Observe child process exit
 * @description
 * - Only path by which a Running status transitions to Crashed without an
 *   explicit Stop call
 * - Records the exit code, flips the running flag and fires status-changed
 */
func (s *Supervisor) watchExit(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	s.mu.Lock()
	if s.cmd != nil && s.cmd != cmd {
		// a newer session replaced this one, nothing left to record
		s.mu.Unlock()
		close(done)
		return
	}
	code := -1
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	st := s.status
	st.Running = false
	st.ExitCode = &code
	stopped := s.stopping
	if stopped {
		st.State = models.StateStopped
	} else {
		st.State = models.StateCrashed
		if err != nil {
			st.ErrorMessage = err.Error()
		} else {
			st.ErrorMessage = fmt.Sprintf("process exited unexpectedly with code %d", code)
		}
	}
	s.cmd = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	close(done)

	if stopped {
		logger.Infof("Tunnel process (PID: %d) stopped, exit code %d", snap.Pid, code)
	} else {
		logger.Warnf("Tunnel process (PID: %d) exited unexpectedly, exit code %d", snap.Pid, code)
	}
	s.notifyStatus(snap)
}

func (s *Supervisor) notifyStatus(snap models.ProcessStatus) {
	RecordTunnelStatus(snap)
	s.mu.Lock()
	cb := s.statusChanged
	s.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

// snapshotLocked copies the live status so callers never share mutable state
// with the supervisor. Caller must hold s.mu.
func (s *Supervisor) snapshotLocked() models.ProcessStatus {
	snap := *s.status
	if s.status.Config != nil {
		cfg := *s.status.Config
		snap.Config = &cfg
	}
	if s.status.ExitCode != nil {
		code := *s.status.ExitCode
		snap.ExitCode = &code
	}
	snap.Output = append([]string(nil), s.status.Output...)
	return snap
}
