package proxmox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/config"
	"github.com/sirupsen/logrus"
)

// shutdownPollInterval is the fixed interval between shutdown status polls.
const shutdownPollInterval = 5 * time.Second

// StatusStopped and StatusRunning are the VM power states this service
// reacts to; any other observed value is treated as unknown.
const (
	StatusStopped = "stopped"
	StatusRunning = "running"
)

// VMService sequences start, stop and shutdown operations for QEMU VMs on
// one node. All operations are synchronous and blocking, including their
// grace-period sleeps; callers wanting parallelism across VMs run one
// logical call per VM.
type VMService struct {
	client *Client
	waits  config.WaitConfig
	logger *logrus.Logger
}

// NewVMService creates a new VM service instance
func NewVMService(client *Client, waits config.WaitConfig, logger *logrus.Logger) *VMService {
	return &VMService{
		client: client,
		waits:  waits,
		logger: logger,
	}
}

// StartOptions control the fixed grace period after a start command.
type StartOptions struct {
	Wait time.Duration // 0 means the configured boot wait (default 30s)
}

// StopOptions control the fixed grace period after a forced stop.
type StopOptions struct {
	Wait time.Duration // 0 means the configured stop wait (default 5s)
}

// ShutdownOptions control the graceful shutdown escalation.
type ShutdownOptions struct {
	// Timeout bounds the whole confirmation window. 0 means the configured
	// shutdown timeout (default 300s).
	Timeout time.Duration
	// ForceAfterTimeout escalates to a forced stop when the VM has not
	// reached "stopped" within the timeout. nil means true.
	ForceAfterTimeout *bool
}

// Start issues a start command and then sleeps for a fixed grace period.
// The remote API gives no cheap "fully booted" signal, so the wait is a
// flat sleep with no confirmation that the VM reached running state.
func (s *VMService) Start(ctx context.Context, vmID string, opts StartOptions) (CallResult, error) {
	wait := opts.Wait
	if wait == 0 {
		wait = s.waits.BootWait
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id": vmID,
		"wait":  wait,
	}).Info("Starting VM")

	result, err := s.client.Call(ctx, http.MethodPost, fmt.Sprintf("/qemu/%s/status/start", vmID), nil)
	if err != nil {
		return CallResult{}, err
	}

	s.logger.WithField("vm_id", vmID).Info("Start command accepted, waiting boot grace period")
	if err := sleep(ctx, wait); err != nil {
		return result, err
	}

	s.logger.WithField("vm_id", vmID).Info("VM start completed")
	return result, nil
}

// Stop issues a forced stop command and then sleeps for a fixed grace
// period, with no confirmation.
func (s *VMService) Stop(ctx context.Context, vmID string, opts StopOptions) (CallResult, error) {
	wait := opts.Wait
	if wait == 0 {
		wait = s.waits.StopWait
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id": vmID,
		"wait":  wait,
	}).Info("Force-stopping VM")

	result, err := s.client.Call(ctx, http.MethodPost, fmt.Sprintf("/qemu/%s/status/stop", vmID), nil)
	if err != nil {
		return CallResult{}, err
	}

	s.logger.WithField("vm_id", vmID).Info("Stop command accepted, waiting grace period")
	if err := sleep(ctx, wait); err != nil {
		return result, err
	}

	s.logger.WithField("vm_id", vmID).Info("VM stop completed")
	return result, nil
}

// Shutdown issues a graceful ACPI shutdown and polls the VM status at a
// fixed 5 second interval until it reports "stopped" or the timeout window
// is exhausted. On timeout with ForceAfterTimeout enabled it escalates to a
// forced stop and returns the forced stop's response; with escalation
// disabled it returns the original response together with the
// ConfirmationTimeoutError so the caller decides what to do.
func (s *VMService) Shutdown(ctx context.Context, vmID string, opts ShutdownOptions) (CallResult, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = s.waits.ShutdownTimeout
	}
	force := opts.ForceAfterTimeout == nil || *opts.ForceAfterTimeout

	s.logger.WithFields(logrus.Fields{
		"vm_id":   vmID,
		"timeout": timeout,
		"force":   force,
	}).Info("Shutting down VM gracefully")

	body := Form{{Key: "timeout", Value: strconv.Itoa(int(timeout / time.Second))}}
	result, err := s.client.Call(ctx, http.MethodPost, fmt.Sprintf("/qemu/%s/status/shutdown", vmID), body)
	if err != nil {
		return CallResult{}, err
	}

	attempts := int(timeout / shutdownPollInterval)
	if attempts < 1 {
		attempts = 1
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"attempts": attempts,
		"interval": shutdownPollInterval,
	}).Info("Waiting for VM to reach stopped state")

	err = Confirm(ctx, ConfirmPolicy{MaxAttempts: attempts, Interval: shutdownPollInterval},
		func(ctx context.Context) (string, error) {
			status, err := s.GetStatus(ctx, vmID)
			if err != nil {
				var parseErr *ParseError
				if errors.As(err, &parseErr) {
					// A malformed status read is an unknown state, not a
					// reason to abort the whole shutdown.
					s.logger.WithError(err).WithField("vm_id", vmID).Warn("Could not read VM status, treating as unknown")
					return "unknown", nil
				}
				return "", err
			}
			return status, nil
		},
		func(status string) bool { return status == StatusStopped },
	)

	if err == nil {
		s.logger.WithField("vm_id", vmID).Info("VM shutdown confirmed")
		return result, nil
	}

	var timeoutErr *ConfirmationTimeoutError
	if errors.As(err, &timeoutErr) {
		if force {
			s.logger.WithFields(logrus.Fields{
				"vm_id":       vmID,
				"last_status": timeoutErr.LastValue,
			}).Warn("Graceful shutdown not confirmed in time, escalating to forced stop")
			return s.Stop(ctx, vmID, StopOptions{})
		}

		s.logger.WithFields(logrus.Fields{
			"vm_id":       vmID,
			"last_status": timeoutErr.LastValue,
		}).Warn("Graceful shutdown not confirmed in time, escalation disabled")
		return result, err
	}

	return result, err
}

// EnsureRunning reads the current status and starts the VM only when it is
// not already running. It reports whether a start was issued. Calling it
// against a running VM costs exactly one status read.
func (s *VMService) EnsureRunning(ctx context.Context, vmID string, opts StartOptions) (bool, error) {
	status, err := s.GetStatus(ctx, vmID)
	if err != nil {
		return false, err
	}

	if status == StatusRunning {
		s.logger.WithField("vm_id", vmID).Info("VM already running, nothing to do")
		return false, nil
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":  vmID,
		"status": status,
	}).Info("VM not running, starting it")

	if _, err := s.Start(ctx, vmID, opts); err != nil {
		return false, err
	}
	return true, nil
}

// GetStatus returns the VM's current power state.
func (s *VMService) GetStatus(ctx context.Context, vmID string) (string, error) {
	result, err := s.client.Call(ctx, http.MethodGet, fmt.Sprintf("/qemu/%s/status/current", vmID), nil)
	if err != nil {
		return "", err
	}
	return ExtractField(result.Payload, "data.status")
}

// GetConfig returns the VM's raw configuration payload.
func (s *VMService) GetConfig(ctx context.Context, vmID string) (CallResult, error) {
	return s.client.Call(ctx, http.MethodGet, fmt.Sprintf("/qemu/%s/config", vmID), nil)
}
