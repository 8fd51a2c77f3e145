package proxmox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/config"
	"github.com/sirupsen/logrus"
)

// Snapshot states the readiness predicate treats as transient. Anything
// else, including an absent state field, is terminal.
const (
	snapStatePrepare = "prepare"
	snapStateDelete  = "delete"
)

// SnapshotService manages disk/memory snapshots of QEMU VMs on one node.
// Snapshot creation is asynchronous server-side; VerifyReady is the bounded
// confirmation for it. Restore completion is not independently verifiable
// and gets a fixed pause instead.
type SnapshotService struct {
	client *Client
	waits  config.WaitConfig
	logger *logrus.Logger
}

// NewSnapshotService creates a new snapshot service instance
func NewSnapshotService(client *Client, waits config.WaitConfig, logger *logrus.Logger) *SnapshotService {
	return &SnapshotService{
		client: client,
		waits:  waits,
		logger: logger,
	}
}

// CreateOptions control snapshot creation.
type CreateOptions struct {
	// IncludeVMState includes the VM's memory in the snapshot. nil means true.
	IncludeVMState *bool
}

// VerifyOptions bound the readiness confirmation loop.
type VerifyOptions struct {
	MaxAttempts int           // 0 means the configured attempts (default 24)
	Interval    time.Duration // 0 means the configured interval (default 5s)
}

// RestoreOptions control the pause after a rollback command.
type RestoreOptions struct {
	Pause time.Duration // 0 means the configured restore pause (default 5s)
}

// Create fires a snapshot creation command and returns without confirming
// readiness; pair it with VerifyReady.
func (s *SnapshotService) Create(ctx context.Context, vmID, name string, opts CreateOptions) (CallResult, error) {
	includeState := opts.IncludeVMState == nil || *opts.IncludeVMState

	vmstate := "0"
	if includeState {
		vmstate = "1"
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
		"vmstate":  includeState,
	}).Info("Creating snapshot")

	body := Form{
		{Key: "snapname", Value: name},
		{Key: "vmstate", Value: vmstate},
	}
	return s.client.Call(ctx, http.MethodPost, fmt.Sprintf("/qemu/%s/snapshot", vmID), body)
}

// VerifyReady polls the snapshot's config until its state leaves the
// transient "prepare"/"delete" phases. Exhausting the budget is a hard
// failure: a snapshot that is still not ready is never silently accepted.
// The default budget (24 attempts at 5s) reflects the expected disk-flush
// latency of memory-inclusive snapshots.
func (s *SnapshotService) VerifyReady(ctx context.Context, vmID, name string, opts VerifyOptions) error {
	attempts := opts.MaxAttempts
	if attempts == 0 {
		attempts = s.waits.SnapshotAttempts
	}
	interval := opts.Interval
	if interval == 0 {
		interval = s.waits.SnapshotInterval
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
		"attempts": attempts,
		"interval": interval,
	}).Info("Waiting for snapshot to become ready")

	err := Confirm(ctx, ConfirmPolicy{MaxAttempts: attempts, Interval: interval},
		func(ctx context.Context) (string, error) {
			result, err := s.client.Call(ctx, http.MethodGet, fmt.Sprintf("/qemu/%s/snapshot/%s/config", vmID, name), nil)
			if err != nil {
				return "", err
			}
			state, err := ExtractField(result.Payload, "data.snapstate")
			if err != nil {
				var parseErr *ParseError
				if errors.As(err, &parseErr) {
					// Proxmox drops the snapstate field once the snapshot
					// reaches its terminal state.
					return "none", nil
				}
				return "", err
			}
			return state, nil
		},
		func(state string) bool {
			return state != snapStatePrepare && state != snapStateDelete
		},
	)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
	}).Info("Snapshot is ready")
	return nil
}

// Restore rolls the VM back to the named snapshot, then pauses for a fixed
// period. Rollback completion is not independently verified.
func (s *SnapshotService) Restore(ctx context.Context, vmID, name string, opts RestoreOptions) (CallResult, error) {
	pause := opts.Pause
	if pause == 0 {
		pause = s.waits.RestorePause
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
		"pause":    pause,
	}).Info("Rolling back VM to snapshot")

	body := Form{{Key: "snapname", Value: name}}
	result, err := s.client.Call(ctx, http.MethodPost, fmt.Sprintf("/qemu/%s/snapshot/%s/rollback", vmID, name), body)
	if err != nil {
		return CallResult{}, err
	}

	if err := sleep(ctx, pause); err != nil {
		return result, err
	}

	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
	}).Info("Snapshot rollback completed")
	return result, nil
}

// Delete removes the named snapshot.
func (s *SnapshotService) Delete(ctx context.Context, vmID, name string) (CallResult, error) {
	s.logger.WithFields(logrus.Fields{
		"vm_id":    vmID,
		"snapshot": name,
	}).Info("Deleting snapshot")

	return s.client.Call(ctx, http.MethodDelete, fmt.Sprintf("/qemu/%s/snapshot/%s", vmID, name), nil)
}

// List returns the raw snapshot list payload for the VM.
func (s *SnapshotService) List(ctx context.Context, vmID string) (CallResult, error) {
	return s.client.Call(ctx, http.MethodGet, fmt.Sprintf("/qemu/%s/snapshot", vmID), nil)
}

// Exists reports whether the named snapshot appears in the VM's snapshot
// list. A VM with zero snapshots yields false, not an error.
func (s *SnapshotService) Exists(ctx context.Context, vmID, name string) (bool, error) {
	result, err := s.List(ctx, vmID)
	if err != nil {
		return false, err
	}

	var envelope struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(result.Payload), &envelope); err != nil {
		return false, &ParseError{Path: "data", Err: err}
	}

	for _, snapshot := range envelope.Data {
		if snapshot.Name == name {
			return true, nil
		}
	}
	return false, nil
}
