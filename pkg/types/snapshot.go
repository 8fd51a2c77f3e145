package types

// CreateSnapshotRequest represents the request to create a snapshot
type CreateSnapshotRequest struct {
	Name string `json:"name" binding:"required" example:"pre-update"`
	// IncludeVMState includes the VM memory in the snapshot; nil means true
	IncludeVMState *bool `json:"include_vm_state,omitempty" example:"true"`
}

// VerifySnapshotRequest bounds the snapshot readiness confirmation
type VerifySnapshotRequest struct {
	// MaxAttempts is the number of status polls; nil uses the configured default (24)
	MaxAttempts *int `json:"max_attempts,omitempty" binding:"omitempty,min=1" example:"24"`
	// IntervalSeconds is the fixed wait between polls; nil uses the configured default (5s)
	IntervalSeconds *int `json:"interval_seconds,omitempty" binding:"omitempty,min=1" example:"5"`
}

// RollbackSnapshotRequest represents the request to roll a VM back to a snapshot
type RollbackSnapshotRequest struct {
	// PauseSeconds is the fixed pause after the rollback command; nil uses the configured default (5s)
	PauseSeconds *int `json:"pause_seconds,omitempty" binding:"omitempty,min=0" example:"5"`
	// Safe skips the rollback without error when the snapshot does not exist
	Safe bool `json:"safe,omitempty" example:"true"`
	// PropagateErrors returns rollback failures instead of swallowing them; only
	// meaningful with Safe; nil means false
	PropagateErrors *bool `json:"propagate_errors,omitempty" example:"false"`
}

// SafeOperationResponse reports whether a guarded snapshot operation was
// actually performed
type SafeOperationResponse struct {
	Performed bool   `json:"performed" example:"true"`
	Reason    string `json:"reason,omitempty" example:"snapshot does not exist"`
}
