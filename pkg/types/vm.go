package types

// VMStatusResponse represents a VM power state read
type VMStatusResponse struct {
	VMID   string `json:"vm_id" example:"100"`
	Status string `json:"status" example:"running"`
}

// StartVMRequest represents the request to start a VM
type StartVMRequest struct {
	// WaitSeconds is the fixed boot grace period; nil uses the configured default (30s)
	WaitSeconds *int `json:"wait_seconds,omitempty" binding:"omitempty,min=0" example:"30"`
}

// StopVMRequest represents the request to force-stop a VM
type StopVMRequest struct {
	// WaitSeconds is the fixed grace period after the stop command; nil uses the configured default (5s)
	WaitSeconds *int `json:"wait_seconds,omitempty" binding:"omitempty,min=0" example:"5"`
}

// ShutdownVMRequest represents the request to gracefully shut down a VM
type ShutdownVMRequest struct {
	// TimeoutSeconds bounds the stopped-state confirmation window; nil uses the configured default (300s)
	TimeoutSeconds *int `json:"timeout_seconds,omitempty" binding:"omitempty,min=1" example:"300"`
	// ForceAfterTimeout escalates to a forced stop when confirmation times out; nil means true
	ForceAfterTimeout *bool `json:"force_after_timeout,omitempty" example:"true"`
}

// EnsureRunningResponse reports the outcome of an ensure-running call
type EnsureRunningResponse struct {
	Started bool   `json:"started" example:"false"`
	Status  string `json:"status" example:"running"`
}
