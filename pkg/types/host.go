package types

// HostPowerRequest represents a node-level power command
type HostPowerRequest struct {
	// DelaySeconds postpones the power action; 0 issues it immediately
	DelaySeconds int `json:"delay_seconds,omitempty" binding:"omitempty,min=0" example:"0"`
}
