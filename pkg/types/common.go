package types

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Proxmox node unavailable"`
	Code    string `json:"code" example:"PVE_UNAVAILABLE"`
	Details string `json:"details,omitempty" example:"Unable to reach the Proxmox API. Please try again later."`
}

// OperationResponse carries the raw Proxmox payload of a completed
// operation plus any server-reported warnings embedded in it.
type OperationResponse struct {
	Payload  string   `json:"payload" example:"{\"data\":\"UPID:pve1:0000C3F0:...\"}"`
	Warnings []string `json:"warnings,omitempty"`
}
