package api

import (
	"errors"
	"net/http"

	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/pkg/types"
	"github.com/gin-gonic/gin"
)

// respondError classifies a core error into an API error response.
func respondError(c *gin.Context, err error) {
	var transportErr *proxmox.TransportError
	if errors.As(err, &transportErr) {
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "Proxmox node unavailable",
			Code:    "PVE_UNAVAILABLE",
			Details: "Unable to reach the Proxmox API. Please try again later.",
		})
		return
	}

	var timeoutErr *proxmox.ConfirmationTimeoutError
	if errors.As(err, &timeoutErr) {
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "Operation confirmation timed out",
			Code:    "CONFIRMATION_TIMEOUT",
			Details: err.Error(),
		})
		return
	}

	var parseErr *proxmox.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadGateway, types.ErrorResponse{
			Error:   "Unexpected Proxmox response",
			Code:    "PVE_BAD_RESPONSE",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error:   "Operation failed",
		Code:    "OPERATION_FAILED",
		Details: "An unexpected error occurred while executing the operation",
	})
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "Invalid request",
		Code:    "INVALID_REQUEST",
		Details: err.Error(),
	})
}
