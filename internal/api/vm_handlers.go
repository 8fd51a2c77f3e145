package api

import (
	"net/http"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VMHandler handles VM lifecycle API requests
type VMHandler struct {
	vms    *proxmox.VMService
	logger *logrus.Logger
}

// NewVMHandler creates a new VM handler instance
func NewVMHandler(vms *proxmox.VMService, logger *logrus.Logger) *VMHandler {
	return &VMHandler{
		vms:    vms,
		logger: logger,
	}
}

// GetStatus godoc
// @Summary Get VM power state
// @Description Read the current power state of a VM
// @Tags vms
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Success 200 {object} types.VMStatusResponse "Current power state"
// @Failure 502 {object} types.ErrorResponse "Unexpected Proxmox response"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/status [get]
func (h *VMHandler) GetStatus(c *gin.Context) {
	vmID := c.Param("id")

	status, err := h.vms.GetStatus(c.Request.Context(), vmID)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to read VM status")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.VMStatusResponse{VMID: vmID, Status: status})
}

// GetConfig godoc
// @Summary Get VM configuration
// @Description Read the raw VM configuration payload
// @Tags vms
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Success 200 {object} types.OperationResponse "Raw configuration payload"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/config [get]
func (h *VMHandler) GetConfig(c *gin.Context) {
	vmID := c.Param("id")

	result, err := h.vms.GetConfig(c.Request.Context(), vmID)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to read VM config")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Start godoc
// @Summary Start a VM
// @Description Issue a start command and wait a fixed boot grace period
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param request body types.StartVMRequest false "Start options"
// @Success 200 {object} types.OperationResponse "Start command response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/start [post]
func (h *VMHandler) Start(c *gin.Context) {
	vmID := c.Param("id")

	var req types.StartVMRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.StartOptions{}
	if req.WaitSeconds != nil {
		opts.Wait = time.Duration(*req.WaitSeconds) * time.Second
	}

	result, err := h.vms.Start(c.Request.Context(), vmID, opts)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to start VM")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Stop godoc
// @Summary Force-stop a VM
// @Description Issue a forced stop command and wait a fixed grace period
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param request body types.StopVMRequest false "Stop options"
// @Success 200 {object} types.OperationResponse "Stop command response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/stop [post]
func (h *VMHandler) Stop(c *gin.Context) {
	vmID := c.Param("id")

	var req types.StopVMRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.StopOptions{}
	if req.WaitSeconds != nil {
		opts.Wait = time.Duration(*req.WaitSeconds) * time.Second
	}

	result, err := h.vms.Stop(c.Request.Context(), vmID, opts)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to stop VM")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Shutdown godoc
// @Summary Gracefully shut down a VM
// @Description Issue an ACPI shutdown, poll for the stopped state and optionally escalate to a forced stop on timeout
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param request body types.ShutdownVMRequest false "Shutdown options"
// @Success 200 {object} types.OperationResponse "Shutdown (or escalated stop) response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Failure 504 {object} types.ErrorResponse "Shutdown not confirmed and escalation disabled"
// @Router /api/v1/vms/{id}/shutdown [post]
func (h *VMHandler) Shutdown(c *gin.Context) {
	vmID := c.Param("id")

	var req types.ShutdownVMRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.ShutdownOptions{ForceAfterTimeout: req.ForceAfterTimeout}
	if req.TimeoutSeconds != nil {
		opts.Timeout = time.Duration(*req.TimeoutSeconds) * time.Second
	}

	result, err := h.vms.Shutdown(c.Request.Context(), vmID, opts)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("VM shutdown failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// EnsureRunning godoc
// @Summary Ensure a VM is running
// @Description Start the VM only if it is not already running
// @Tags vms
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param request body types.StartVMRequest false "Start options applied when a start is needed"
// @Success 200 {object} types.EnsureRunningResponse "Whether a start was issued"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/ensure-running [post]
func (h *VMHandler) EnsureRunning(c *gin.Context) {
	vmID := c.Param("id")

	var req types.StartVMRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.StartOptions{}
	if req.WaitSeconds != nil {
		opts.Wait = time.Duration(*req.WaitSeconds) * time.Second
	}

	started, err := h.vms.EnsureRunning(c.Request.Context(), vmID, opts)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to ensure VM is running")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.EnsureRunningResponse{Started: started, Status: proxmox.StatusRunning})
}

// bindOptionalJSON binds a JSON body when one is present; an absent body
// leaves the target at its zero value so every option falls back to its
// configured default. A chunked body reports ContentLength -1 and is still
// bound.
func bindOptionalJSON(c *gin.Context, target any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(target)
}
