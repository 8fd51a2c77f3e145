package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SnapshotHandler handles snapshot API requests
type SnapshotHandler struct {
	snapshots *proxmox.SnapshotService
	logger    *logrus.Logger
}

// NewSnapshotHandler creates a new snapshot handler instance
func NewSnapshotHandler(snapshots *proxmox.SnapshotService, logger *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		snapshots: snapshots,
		logger:    logger,
	}
}

// List godoc
// @Summary List VM snapshots
// @Description Return the raw snapshot list payload for a VM
// @Tags snapshots
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Success 200 {object} types.OperationResponse "Raw snapshot list payload"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/snapshots [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	vmID := c.Param("id")

	result, err := h.snapshots.List(c.Request.Context(), vmID)
	if err != nil {
		h.logger.WithError(err).WithField("vm_id", vmID).Error("Failed to list snapshots")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Create godoc
// @Summary Create a snapshot
// @Description Fire a snapshot creation command; readiness is confirmed separately via verify
// @Tags snapshots
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param request body types.CreateSnapshotRequest true "Snapshot to create"
// @Success 200 {object} types.OperationResponse "Create command response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/snapshots [post]
func (h *SnapshotHandler) Create(c *gin.Context) {
	vmID := c.Param("id")

	var req types.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.CreateOptions{IncludeVMState: req.IncludeVMState}
	result, err := h.snapshots.Create(c.Request.Context(), vmID, req.Name, opts)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": req.Name,
		}).Error("Failed to create snapshot")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Verify godoc
// @Summary Wait for a snapshot to become ready
// @Description Poll the snapshot state until it leaves its transient phases or the attempt budget is exhausted
// @Tags snapshots
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param name path string true "Snapshot name" example("pre-update")
// @Param request body types.VerifySnapshotRequest false "Polling budget overrides"
// @Success 204 "Snapshot is ready"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Failure 504 {object} types.ErrorResponse "Snapshot not ready within the budget"
// @Router /api/v1/vms/{id}/snapshots/{name}/verify [post]
func (h *SnapshotHandler) Verify(c *gin.Context) {
	vmID := c.Param("id")
	name := c.Param("name")

	var req types.VerifySnapshotRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.VerifyOptions{}
	if req.MaxAttempts != nil {
		opts.MaxAttempts = *req.MaxAttempts
	}
	if req.IntervalSeconds != nil {
		opts.Interval = time.Duration(*req.IntervalSeconds) * time.Second
	}

	if err := h.snapshots.VerifyReady(c.Request.Context(), vmID, name, opts); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Error("Snapshot readiness confirmation failed")
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Rollback godoc
// @Summary Roll a VM back to a snapshot
// @Description Issue a rollback command; with safe=true a missing snapshot is skipped instead of failing
// @Tags snapshots
// @Accept json
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param name path string true "Snapshot name" example("pre-update")
// @Param request body types.RollbackSnapshotRequest false "Rollback options"
// @Success 200 {object} types.SafeOperationResponse "Whether the rollback was performed"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/snapshots/{name}/rollback [post]
func (h *SnapshotHandler) Rollback(c *gin.Context) {
	vmID := c.Param("id")
	name := c.Param("name")

	var req types.RollbackSnapshotRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts := proxmox.RestoreOptions{}
	if req.PauseSeconds != nil {
		opts.Pause = time.Duration(*req.PauseSeconds) * time.Second
	}

	if req.Safe {
		propagate := req.PropagateErrors != nil && *req.PropagateErrors
		performed, err := h.snapshots.SafeRestore(c.Request.Context(), vmID, name, propagate, opts)
		if err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"vm_id":    vmID,
				"snapshot": name,
			}).Error("Safe snapshot rollback failed")
			respondError(c, err)
			return
		}

		response := types.SafeOperationResponse{Performed: performed}
		if !performed {
			response.Reason = "snapshot does not exist or rollback failed"
		}
		c.JSON(http.StatusOK, response)
		return
	}

	if _, err := h.snapshots.Restore(c.Request.Context(), vmID, name, opts); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Error("Snapshot rollback failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SafeOperationResponse{Performed: true})
}

// Delete godoc
// @Summary Delete a snapshot
// @Description Delete a snapshot; with safe=true a missing snapshot is skipped instead of failing
// @Tags snapshots
// @Produce json
// @Param id path string true "VM identifier" example("100")
// @Param name path string true "Snapshot name" example("pre-update")
// @Param safe query bool false "Skip without error when the snapshot does not exist" example(true)
// @Success 200 {object} types.SafeOperationResponse "Whether the delete was performed"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/vms/{id}/snapshots/{name} [delete]
func (h *SnapshotHandler) Delete(c *gin.Context) {
	vmID := c.Param("id")
	name := c.Param("name")
	safe, _ := strconv.ParseBool(c.DefaultQuery("safe", "false"))

	if safe {
		// Leak prevention: safe deletes still surface failures by default.
		performed, err := h.snapshots.SafeDelete(c.Request.Context(), vmID, name, true)
		if err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"vm_id":    vmID,
				"snapshot": name,
			}).Error("Safe snapshot delete failed")
			respondError(c, err)
			return
		}

		response := types.SafeOperationResponse{Performed: performed}
		if !performed {
			response.Reason = "snapshot does not exist"
		}
		c.JSON(http.StatusOK, response)
		return
	}

	if _, err := h.snapshots.Delete(c.Request.Context(), vmID, name); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"vm_id":    vmID,
			"snapshot": name,
		}).Error("Snapshot delete failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SafeOperationResponse{Performed: true})
}
