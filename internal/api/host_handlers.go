package api

import (
	"context"
	"net/http"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HostHandler handles node-level power API requests
type HostHandler struct {
	host   *proxmox.HostService
	logger *logrus.Logger
}

// NewHostHandler creates a new host handler instance
func NewHostHandler(host *proxmox.HostService, logger *logrus.Logger) *HostHandler {
	return &HostHandler{
		host:   host,
		logger: logger,
	}
}

// GetStatus godoc
// @Summary Get host status
// @Description Return the raw node status payload
// @Tags host
// @Produce json
// @Success 200 {object} types.OperationResponse "Raw node status payload"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/host/status [get]
func (h *HostHandler) GetStatus(c *gin.Context) {
	result, err := h.host.GetStatus(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to read host status")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}

// Shutdown godoc
// @Summary Shut down the host
// @Description Issue a node shutdown command, fire-and-forget
// @Tags host
// @Accept json
// @Produce json
// @Param request body types.HostPowerRequest false "Power options"
// @Success 200 {object} types.OperationResponse "Shutdown command response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/host/shutdown [post]
func (h *HostHandler) Shutdown(c *gin.Context) {
	h.power(c, "shutdown", h.host.Shutdown)
}

// Reboot godoc
// @Summary Reboot the host
// @Description Issue a node reboot command, fire-and-forget
// @Tags host
// @Accept json
// @Produce json
// @Param request body types.HostPowerRequest false "Power options"
// @Success 200 {object} types.OperationResponse "Reboot command response"
// @Failure 400 {object} types.ErrorResponse "Invalid request"
// @Failure 503 {object} types.ErrorResponse "Proxmox node unavailable"
// @Router /api/v1/host/reboot [post]
func (h *HostHandler) Reboot(c *gin.Context) {
	h.power(c, "reboot", h.host.Reboot)
}

func (h *HostHandler) power(c *gin.Context, command string, issue func(ctx context.Context, delay time.Duration) (proxmox.CallResult, error)) {
	var req types.HostPowerRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondBadRequest(c, err)
		return
	}

	delay := time.Duration(req.DelaySeconds) * time.Second
	result, err := issue(c.Request.Context(), delay)
	if err != nil {
		h.logger.WithError(err).WithField("command", command).Error("Host power command failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.OperationResponse{Payload: result.Payload, Warnings: result.Warnings})
}
