package proxmox

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// HostService issues node-level power commands. Host power operations are
// fire-and-forget; none of them poll for completion.
type HostService struct {
	client *Client
	logger *logrus.Logger
}

// NewHostService creates a new host service instance
func NewHostService(client *Client, logger *logrus.Logger) *HostService {
	return &HostService{
		client: client,
		logger: logger,
	}
}

// Shutdown powers off the node, optionally after a delay.
func (s *HostService) Shutdown(ctx context.Context, delay time.Duration) (CallResult, error) {
	return s.power(ctx, "shutdown", delay)
}

// Reboot restarts the node, optionally after a delay.
func (s *HostService) Reboot(ctx context.Context, delay time.Duration) (CallResult, error) {
	return s.power(ctx, "reboot", delay)
}

// GetStatus returns the raw node status payload.
func (s *HostService) GetStatus(ctx context.Context) (CallResult, error) {
	return s.client.Call(ctx, http.MethodGet, "/status", nil)
}

func (s *HostService) power(ctx context.Context, command string, delay time.Duration) (CallResult, error) {
	s.logger.WithFields(logrus.Fields{
		"node":    s.client.Connection().Node,
		"command": command,
		"delay":   delay,
	}).Info("Issuing host power command")

	body := Form{{Key: "command", Value: command}}
	if delay > 0 {
		body = append(body, FormField{Key: "delay", Value: strconv.Itoa(int(delay / time.Second))})
	}

	return s.client.Call(ctx, http.MethodPost, "/status", body)
}
