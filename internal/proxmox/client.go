package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/config"
	"github.com/galkoren/pve-pipeline-ops/internal/secrets"
	"github.com/sirupsen/logrus"
)

// ConnectionConfig identifies a single Proxmox VE node. It is immutable once
// resolved; a new value is produced for every override instead of mutating
// shared state, so independent callers never race on configuration.
type ConnectionConfig struct {
	Scheme string // defaults to https
	Host   string
	Node   string
	Port   int // defaults to 8006
}

// ResolveConnection merges an optional per-call override with the ambient
// defaults, override fields taking precedence. The returned value is
// self-contained and safe to share.
func ResolveConnection(override *ConnectionConfig, ambient config.ProxmoxConfig) (ConnectionConfig, error) {
	resolved := ConnectionConfig{
		Scheme: "https",
		Host:   ambient.Host,
		Node:   ambient.Node,
		Port:   ambient.APIPort,
	}

	if override != nil {
		if override.Scheme != "" {
			resolved.Scheme = override.Scheme
		}
		if override.Host != "" {
			resolved.Host = override.Host
		}
		if override.Node != "" {
			resolved.Node = override.Node
		}
		if override.Port != 0 {
			resolved.Port = override.Port
		}
	}

	if resolved.Port == 0 {
		resolved.Port = 8006
	}

	if resolved.Host == "" {
		return ConnectionConfig{}, fmt.Errorf("no host configured in either override or ambient configuration")
	}
	if resolved.Node == "" {
		return ConnectionConfig{}, fmt.Errorf("no node configured in either override or ambient configuration")
	}

	return resolved, nil
}

// BaseURL returns the per-node base path all endpoints are appended to.
func (c ConnectionConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d/api2/json/nodes/%s", c.Scheme, c.Host, c.Port, c.Node)
}

// FormField is a single body field. Values are sent as-is with no escaping;
// callers must avoid characters that break form encoding.
type FormField struct {
	Key   string
	Value string
}

// Form is an ordered list of body fields encoded as key=value pairs joined
// by '&'. Order is preserved exactly as given.
type Form []FormField

// Encode serializes the form fields.
func (f Form) Encode() string {
	pairs := make([]string, 0, len(f))
	for _, field := range f {
		pairs = append(pairs, field.Key+"="+field.Value)
	}
	return strings.Join(pairs, "&")
}

// CallResult carries the raw whitespace-trimmed response payload together
// with any server-reported application-level warnings. A warning means the
// command was accepted in transit but the server flagged an issue in the
// response body; it never aborts the call.
type CallResult struct {
	Payload  string
	Warnings []string
}

// Client issues authenticated requests against one Proxmox VE node. The
// API token is fetched from the token source just-in-time for each request
// and discarded when the request returns.
type Client struct {
	conn   ConnectionConfig
	tokens secrets.TokenSource
	http   *http.Client
	logger *logrus.Logger
}

// ClientOptions contains transport settings for a Client.
type ClientOptions struct {
	RequestTimeout     time.Duration // 0 means 60s
	InsecureSkipVerify bool
}

// NewClient creates a client for the given node connection.
func NewClient(conn ConnectionConfig, tokens secrets.TokenSource, opts ClientOptions, logger *logrus.Logger) *Client {
	timeout := opts.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &Client{
		conn:   conn,
		tokens: tokens,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Connection returns the resolved connection this client targets.
func (c *Client) Connection() ConnectionConfig {
	return c.conn
}

// Call performs one request against the node. The endpoint is appended to
// the node base path. A nil body sends no payload. The response body is
// returned trimmed and unparsed; embedded server-side error indicators are
// surfaced as warnings, not failures. Transport-level failures, including
// non-2xx statuses, return a TransportError.
func (c *Client) Call(ctx context.Context, method, endpoint string, body Form) (CallResult, error) {
	url := c.conn.BaseURL() + endpoint

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"node":     c.conn.Node,
	}).Debug("Issuing API request")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return CallResult{}, fmt.Errorf("failed to resolve API credential: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(body.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return CallResult{}, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "PVEAPIToken="+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return CallResult{}, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return CallResult{}, &TransportError{Method: method, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CallResult{}, &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode}
	}

	result := CallResult{
		Payload:  strings.TrimSpace(string(payload)),
		Warnings: embeddedWarnings(strings.TrimSpace(string(payload))),
	}

	for _, warning := range result.Warnings {
		c.logger.WithFields(logrus.Fields{
			"method":   method,
			"endpoint": endpoint,
			"warning":  warning,
		}).Warn("Server reported an application-level issue in the response")
	}

	return result, nil
}

// embeddedWarnings scans a 2xx payload for Proxmox-style error indicators.
// The payload is otherwise treated as opaque.
func embeddedWarnings(payload string) []string {
	var envelope struct {
		Errors  json.RawMessage `json:"errors"`
		Message string          `json:"message"`
	}

	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		// Not JSON, nothing to scan
		return nil
	}

	var warnings []string
	if len(envelope.Errors) > 0 && string(envelope.Errors) != "null" {
		warnings = append(warnings, "errors: "+string(envelope.Errors))
	}
	if envelope.Message != "" {
		warnings = append(warnings, "message: "+envelope.Message)
	}
	return warnings
}
