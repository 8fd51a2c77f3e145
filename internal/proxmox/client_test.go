package proxmox

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/config"
	"github.com/galkoren/pve-pipeline-ops/internal/secrets"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger returns a silenced logger for tests.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testConn derives a ConnectionConfig pointing at an httptest server.
func testConn(t *testing.T, serverURL string) ConnectionConfig {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return ConnectionConfig{
		Scheme: "http",
		Host:   u.Hostname(),
		Node:   "pve1",
		Port:   port,
	}
}

// newTestClient builds a client against an httptest server with a static token.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(testConn(t, serverURL), secrets.Static("test@pam!ci=secret"), ClientOptions{}, testLogger())
}

// stubSleep replaces the polling sleep with an instant recorder and returns
// the recorded durations.
func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()

	var slept []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &slept
}

func TestFormEncode_PreservesFieldOrder(t *testing.T) {
	form := Form{
		{Key: "snapname", Value: "pre-update"},
		{Key: "vmstate", Value: "1"},
		{Key: "description", Value: "before rollout"},
	}

	assert.Equal(t, "snapname=pre-update&vmstate=1&description=before rollout", form.Encode())
}

func TestFormEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Form{}.Encode())
}

func TestClientCall_BuildsAuthenticatedRequest(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotContentType, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte("  {\"data\":\"UPID:pve1:1234\"}\n"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Call(context.Background(), http.MethodPost, "/qemu/100/status/shutdown",
		Form{{Key: "timeout", Value: "60"}})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api2/json/nodes/pve1/qemu/100/status/shutdown", gotPath)
	assert.Equal(t, "PVEAPIToken=test@pam!ci=secret", gotAuth)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "timeout=60", gotBody)
	assert.Equal(t, "{\"data\":\"UPID:pve1:1234\"}", result.Payload, "payload should be whitespace-trimmed")
	assert.Empty(t, result.Warnings)
}

func TestClientCall_NilBodySendsNoPayload(t *testing.T) {
	var gotContentType string
	var gotLength int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotLength = r.ContentLength
		w.Write([]byte("{\"data\":{}}"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), http.MethodGet, "/status", nil)

	require.NoError(t, err)
	assert.Empty(t, gotContentType)
	assert.Zero(t, gotLength)
}

func TestClientCall_Non2xxIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), http.MethodGet, "/status", nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.StatusCode)
}

func TestClientCall_ConnectionRefusedIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server.URL)
	server.Close()

	_, err := client.Call(context.Background(), http.MethodGet, "/status", nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Zero(t, transportErr.StatusCode)
}

func TestClientCall_EmbeddedErrorsSurfaceAsWarnings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":{"vmid":"VM 999 not found"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	result, err := client.Call(context.Background(), http.MethodGet, "/qemu/999/status/current", nil)

	// An embedded error indicator is a warning, never a failure.
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "VM 999 not found")
}

func TestClientCall_CredentialFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be issued without a credential")
	}))
	defer server.Close()

	client := NewClient(testConn(t, server.URL), secrets.Static(""), ClientOptions{}, testLogger())
	_, err := client.Call(context.Background(), http.MethodGet, "/status", nil)

	require.Error(t, err)
	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr), "credential failure is not a transport failure")
}

func TestResolveConnection_OverrideTakesPrecedence(t *testing.T) {
	ambient := config.ProxmoxConfig{Host: "pve1.example.com", Node: "pve1", APIPort: 8006}

	resolved, err := ResolveConnection(&ConnectionConfig{Host: "pve2.example.com", Node: "pve2"}, ambient)

	require.NoError(t, err)
	assert.Equal(t, "pve2.example.com", resolved.Host)
	assert.Equal(t, "pve2", resolved.Node)
	assert.Equal(t, 8006, resolved.Port)
	assert.Equal(t, "https", resolved.Scheme)
}

func TestResolveConnection_AmbientOnly(t *testing.T) {
	ambient := config.ProxmoxConfig{Host: "pve1.example.com", Node: "pve1"}

	resolved, err := ResolveConnection(nil, ambient)

	require.NoError(t, err)
	assert.Equal(t, 8006, resolved.Port, "port falls back to the API default")
	assert.Equal(t, "https://pve1.example.com:8006/api2/json/nodes/pve1", resolved.BaseURL())
}

func TestResolveConnection_MissingHostFails(t *testing.T) {
	_, err := ResolveConnection(nil, config.ProxmoxConfig{Node: "pve1"})
	require.Error(t, err)

	_, err = ResolveConnection(&ConnectionConfig{Host: "pve1.example.com"}, config.ProxmoxConfig{})
	require.Error(t, err, "node missing from both sources")
}
