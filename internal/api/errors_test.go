package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/galkoren/pve-pipeline-ops/internal/proxmox"
	"github.com/galkoren/pve-pipeline-ops/pkg/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, err error) (int, types.ErrorResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, err)

	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestRespondError_Transport(t *testing.T) {
	code, body := respond(t, &proxmox.TransportError{
		Method:     http.MethodPost,
		URL:        "https://pve1.example.com:8006/api2/json/nodes/pve1/status",
		StatusCode: 595,
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "PVE_UNAVAILABLE", body.Code)
}

func TestRespondError_ConfirmationTimeout(t *testing.T) {
	code, body := respond(t, &proxmox.ConfirmationTimeoutError{
		Attempts:  24,
		Interval:  5 * time.Second,
		LastValue: "prepare",
	})

	assert.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, "CONFIRMATION_TIMEOUT", body.Code)
	assert.Contains(t, body.Details, "prepare")
}

func TestRespondError_Parse(t *testing.T) {
	code, body := respond(t, &proxmox.ParseError{Path: "data.status", Err: errors.New("missing field")})

	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "PVE_BAD_RESPONSE", body.Code)
}

func TestRespondError_WrappedErrorsStillClassified(t *testing.T) {
	err := errors.Join(errors.New("shutdown failed"), &proxmox.TransportError{Method: http.MethodGet})
	code, body := respond(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "PVE_UNAVAILABLE", body.Code)
}

func TestRespondError_UnknownError(t *testing.T) {
	code, body := respond(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "OPERATION_FAILED", body.Code)
}
