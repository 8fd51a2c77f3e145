package proxmox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSnapshotNode is a scripted Proxmox node for snapshot tests. The
// config endpoint serves states from the script slice, sticking on the
// last entry once the script runs out.
type fakeSnapshotNode struct {
	mux *http.ServeMux

	script      []string // per-poll snapstate values, "" means field absent
	configCalls int
	createBody  string
	rollbackHit int
	deleteHit   int
	listBody    string
}

func newFakeSnapshotNode(script ...string) *fakeSnapshotNode {
	node := &fakeSnapshotNode{
		mux:      http.NewServeMux(),
		script:   script,
		listBody: `{"data":[{"name":"pre-update"}]}`,
	}
	base := "/api2/json/nodes/pve1/qemu/100/snapshot"

	node.mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			node.createBody = string(body)
			w.Write([]byte(`{"data":"UPID:pve1:snapshot"}`))
			return
		}
		w.Write([]byte(node.listBody))
	})
	node.mux.HandleFunc(base+"/pre-update/config", func(w http.ResponseWriter, r *http.Request) {
		state := ""
		if node.configCalls < len(node.script) {
			state = node.script[node.configCalls]
		} else if len(node.script) > 0 {
			state = node.script[len(node.script)-1]
		}
		node.configCalls++
		if state == "" {
			w.Write([]byte(`{"data":{"name":"pre-update"}}`))
			return
		}
		w.Write([]byte(`{"data":{"name":"pre-update","snapstate":"` + state + `"}}`))
	})
	node.mux.HandleFunc(base+"/pre-update/rollback", func(w http.ResponseWriter, r *http.Request) {
		node.rollbackHit++
		w.Write([]byte(`{"data":"UPID:pve1:rollback"}`))
	})
	node.mux.HandleFunc(base+"/pre-update", func(w http.ResponseWriter, r *http.Request) {
		node.deleteHit++
		w.Write([]byte(`{"data":"UPID:pve1:delsnapshot"}`))
	})

	return node
}

func newTestSnapshotService(t *testing.T, node *fakeSnapshotNode) *SnapshotService {
	t.Helper()
	server := httptest.NewServer(node.mux)
	t.Cleanup(server.Close)
	return NewSnapshotService(newTestClient(t, server.URL), testWaits(), testLogger())
}

func TestCreate_SendsNameAndVMStateInOrder(t *testing.T) {
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	result, err := svc.Create(context.Background(), "100", "pre-update", CreateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "snapname=pre-update&vmstate=1", node.createBody, "memory state defaults to included")
	assert.Equal(t, `{"data":"UPID:pve1:snapshot"}`, result.Payload)
}

func TestCreate_WithoutVMState(t *testing.T) {
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	include := false
	_, err := svc.Create(context.Background(), "100", "pre-update", CreateOptions{IncludeVMState: &include})

	require.NoError(t, err)
	assert.Equal(t, "snapname=pre-update&vmstate=0", node.createBody)
}

func TestVerifyReady_SucceedsOnceStateLeavesPrepare(t *testing.T) {
	slept := stubSleep(t)
	node := newFakeSnapshotNode("prepare", "prepare", "")
	svc := newTestSnapshotService(t, node)

	err := svc.VerifyReady(context.Background(), "100", "pre-update", VerifyOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, node.configCalls, "polling stops on the first terminal state")
	assert.Len(t, *slept, 3, "every poll is preceded by one interval sleep")
}

func TestVerifyReady_AbsentStateFieldIsTerminal(t *testing.T) {
	stubSleep(t)
	node := newFakeSnapshotNode("")
	svc := newTestSnapshotService(t, node)

	err := svc.VerifyReady(context.Background(), "100", "pre-update", VerifyOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, node.configCalls)
}

func TestVerifyReady_ExhaustsBudgetWhilePreparing(t *testing.T) {
	slept := stubSleep(t)
	node := newFakeSnapshotNode("prepare")
	svc := newTestSnapshotService(t, node)

	err := svc.VerifyReady(context.Background(), "100", "pre-update", VerifyOptions{
		MaxAttempts: 4,
		Interval:    2 * time.Second,
	})

	var timeoutErr *ConfirmationTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 4, timeoutErr.Attempts)
	assert.Equal(t, "prepare", timeoutErr.LastValue)
	assert.Equal(t, 4, node.configCalls, "exactly MaxAttempts polls, never more")
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, *slept)
}

func TestVerifyReady_DeleteStateIsTransient(t *testing.T) {
	stubSleep(t)
	node := newFakeSnapshotNode("delete", "delete", "")
	svc := newTestSnapshotService(t, node)

	err := svc.VerifyReady(context.Background(), "100", "pre-update", VerifyOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, node.configCalls)
}

func TestCreateThenVerify_WholeFlow(t *testing.T) {
	slept := stubSleep(t)
	node := newFakeSnapshotNode("prepare", "prepare", "")
	svc := newTestSnapshotService(t, node)

	_, err := svc.Create(context.Background(), "100", "pre-update", CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyReady(context.Background(), "100", "pre-update", VerifyOptions{}))

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	assert.Equal(t, "snapname=pre-update&vmstate=1", node.createBody)
	assert.GreaterOrEqual(t, total, 10*time.Second, "two transient polls cost at least two intervals")
}

func TestRestore_PausesAfterRollback(t *testing.T) {
	slept := stubSleep(t)
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	result, err := svc.Restore(context.Background(), "100", "pre-update", RestoreOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, node.rollbackHit)
	assert.Equal(t, `{"data":"UPID:pve1:rollback"}`, result.Payload)
	assert.Equal(t, []time.Duration{5 * time.Second}, *slept)
}

func TestExists(t *testing.T) {
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	exists, err := svc.Exists(context.Background(), "100", "pre-update")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(context.Background(), "100", "other")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExists_EmptyListIsNotAnError(t *testing.T) {
	node := newFakeSnapshotNode()
	node.listBody = `{"data":[]}`
	svc := newTestSnapshotService(t, node)

	exists, err := svc.Exists(context.Background(), "100", "pre-update")

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExists_MalformedListIsParseError(t *testing.T) {
	node := newFakeSnapshotNode()
	node.listBody = `not json`
	svc := newTestSnapshotService(t, node)

	_, err := svc.Exists(context.Background(), "100", "pre-update")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "data", parseErr.Path)
}

func TestSafeRestore_AbsentSnapshotShortCircuits(t *testing.T) {
	stubSleep(t)
	node := newFakeSnapshotNode()
	node.listBody = `{"data":[]}`
	svc := newTestSnapshotService(t, node)

	for _, propagate := range []bool{true, false} {
		performed, err := svc.SafeRestore(context.Background(), "100", "pre-update", propagate, RestoreOptions{})
		require.NoError(t, err)
		assert.False(t, performed)
	}
	assert.Zero(t, node.rollbackHit, "an absent snapshot never reaches the rollback endpoint")
}

func TestSafeRestore_PerformsWhenSnapshotExists(t *testing.T) {
	stubSleep(t)
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	performed, err := svc.SafeRestore(context.Background(), "100", "pre-update", true, RestoreOptions{})

	require.NoError(t, err)
	assert.True(t, performed)
	assert.Equal(t, 1, node.rollbackHit)
}

func TestSafeRestore_FailurePropagation(t *testing.T) {
	stubSleep(t)
	node := newFakeSnapshotNode()
	node.mux.HandleFunc("/api2/json/nodes/pve1/qemu/100/snapshot/broken/rollback", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rollback failed", http.StatusInternalServerError)
	})
	node.mux.HandleFunc("/api2/json/nodes/pve1/qemu/100/snapshot/broken/config", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"name":"broken"}}`))
	})
	node.listBody = `{"data":[{"name":"broken"}]}`
	svc := newTestSnapshotService(t, node)

	performed, err := svc.SafeRestore(context.Background(), "100", "broken", true, RestoreOptions{})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.False(t, performed)

	performed, err = svc.SafeRestore(context.Background(), "100", "broken", false, RestoreOptions{})
	require.NoError(t, err, "propagate=false swallows the failure")
	assert.False(t, performed, "a swallowed failure still reports not performed")
}

func TestSafeDelete_AbsentSnapshotShortCircuits(t *testing.T) {
	node := newFakeSnapshotNode()
	node.listBody = `{"data":[]}`
	svc := newTestSnapshotService(t, node)

	performed, err := svc.SafeDelete(context.Background(), "100", "pre-update", true)

	require.NoError(t, err)
	assert.False(t, performed)
	assert.Zero(t, node.deleteHit)
}

func TestSafeDelete_PerformsWhenSnapshotExists(t *testing.T) {
	node := newFakeSnapshotNode()
	svc := newTestSnapshotService(t, node)

	performed, err := svc.SafeDelete(context.Background(), "100", "pre-update", true)

	require.NoError(t, err)
	assert.True(t, performed)
	assert.Equal(t, 1, node.deleteHit)
}

func TestSafeDelete_FailurePropagation(t *testing.T) {
	node := newFakeSnapshotNode()
	node.mux.HandleFunc("/api2/json/nodes/pve1/qemu/100/snapshot/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "delete failed", http.StatusInternalServerError)
	})
	node.listBody = `{"data":[{"name":"broken"}]}`
	svc := newTestSnapshotService(t, node)

	performed, err := svc.SafeDelete(context.Background(), "100", "broken", true)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr, "a delete failure after a positive existence check still surfaces")
	assert.False(t, performed)

	performed, err = svc.SafeDelete(context.Background(), "100", "broken", false)
	require.NoError(t, err, "propagate=false swallows the failure")
	assert.False(t, performed)
}

func TestSafeDelete_ExistenceCheckFailureSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node down", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	svc := NewSnapshotService(newTestClient(t, server.URL), testWaits(), testLogger())

	performed, err := svc.SafeDelete(context.Background(), "100", "pre-update", true)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.False(t, performed)
}
