package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webos/internal/api/middleware"
	"github.com/GriffinCanCode/webos/internal/infrastructure/config"
	"github.com/GriffinCanCode/webos/internal/providers/terminal"
	"github.com/GriffinCanCode/webos/internal/shared/types"
	"github.com/GriffinCanCode/webos/internal/storage"
	"github.com/GriffinCanCode/webos/internal/vfs"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	return cfg
}

func newTestServer(t *testing.T, kv storage.KV) *Server {
	t.Helper()
	srv, err := NewServer(context.Background(), testConfig(), WithKV(kv), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory())

	rec := do(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(vfs.New().Len()), body["entries"])
}

func TestShellOverHTTPPersists(t *testing.T) {
	kv := storage.NewMemory()
	srv := newTestServer(t, kv)

	created := do(t, srv, http.MethodPost, "/shell", nil)
	require.Equal(t, http.StatusCreated, created.Code)
	var info terminal.SessionInfo
	decode(t, created, &info)
	assert.Equal(t, "/home/user", info.WorkingDir)

	exec := func(line string) types.ShellResponse {
		rec := do(t, srv, http.MethodPost, "/shell/"+info.ID+"/exec", types.ShellRequest{Command: line})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out types.ShellResponse
		decode(t, rec, &out)
		return out
	}

	assert.Empty(t, exec("mkdir projects").Output)
	moved := exec("cd projects")
	assert.Equal(t, "/home/user/projects", moved.Cwd)
	assert.Equal(t, "user@webos:~/projects$ ", moved.Prompt)

	data, err := kv.Get(context.Background(), config.Default().Storage.Key)
	require.NoError(t, err)
	snap, err := vfs.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Contains(t, snap, "/home/user/projects")

	// a second server over the same backend sees the tree
	reopened := newTestServer(t, kv)
	rec := do(t, reopened, http.MethodGet, "/vfs/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored, err := vfs.DecodeSnapshot(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, restored, "/home/user/projects")
}

func TestShellSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory())

	rejected := do(t, srv, http.MethodPost, "/shell", map[string]string{"working_dir": "/missing"})
	assert.Equal(t, http.StatusBadRequest, rejected.Code)

	created := do(t, srv, http.MethodPost, "/shell", map[string]string{"working_dir": "/tmp"})
	require.Equal(t, http.StatusCreated, created.Code)
	var info terminal.SessionInfo
	decode(t, created, &info)

	listed := do(t, srv, http.MethodGet, "/shell", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, listed, &list)
	assert.Equal(t, 1, list.Count)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/shell/"+info.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/shell/"+info.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, srv, http.MethodPost, "/shell/"+info.ID+"/exec", types.ShellRequest{Command: "ls"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/shell/bad.id", nil).Code)
}

func TestExecuteService(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory())

	write := do(t, srv, http.MethodPost, "/services/execute", types.ExecuteRequest{
		ToolID: "filesystem.write",
		Params: map[string]interface{}{"path": "~/notes.txt", "data": "remember\n"},
	})
	require.Equal(t, http.StatusOK, write.Code, write.Body.String())

	read := do(t, srv, http.MethodPost, "/services/execute", types.ExecuteRequest{
		ToolID: "filesystem.read",
		Params: map[string]interface{}{"path": "~/notes.txt"},
	})
	require.Equal(t, http.StatusOK, read.Code)
	var result types.Result
	decode(t, read, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "remember\n", result.Data["content"])

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/services/execute",
		types.ExecuteRequest{ToolID: "kernel.spawn"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/services/execute",
		types.ExecuteRequest{ToolID: "filesystem"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/services/execute",
		map[string]string{"params": "nope"}).Code)
}

func TestListServices(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory())

	var body struct {
		Services []types.Service `json:"services"`
		Count    int             `json:"count"`
	}
	decode(t, do(t, srv, http.MethodGet, "/services", nil), &body)
	require.Equal(t, 2, body.Count)
	assert.Equal(t, "filesystem", body.Services[0].ID)
	assert.Equal(t, "terminal", body.Services[1].ID)

	decode(t, do(t, srv, http.MethodGet, "/services?category=system", nil), &body)
	assert.Equal(t, 1, body.Count)
}

func TestMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory())

	created := do(t, srv, http.MethodPost, "/shell", nil)
	var info terminal.SessionInfo
	decode(t, created, &info)
	do(t, srv, http.MethodPost, "/shell/"+info.ID+"/exec", types.ShellRequest{Command: "touch a.txt"})

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `webos_shell_commands_total{command="touch",outcome="success"} 1`)
	assert.Contains(t, body, `webos_snapshot_operations_total{op="save",outcome="success"}`)
	assert.Contains(t, body, "webos_terminal_sessions_active 1")

	var summary struct {
		ShellCommands  int64 `json:"shell_commands"`
		ActiveSessions int64 `json:"active_sessions"`
	}
	decode(t, do(t, srv, http.MethodGet, "/metrics/summary", nil), &summary)
	assert.Equal(t, int64(1), summary.ShellCommands)
	assert.Equal(t, int64(1), summary.ActiveSessions)
}

func TestUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = "floppy"

	_, err := NewServer(context.Background(), cfg, WithLogger(zap.NewNop()))
	assert.ErrorContains(t, err, "unknown backend")
}
