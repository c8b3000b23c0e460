package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/agentics/pkg/adwconfig"
	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/kv"
	"github.com/dukex/agentics/pkg/models"
	"github.com/dukex/agentics/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, root string) *fiber.App {
	t.Helper()

	store, err := kv.NewFileStore(root)
	require.NoError(t, err)

	service := handoff.NewService(root, adwconfig.NewStore(store, slog.Default()), slog.Default())

	return NewAPI(slog.Default(), service).App()
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Logf("Failed to close response body: %v", err)
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Agentics API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CreateExecution(t *testing.T) {
	root := t.TempDir()
	app := setupTestApp(t, root)

	payload, err := json.Marshal(map[string]any{
		"task_id": "task-42",
		"fields":  map[string]any{"ticket": "PROJ-7"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created web.ExecuteResponse

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "task-42", created.TaskID)
	assert.Equal(t, models.ExecutionModeAutomatic, created.ExecutionMode)
	assert.Equal(t, string(models.WorkflowStatusInitialized), created.Status)
	assert.Equal(t, "trigger_task-42.json", created.TriggerFile)

	layout := handoff.NewLayout(root)
	assert.FileExists(t, layout.StateFilePath("task-42"))
	assert.FileExists(t, layout.TriggerFilePath("task-42"))
}

func TestAPI_CreateExecution_MissingTaskID(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/executions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_GetExecution_Unknown(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/executions/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status handoff.ExecutionStatus

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Found)
	assert.Equal(t, handoff.StatusInitializing, status.Status)
}

func TestAPI_StopExecution(t *testing.T) {
	root := t.TempDir()
	app := setupTestApp(t, root)

	req := httptest.NewRequest(http.MethodPost, "/executions/task-9/stop", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	layout := handoff.NewLayout(root)
	assert.FileExists(t, layout.StopSignalPath("task-9"))
}

func TestAPI_DeleteExecution_Idempotent(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodDelete, "/executions/never-published", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_ConfigRoundTrip(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	var config models.ExecutionConfig

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&config))
	assert.Equal(t, models.DefaultExecutionConfig(), config)

	config.AutoExecute = false
	config.PollingInterval = 500

	payload, err := json.Marshal(config)
	require.NoError(t, err)

	putReq := httptest.NewRequest(http.MethodPut, "/config", bytes.NewReader(payload))
	putReq.Header.Set("Content-Type", "application/json")

	putResp, err := app.Test(putReq)
	require.NoError(t, err)

	defer closeBody(t, putResp)

	assert.Equal(t, http.StatusOK, putResp.StatusCode)

	getReq := httptest.NewRequest(http.MethodGet, "/config", nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)

	defer closeBody(t, getResp)

	var persisted models.ExecutionConfig

	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&persisted))
	assert.False(t, persisted.AutoExecute)
	assert.Equal(t, 500, persisted.PollingInterval)
}

func TestAPI_PutConfig_RejectsNonPositiveInterval(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	payload := []byte(`{"autoExecute":true,"fallbackToManual":true,"cleanupAfterCompletion":true,"pollingInterval":0}`)

	req := httptest.NewRequest(http.MethodPut, "/config", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Supported(t *testing.T) {
	root := t.TempDir()
	app := setupTestApp(t, root)

	req := httptest.NewRequest(http.MethodGet, "/executions/supported", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]bool

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result["supported"])

	info, err := os.Stat(filepath.Join(root, "agentics", "adws"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
