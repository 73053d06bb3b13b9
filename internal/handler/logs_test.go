package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detection-service/internal/domain"
	"detection-service/internal/dto"
)

func activityEntry(action string) domain.ActivityEntry {
	return domain.ActivityEntry{
		Timestamp: time.Now(),
		Type:      "INSERT",
		Table:     "detections",
		Action:    action,
		Status:    domain.ActivityStatusSuccess,
	}
}

func TestGetLogs(t *testing.T) {
	f := setup(t, true)
	f.activity.Add(activityEntry("a"))
	f.activity.Add(activityEntry("b"))

	req, _ := http.NewRequest("GET", "/api/database/logs", nil)
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Logs, 2)
	assert.Equal(t, "a", resp.Logs[0].Action)
}

func TestGetLogs_Limit(t *testing.T) {
	f := setup(t, true)
	for _, a := range []string{"a", "b", "c"} {
		f.activity.Add(activityEntry(a))
	}

	req, _ := http.NewRequest("GET", "/api/database/logs?limit=2", nil)
	w := f.do(t, req)

	var resp dto.LogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "b", resp.Logs[0].Action)
	assert.Equal(t, "c", resp.Logs[1].Action)
}

func TestGetLogs_Empty(t *testing.T) {
	f := setup(t, true)

	req, _ := http.NewRequest("GET", "/api/database/logs", nil)
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Logs)
}

func TestClearLogs(t *testing.T) {
	f := setup(t, true)
	f.activity.Add(activityEntry("a"))

	req, _ := http.NewRequest("POST", "/api/database/logs/clear", nil)
	w := f.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/api/database/logs", nil)
	w = f.do(t, req)

	var resp dto.LogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Logs)
}
