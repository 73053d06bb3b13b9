package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"detection-service/internal/domain"
	"detection-service/internal/dto"
)

func TestRecentDetections(t *testing.T) {
	f := setup(t, true)

	recs := []*domain.DetectionRecord{
		{ID: 1, CameraID: "CAM_001", Timestamp: time.Now(), Label: "weapon", Confidence: 0.9, ModelName: "weapon", Status: "active"},
	}
	f.repo.On("Recent", mock.Anything, mock.MatchedBy(func(fl domain.RecentFilter) bool {
		return fl.Limit == 5 && fl.Label == "weapon" && fl.Window == 12*time.Hour
	})).Return(recs, nil)

	req, _ := http.NewRequest("GET", "/detections/recent?limit=5&detection_type=weapon&hours=12", nil)
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RecentDetectionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 12, resp.PeriodHours)
	require.Len(t, resp.Detections, 1)
	assert.Equal(t, "weapon", resp.Detections[0].Type)
}

func TestRecentDetections_WithoutDatabase(t *testing.T) {
	f := setup(t, false)

	req, _ := http.NewRequest("GET", "/detections/recent", nil)
	w := f.do(t, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStatistics(t *testing.T) {
	f := setup(t, true)

	stats := &domain.Statistics{Total: 7, ByLabel: map[string]int{"fire": 4, "smoke": 3}, AvgConfidence: 0.76}
	f.repo.On("Statistics", mock.Anything, 24*time.Hour).Return(stats, nil)

	req, _ := http.NewRequest("GET", "/statistics", nil)
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StatisticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Statistics.Total)
	assert.Equal(t, 24, resp.PeriodHours)
	assert.Equal(t, 4, resp.Statistics.ByLabel["fire"])
}

func TestUpdateDetectionStatus(t *testing.T) {
	f := setup(t, true)
	f.repo.On("UpdateStatus", mock.Anything, int64(3), "resolved", "checked on site").Return(nil)

	form := url.Values{"status": {"resolved"}, "notes": {"checked on site"}}
	req, _ := http.NewRequest("PUT", "/detections/3/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.UpdateStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3), resp.DetectionID)
	assert.Equal(t, "resolved", resp.NewStatus)
}

func TestUpdateDetectionStatus_InvalidID(t *testing.T) {
	f := setup(t, true)

	form := url.Values{"status": {"resolved"}}
	req, _ := http.NewRequest("PUT", "/detections/not-a-number/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDetectionStatus_MissingStatus(t *testing.T) {
	f := setup(t, true)

	req, _ := http.NewRequest("PUT", "/detections/3/status", nil)
	w := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDetectionStatus_NotFound(t *testing.T) {
	f := setup(t, true)
	f.repo.On("UpdateStatus", mock.Anything, int64(99), "resolved", "").Return(domain.ErrRecordNotFound)

	form := url.Values{"status": {"resolved"}}
	req, _ := http.NewRequest("PUT", "/detections/99/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
