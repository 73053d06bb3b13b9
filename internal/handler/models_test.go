package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"detection-service/internal/dto"
)

func switchRequest(model string) *http.Request {
	form := url.Values{"model_name": {model}}
	req, _ := http.NewRequest("POST", "/models/switch", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGetModels(t *testing.T) {
	f := setup(t, true)

	req, _ := http.NewRequest("GET", "/models", nil)
	w := f.do(t, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"weapon", "fire_smoke"}, resp.Models)
	assert.Equal(t, "weapon", resp.CurrentModel)
}

func TestSwitchModel(t *testing.T) {
	f := setup(t, true)

	w := f.do(t, switchRequest("fire_smoke"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SwitchModelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fire_smoke", resp.CurrentModel)

	// Observable via GET /models.
	w = f.do(t, func() *http.Request { r, _ := http.NewRequest("GET", "/models", nil); return r }())
	var models dto.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	assert.Equal(t, "fire_smoke", models.CurrentModel)
}

func TestSwitchModel_Unknown(t *testing.T) {
	f := setup(t, true)

	w := f.do(t, switchRequest("unknown_model"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Active model unchanged.
	req, _ := http.NewRequest("GET", "/models", nil)
	w = f.do(t, req)
	var models dto.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	assert.Equal(t, "weapon", models.CurrentModel)
}

func TestSwitchModel_MissingField(t *testing.T) {
	f := setup(t, true)

	req, _ := http.NewRequest("POST", "/models/switch", nil)
	w := f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSwitchModel_Idempotent(t *testing.T) {
	f := setup(t, true)

	w := f.do(t, switchRequest("fire_smoke"))
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, switchRequest("fire_smoke"))
	require.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/models", nil)
	w = f.do(t, req)
	var models dto.ModelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &models))
	assert.Equal(t, "fire_smoke", models.CurrentModel)
}
