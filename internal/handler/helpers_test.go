package handler

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"detection-service/internal/activity"
	"detection-service/internal/domain"
	"detection-service/internal/metrics"
	"detection-service/internal/registry"
	"detection-service/internal/testutil"
	"detection-service/internal/usecase"
)

type fixture struct {
	registry *registry.Registry
	repo     *testutil.MockDetectionRepo
	activity *activity.Log
	router   *gin.Engine
}

func weaponDet() domain.Detection {
	return domain.Detection{Class: "weapon", Confidence: 0.91, Box: domain.Box{X1: 5, Y1: 5, X2: 40, Y2: 30}}
}

func fireDet() domain.Detection {
	return domain.Detection{Class: "fire", Confidence: 0.77, Box: domain.Box{X1: 10, Y1: 10, X2: 20, Y2: 20}}
}

// setup builds a router over fake detectors and a mock repository.
// Pass withRepo=false to simulate running without a database.
func setup(t *testing.T, withRepo bool) *fixture {
	t.Helper()
	reg := registry.New(
		registry.Entry{Name: "weapon", Detector: &testutil.FakeDetector{Detections: []domain.Detection{weaponDet()}}},
		registry.Entry{Name: "fire_smoke", Detector: &testutil.FakeDetector{Detections: []domain.Detection{fireDet()}}},
	)
	return build(t, reg, withRepo)
}

func setupWithRegistry(t *testing.T, reg *registry.Registry) *fixture {
	t.Helper()
	return build(t, reg, false)
}

func build(t *testing.T, reg *registry.Registry, withRepo bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		registry: reg,
		repo:     new(testutil.MockDetectionRepo),
		activity: activity.New(50),
	}

	m := metrics.New()
	var repo domain.DetectionRepository
	if withRepo {
		repo = f.repo
	}

	h := New(
		usecase.NewDetectUseCase(reg, repo, m),
		usecase.NewModelUseCase(reg, m),
		usecase.NewHistoryUseCase(repo),
		f.activity,
	)

	f.router = gin.New()
	h.RegisterRoutes(f.router)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))
	return buf.Bytes()
}

// multipartUpload builds a request body with a "file" part plus any
// extra form fields.
func multipartUpload(t *testing.T, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", "frame.png")
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}
