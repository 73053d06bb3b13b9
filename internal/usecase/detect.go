package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"detection-service/internal/detector"
	"detection-service/internal/domain"
	"detection-service/internal/metrics"
	"detection-service/internal/registry"
)

// Box colors per model; unknown models get green.
var modelColors = map[string]color.RGBA{
	"weapon":     {R: 255, A: 255},
	"fire_smoke": {B: 255, A: 255},
}

func colorFor(model string) color.RGBA {
	if c, ok := modelColors[model]; ok {
		return c
	}
	return color.RGBA{G: 255, A: 255}
}

// DetectUseCase orchestrates a detection request: decode, infer with
// the selected model(s), persist, annotate. Every call re-runs
// inference; results are never cached.
type DetectUseCase struct {
	registry *registry.Registry
	repo     domain.DetectionRepository // nil when running without a database
	metrics  *metrics.Metrics
}

func NewDetectUseCase(reg *registry.Registry, repo domain.DetectionRepository, m *metrics.Metrics) *DetectUseCase {
	return &DetectUseCase{registry: reg, repo: repo, metrics: m}
}

// Detect runs the active model over payload.
func (uc *DetectUseCase) Detect(ctx context.Context, payload []byte, cameraID string) (*domain.DetectionResult, error) {
	entry, err := uc.registry.ActiveEntry()
	if err != nil {
		return nil, err
	}

	img, err := decodeImage(payload)
	if err != nil {
		return nil, err
	}

	res, err := uc.runModel(ctx, entry, img, cameraID)
	if err != nil {
		return nil, err
	}
	return &domain.DetectionResult{
		Model:          res.Model,
		Detections:     res.Detections,
		AnnotatedImage: res.AnnotatedImage,
		DetectionIDs:   res.DetectionIDs,
	}, nil
}

// DetectAll runs every registered model over payload, tagging each
// result set with its source model.
func (uc *DetectUseCase) DetectAll(ctx context.Context, payload []byte, cameraID string) (*domain.MultiModelResult, error) {
	entries := uc.registry.Entries()
	if len(entries) == 0 {
		return nil, domain.ErrNoModelsLoaded
	}

	img, err := decodeImage(payload)
	if err != nil {
		return nil, err
	}

	out := &domain.MultiModelResult{Results: make([]domain.ModelResult, 0, len(entries))}
	for _, entry := range entries {
		res, err := uc.runModel(ctx, entry, img, cameraID)
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, *res)
	}
	return out, nil
}

func (uc *DetectUseCase) runModel(ctx context.Context, entry *registry.Entry, img image.Image, cameraID string) (*domain.ModelResult, error) {
	start := time.Now()
	detections, err := entry.Detector.Detect(ctx, img)
	uc.metrics.InferenceSeconds.WithLabelValues(entry.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		uc.metrics.DetectRequests.WithLabelValues(entry.Name, "error").Inc()
		// Inference failures are treated as non-transient within a
		// request: no retry.
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectionFailed, err)
	}
	uc.metrics.DetectRequests.WithLabelValues(entry.Name, "success").Inc()

	for _, d := range detections {
		uc.metrics.DetectionsFound.WithLabelValues(entry.Name, d.Class).Inc()
	}

	ids := uc.persist(ctx, entry.Name, cameraID, detections)

	annotated, err := encodeAnnotated(img, detections, entry.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectionFailed, err)
	}

	return &domain.ModelResult{
		Model:          entry.Name,
		Detections:     detections,
		AnnotatedImage: annotated,
		DetectionIDs:   ids,
	}, nil
}

// persist writes each detection to the history store. Persistence
// failures are logged and never fail the request.
func (uc *DetectUseCase) persist(ctx context.Context, model, cameraID string, detections []domain.Detection) []int64 {
	ids := make([]int64, 0, len(detections))
	if uc.repo == nil {
		return ids
	}
	for _, d := range detections {
		id, err := uc.repo.Save(ctx, &domain.DetectionRecord{
			CameraID:   cameraID,
			Timestamp:  time.Now(),
			Label:      d.Class,
			Confidence: d.Confidence,
			Box:        d.Box,
			ModelName:  model,
		})
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"model": model,
				"class": d.Class,
			}).Error("save detection failed")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func decodeImage(payload []byte) (image.Image, error) {
	if len(payload) == 0 {
		return nil, domain.ErrInvalidImage
	}
	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return img, nil
}

func encodeAnnotated(img image.Image, detections []domain.Detection, model string) (string, error) {
	annotated := detector.Annotate(img, detections, colorFor(model))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, annotated, imaging.JPEG); err != nil {
		return "", fmt.Errorf("encode annotated image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
