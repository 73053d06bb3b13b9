package dto

import (
	"time"

	"detection-service/internal/domain"
)

const timeFormat = time.RFC3339

func ToDetectResponse(res *domain.DetectionResult) DetectResponse {
	detections := res.Detections
	if detections == nil {
		detections = []domain.Detection{}
	}
	ids := res.DetectionIDs
	if ids == nil {
		ids = []int64{}
	}
	return DetectResponse{
		Detections:   detections,
		Image:        res.AnnotatedImage,
		ModelUsed:    res.Model,
		SavedToDB:    len(ids),
		DetectionIDs: ids,
	}
}

func ToDetectAllResponse(res *domain.MultiModelResult) DetectAllResponse {
	out := DetectAllResponse{
		Detections:   []TaggedDetection{},
		Images:       make(map[string]string, len(res.Results)),
		DetectionIDs: make(map[string][]int64, len(res.Results)),
	}
	for _, r := range res.Results {
		for _, d := range r.Detections {
			out.Detections = append(out.Detections, TaggedDetection{Model: r.Model, Detection: d})
		}
		out.Images[r.Model] = r.AnnotatedImage
		ids := r.DetectionIDs
		if ids == nil {
			ids = []int64{}
		}
		out.DetectionIDs[r.Model] = ids
	}
	return out
}

func ToDetectionRecordResponse(rec *domain.DetectionRecord) DetectionRecordResponse {
	return DetectionRecordResponse{
		ID:         rec.ID,
		Type:       rec.Label,
		Confidence: rec.Confidence,
		Timestamp:  rec.Timestamp.Format(timeFormat),
		CameraID:   rec.CameraID,
		ImagePath:  rec.ImagePath,
		Box:        rec.Box,
		ModelName:  rec.ModelName,
		Status:     rec.Status,
		Notes:      rec.Notes,
	}
}
