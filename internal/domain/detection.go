package domain

import (
	"context"
	"image"
	"time"
)

// Box is a bounding box in pixel coordinates of the source image,
// with X1 <= X2 and Y1 <= Y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is one predicted object instance.
type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
}

// Detector runs inference on a decoded image. Implementations must
// return boxes clamped to the image bounds and confidences in [0, 1].
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
	Classes() []string
}

// DetectionResult is the outcome of a single-model detection request.
type DetectionResult struct {
	Model          string
	Detections     []Detection
	AnnotatedImage string // base64-encoded JPEG with boxes drawn
	DetectionIDs   []int64
}

// ModelResult is one model's share of a multi-model detection request.
type ModelResult struct {
	Model          string
	Detections     []Detection
	AnnotatedImage string
	DetectionIDs   []int64
}

// MultiModelResult holds per-model results in registration order.
type MultiModelResult struct {
	Results []ModelResult
}

// DetectionRecord is a persisted detection row.
type DetectionRecord struct {
	ID         int64     `json:"id"`
	CameraID   string    `json:"camera_id"`
	Timestamp  time.Time `json:"timestamp"`
	Label      string    `json:"type"`
	Confidence float64   `json:"confidence"`
	ImagePath  string    `json:"image_path,omitempty"`
	Box        Box       `json:"box"`
	ModelName  string    `json:"model_name"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
}

// RecentFilter narrows a detection history read.
type RecentFilter struct {
	Limit  int
	Label  string
	Window time.Duration
}

// Statistics aggregates detection history over a time window.
type Statistics struct {
	Total         int            `json:"total"`
	ByLabel       map[string]int `json:"by_type"`
	AvgConfidence float64        `json:"avg_confidence"`
}
