package dto

import "detection-service/internal/domain"

type ModelsResponse struct {
	Models       []string `json:"models"`
	CurrentModel string   `json:"current_model"`
}

type SwitchModelResponse struct {
	Message      string `json:"message"`
	CurrentModel string `json:"current_model"`
}

type DetectResponse struct {
	Detections   []domain.Detection `json:"detections"`
	Image        string             `json:"image,omitempty"`
	ModelUsed    string             `json:"model_used"`
	SavedToDB    int                `json:"saved_to_db"`
	DetectionIDs []int64            `json:"detection_ids"`
}

// TaggedDetection carries the source model of a multi-model detection.
type TaggedDetection struct {
	Model string `json:"model"`
	domain.Detection
}

type DetectAllResponse struct {
	Detections   []TaggedDetection  `json:"detections"`
	Images       map[string]string  `json:"images"`
	DetectionIDs map[string][]int64 `json:"detection_ids"`
}

type LogsResponse struct {
	Logs  []domain.ActivityEntry `json:"logs"`
	Count int                    `json:"count"`
}

type DetectionRecordResponse struct {
	ID         int64      `json:"id"`
	Type       string     `json:"type"`
	Confidence float64    `json:"confidence"`
	Timestamp  string     `json:"timestamp"`
	CameraID   string     `json:"camera_id"`
	ImagePath  string     `json:"image_path,omitempty"`
	Box        domain.Box `json:"box"`
	ModelName  string     `json:"model_name"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes,omitempty"`
}

type RecentDetectionsResponse struct {
	Detections  []DetectionRecordResponse `json:"detections"`
	Count       int                       `json:"count"`
	PeriodHours int                       `json:"period_hours"`
}

type StatisticsResponse struct {
	Statistics  *domain.Statistics `json:"statistics"`
	PeriodHours int                `json:"period_hours"`
}

type UpdateStatusResponse struct {
	Success     bool   `json:"success"`
	DetectionID int64  `json:"detection_id"`
	NewStatus   string `json:"new_status"`
}
