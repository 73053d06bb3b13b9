package handler

import (
	"github.com/gin-gonic/gin"

	"detection-service/internal/activity"
	"detection-service/internal/usecase"
)

type Handler struct {
	detectUC  *usecase.DetectUseCase
	modelUC   *usecase.ModelUseCase
	historyUC *usecase.HistoryUseCase
	activity  *activity.Log
}

func New(detectUC *usecase.DetectUseCase, modelUC *usecase.ModelUseCase, historyUC *usecase.HistoryUseCase, activityLog *activity.Log) *Handler {
	return &Handler{
		detectUC:  detectUC,
		modelUC:   modelUC,
		historyUC: historyUC,
		activity:  activityLog,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	// Models
	r.GET("/models", h.GetModels)
	r.POST("/models/switch", h.SwitchModel)

	// Detection
	r.POST("/detect", h.Detect)
	r.POST("/detect/both", h.DetectBoth)

	// Detection history
	r.GET("/detections/recent", h.RecentDetections)
	r.GET("/statistics", h.Statistics)
	r.PUT("/detections/:id/status", h.UpdateDetectionStatus)

	// Database activity log
	r.GET("/api/database/logs", h.GetLogs)
	r.POST("/api/database/logs/clear", h.ClearLogs)
	r.GET("/api/database/logs/stream", h.StreamLogs)
}
