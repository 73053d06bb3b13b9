package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"detection-service/internal/domain"
	"detection-service/internal/dto"
)

func (h *Handler) RecentDetections(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if hours <= 0 {
		hours = 24
	}

	recs, err := h.historyUC.Recent(c.Request.Context(), domain.RecentFilter{
		Limit:  limit,
		Label:  c.Query("detection_type"),
		Window: time.Duration(hours) * time.Hour,
	})
	if err != nil {
		log.WithError(err).Error("recent detections query failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DetectionRecordResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, dto.ToDetectionRecordResponse(rec))
	}

	c.JSON(http.StatusOK, dto.RecentDetectionsResponse{
		Detections:  items,
		Count:       len(items),
		PeriodHours: hours,
	})
}

func (h *Handler) Statistics(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if hours <= 0 {
		hours = 24
	}

	stats, err := h.historyUC.Statistics(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		log.WithError(err).Error("statistics query failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatisticsResponse{
		Statistics:  stats,
		PeriodHours: hours,
	})
}

func (h *Handler) UpdateDetectionStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid detection id"})
		return
	}

	status := c.PostForm("status")
	notes := c.PostForm("notes")

	if err := h.historyUC.UpdateStatus(c.Request.Context(), id, status, notes); err != nil {
		log.WithError(err).WithField("detection_id", id).Error("status update failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateStatusResponse{
		Success:     true,
		DetectionID: id,
		NewStatus:   status,
	})
}
