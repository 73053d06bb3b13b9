package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"detection-service/internal/domain"
	"detection-service/internal/dto"
)

func (h *Handler) GetLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}

	logs := h.activity.Tail(limit)
	if logs == nil {
		logs = []domain.ActivityEntry{}
	}
	c.JSON(http.StatusOK, dto.LogsResponse{Logs: logs, Count: len(logs)})
}

func (h *Handler) ClearLogs(c *gin.Context) {
	h.activity.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "Database logs cleared successfully"})
}

// StreamLogs pushes new activity entries to the client as server-sent
// events, so the monitor panel does not have to poll.
func (h *Handler) StreamLogs(c *gin.Context) {
	id, ch := h.activity.Subscribe()
	defer h.activity.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case entry, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("log", entry)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
