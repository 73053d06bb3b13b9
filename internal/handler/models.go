package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"detection-service/internal/domain"
	"detection-service/internal/dto"
)

func (h *Handler) GetModels(c *gin.Context) {
	names, current := h.modelUC.List()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, dto.ModelsResponse{
		Models:       names,
		CurrentModel: current,
	})
}

func (h *Handler) SwitchModel(c *gin.Context) {
	name := c.PostForm("model_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidModelName.Error()})
		return
	}

	if err := h.modelUC.Switch(name); err != nil {
		log.WithError(err).WithField("model_name", name).Warn("model switch rejected")
		mapDomainError(c, err)
		return
	}

	log.WithField("model_name", name).Info("active model switched")
	c.JSON(http.StatusOK, dto.SwitchModelResponse{
		Message:      fmt.Sprintf("Switched to %s model", name),
		CurrentModel: name,
	})
}
