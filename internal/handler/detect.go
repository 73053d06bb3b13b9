package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"detection-service/internal/dto"
)

func (h *Handler) Detect(c *gin.Context) {
	payload, ok := readUpload(c)
	if !ok {
		return
	}
	cameraID := c.DefaultPostForm("camera_id", "default")

	res, err := h.detectUC.Detect(c.Request.Context(), payload, cameraID)
	if err != nil {
		log.WithError(err).Error("detect failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDetectResponse(res))
}

func (h *Handler) DetectBoth(c *gin.Context) {
	payload, ok := readUpload(c)
	if !ok {
		return
	}
	cameraID := c.DefaultPostForm("camera_id", "default")

	res, err := h.detectUC.DetectAll(c.Request.Context(), payload, cameraID)
	if err != nil {
		log.WithError(err).Error("dual-model detect failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDetectAllResponse(res))
}

// readUpload pulls the multipart "file" field. Replies with a 400 and
// returns ok=false when the field is missing or unreadable.
func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return nil, false
	}

	payload, err := readAll(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return nil, false
	}
	return payload, true
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
