package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/pkg/utils"
)

// === REQUEST PARSING ===

func (h *DiagnosisHandler) readUploadedImage(c *gin.Context, paramKey string) ([]byte, string, error) {
	file, header, err := c.Request.FormFile(paramKey)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	// One byte past the limit is enough for the validator to reject the
	// upload without buffering an arbitrarily large body.
	raw, err := io.ReadAll(io.LimitReader(file, h.config.Validation.MaxFileSize+1))
	if err != nil {
		return nil, "", err
	}
	return raw, header.Filename, nil
}

func (h *DiagnosisHandler) imageHash(raw []byte) string {
	return utils.ImageHash(raw)
}

// === CACHE ===

func (h *DiagnosisHandler) cachedDiagnosis(c *gin.Context, hash string) *models.DiagnosisResult {
	cached, err := h.storage.GetDiagnosis(c.Request.Context(), hash)
	if err != nil {
		h.logger.Warn("diagnosis cache read failed", zap.Error(err))
		return nil
	}
	return cached
}

func (h *DiagnosisHandler) cacheDiagnosis(c *gin.Context, hash string, result *models.DiagnosisResult) {
	if err := h.storage.SetDiagnosis(c.Request.Context(), hash, result); err != nil {
		h.logger.Warn("diagnosis cache write failed", zap.Error(err))
	}
}

// === STORAGE ===

func (h *DiagnosisHandler) archiveImage(c *gin.Context, raw []byte, filename string) string {
	url, err := h.storage.ArchiveImage(c.Request.Context(), raw, filename)
	if err != nil {
		h.logger.Warn("image archive failed", zap.String("filename", filename), zap.Error(err))
		return ""
	}
	return url
}

// === REPORT QUEUE ===

func (h *DiagnosisHandler) enqueueReport(
	c *gin.Context,
	result *models.DiagnosisResult,
	farmerID, location, imageURL, imageHash string,
) {
	if h.queue == nil {
		return
	}

	job := &models.ReportJob{
		ID: uuid.New().String(),
		Report: models.DiseaseReport{
			ID:            uuid.New().String(),
			FarmerID:      farmerID,
			CropType:      result.CropType,
			Location:      location,
			DiseaseName:   result.DiseaseName,
			Confidence:    result.Confidence,
			SeverityLevel: result.Severity.Level,
			ImageURL:      imageURL,
			ImageHash:     imageHash,
			CreatedAt:     time.Now().UTC(),
		},
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.queue.PublishReport(c.Request.Context(), job); err != nil {
		h.logger.Warn("report enqueue failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// === UTILITY ===

func (h *DiagnosisHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *DiagnosisHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
