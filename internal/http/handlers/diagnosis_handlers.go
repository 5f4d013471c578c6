package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
	"github.com/mkulima-ai/leafscan/internal/models"
	"github.com/mkulima-ai/leafscan/internal/services/classifier"
	"github.com/mkulima-ai/leafscan/internal/services/diagnosis"
	"github.com/mkulima-ai/leafscan/internal/services/enhancer"
	"github.com/mkulima-ai/leafscan/internal/services/knowledge"
	"github.com/mkulima-ai/leafscan/internal/services/queue"
	"github.com/mkulima-ai/leafscan/internal/services/reportstore"
	"github.com/mkulima-ai/leafscan/internal/services/storage"
)

const (
	version       = "1.0.0"
	imageParamKey = "image"
	caseLimit     = 5
)

type DiagnosisHandler struct {
	assembler *diagnosis.Assembler
	library   knowledge.Library
	storage   *storage.Service
	queue     *queue.Service
	reports   *reportstore.Store
	logger    *zap.Logger
	config    *config.Config
}

func NewDiagnosisHandler(
	assembler *diagnosis.Assembler,
	library knowledge.Library,
	storageSvc *storage.Service,
	queueSvc *queue.Service,
	reports *reportstore.Store,
	logger *zap.Logger,
	cfg *config.Config,
) *DiagnosisHandler {
	return &DiagnosisHandler{
		assembler: assembler,
		library:   library,
		storage:   storageSvc,
		queue:     queueSvc,
		reports:   reports,
		logger:    logger,
		config:    cfg,
	}
}

// Home describes the API.
func (h *DiagnosisHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"service": "leafscan",
			"version": version,
			"endpoints": gin.H{
				"health":    "/health",
				"predict":   "/api/v1/predict (POST)",
				"treatment": "/api/v1/treatment/:disease",
				"history":   "/api/v1/history?farmer_id=",
				"outbreaks": "/api/v1/analytics/outbreaks",
			},
		},
	})
}

// Predict runs the diagnosis pipeline over an uploaded leaf image.
// Expects multipart/form-data with an "image" file and optional crop_type,
// farmer_id and location fields.
func (h *DiagnosisHandler) Predict(c *gin.Context) {
	raw, filename, err := h.readUploadedImage(c, imageParamKey)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	cropType := c.PostForm("crop_type")
	farmerID := c.PostForm("farmer_id")
	location := c.PostForm("location")

	hash := h.imageHash(raw)
	if cached := h.cachedDiagnosis(c, hash); cached != nil {
		h.logger.Info("diagnosis cache hit", zap.String("image_hash", hash))
		c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: cached})
		return
	}

	result, err := h.assembler.Diagnose(c.Request.Context(), raw, filename, cropType)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	h.cacheDiagnosis(c, hash, result)
	imageURL := h.archiveImage(c, raw, filename)

	if farmerID != "" {
		h.enqueueReport(c, result, farmerID, location, imageURL, hash)
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: result})
}

// Treatment returns the treatment entries and reference cases for a disease.
func (h *DiagnosisHandler) Treatment(c *gin.Context) {
	disease := c.Param("disease")
	if disease == "" {
		h.respondError(c, http.StatusBadRequest, "disease name required")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"disease":       disease,
			"treatments":    h.library.RecommendationsFor(c.Request.Context(), disease),
			"similar_cases": h.library.SimilarCasesFor(c.Request.Context(), disease, caseLimit),
		},
	})
}

// History returns the most recent persisted reports for a farmer.
func (h *DiagnosisHandler) History(c *gin.Context) {
	farmerID := c.Query("farmer_id")
	if farmerID == "" {
		h.respondError(c, http.StatusBadRequest, "farmer_id parameter required")
		return
	}

	reports, err := h.reports.History(c.Request.Context(), farmerID)
	if err != nil {
		h.logger.Error("history query failed", zap.String("farmer_id", farmerID), zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"farmer_id": farmerID,
			"history":   reports,
			"count":     len(reports),
		},
	})
}

// Outbreaks aggregates reported cases per disease over the last 30 days.
func (h *DiagnosisHandler) Outbreaks(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -30)
	alerts, err := h.reports.Outbreaks(c.Request.Context(), since)
	if err != nil {
		h.logger.Error("outbreak aggregation failed", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to aggregate outbreaks")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: gin.H{
			"since":  since,
			"alerts": alerts,
		},
	})
}

// HealthCheck reports readiness of the model and every backing service.
func (h *DiagnosisHandler) HealthCheck(c *gin.Context) {
	services := h.storage.HealthCheck(c.Request.Context())

	if h.assembler.Ready() {
		services["ml_model"] = "healthy"
	} else {
		services["ml_model"] = "unhealthy: model not loaded"
	}

	if h.queue != nil {
		services["queue"] = h.queue.HealthCheck()
	} else {
		services["queue"] = "not configured"
	}

	if err := h.reports.Ping(c.Request.Context()); err != nil {
		services["database"] = "unhealthy: " + err.Error()
	} else {
		services["database"] = "healthy"
	}

	overall := h.calculateOverallHealth(services)
	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Version:   version,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}

func (h *DiagnosisHandler) respondPipelineError(c *gin.Context, err error) {
	var validationErr *diagnosis.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.respondError(c, http.StatusBadRequest, validationErr.Reason)
	case errors.Is(err, enhancer.ErrDecode):
		h.respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, classifier.ErrModelNotLoaded):
		// Startup fault: nothing will succeed until the operator fixes
		// the model configuration.
		h.logger.Error("classify requested before model load")
		h.respondError(c, http.StatusServiceUnavailable, "model not loaded")
	default:
		h.logger.Error("diagnosis failed", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to diagnose image")
	}
}
