package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/http/handlers"
	"github.com/mkulima-ai/leafscan/internal/http/middleware"
)

type Router struct {
	diagnosisHandler *handlers.DiagnosisHandler
	logger           *zap.Logger
}

func NewRouter(diagnosisHandler *handlers.DiagnosisHandler, logger *zap.Logger) *Router {
	return &Router{
		diagnosisHandler: diagnosisHandler,
		logger:           logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.Logger(r.logger))
	engine.Use(middleware.ErrorHandler(r.logger))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/", r.diagnosisHandler.Home)
	engine.GET("/health", r.diagnosisHandler.HealthCheck)

	api := engine.Group("/api/v1")
	{
		api.POST("/predict", r.diagnosisHandler.Predict)
		api.GET("/treatment/:disease", r.diagnosisHandler.Treatment)
		api.GET("/history", r.diagnosisHandler.History)
		api.GET("/analytics/outbreaks", r.diagnosisHandler.Outbreaks)
	}

	return engine
}
