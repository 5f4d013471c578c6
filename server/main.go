package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/config"
	"github.com/mkulima-ai/leafscan/internal/http/handlers"
	"github.com/mkulima-ai/leafscan/internal/http/routes"
	"github.com/mkulima-ai/leafscan/internal/services/classifier"
	"github.com/mkulima-ai/leafscan/internal/services/diagnosis"
	"github.com/mkulima-ai/leafscan/internal/services/enhancer"
	"github.com/mkulima-ai/leafscan/internal/services/knowledge"
	"github.com/mkulima-ai/leafscan/internal/services/queue"
	"github.com/mkulima-ai/leafscan/internal/services/reportstore"
	"github.com/mkulima-ai/leafscan/internal/services/storage"
	"github.com/mkulima-ai/leafscan/internal/services/validator"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// The model is loaded once and shared by every request; Classify
	// serializes access internally.
	model, err := classifier.New(cfg.Model, logger)
	if err != nil {
		logger.Fatal("Failed to load model", zap.Error(err))
	}
	defer model.Close()

	imageValidator := validator.New(cfg.Validation, logger)
	imageEnhancer := enhancer.New(cfg.Pipeline, logger)

	storageSvc, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	var library knowledge.Library = knowledge.NewStaticLibrary()
	library = knowledge.NewCachedLibrary(library, storageSvc.Redis(), cfg.Pipeline.CacheDuration, logger)

	assembler := diagnosis.NewAssembler(imageValidator, imageEnhancer, model, library, logger)

	reports, err := reportstore.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open report store", zap.Error(err))
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	queueSvc, err := queue.New(cfg.RabbitMQ.URL, reports, logger)
	if err != nil {
		logger.Warn("Failed to initialize queue service", zap.Error(err))
		// Continue without async report persistence
		queueSvc = nil
	} else {
		defer queueSvc.Close()
		if err := queueSvc.StartWorker(workerCtx, 1); err != nil {
			logger.Warn("Failed to start report worker", zap.Error(err))
		}
	}

	// Initialize handlers
	diagnosisHandler := handlers.NewDiagnosisHandler(
		assembler, library, storageSvc, queueSvc, reports, logger, cfg)

	router := routes.NewRouter(diagnosisHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
