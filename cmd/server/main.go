package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"diabetes-prediction-service/internal/adapters/primary/http/handlers"
	"diabetes-prediction-service/internal/adapters/secondary/artifactfile"
	"diabetes-prediction-service/internal/config"
	"diabetes-prediction-service/internal/core/services"
	"diabetes-prediction-service/internal/logging"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	apiTitle   = "Diabetes Prediction API"
	apiVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logging.Init(cfg.Logger)
	gin.SetMode(gin.ReleaseMode)

	// The service must not accept requests without a valid model.
	artifact, err := artifactfile.NewStore(cfg.Model.Path).Load(context.Background())
	if err != nil {
		log.Fatalf("load model artifact: %v", err)
	}

	predictionSvc := services.NewPredictionService(artifact)
	h := handlers.New(predictionSvc)
	router := handlers.NewRouter(h, cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.WithFields(log.Fields{
			"title":           apiTitle,
			"version":         apiVersion,
			"features":        artifact.Features,
			"allowed_origins": cfg.CORS.AllowedOrigins,
		}).Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
