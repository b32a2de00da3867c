package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"diabetes-prediction-service/internal/adapters/secondary/artifactfile"
	"diabetes-prediction-service/internal/adapters/secondary/csvdata"
	"diabetes-prediction-service/internal/adapters/secondary/linear"
	"diabetes-prediction-service/internal/config"
	"diabetes-prediction-service/internal/core/services"
	"diabetes-prediction-service/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("trainer", pflag.ExitOnError)
	flags.String("dataset-path", "diabetes.csv", "training dataset CSV")
	flags.String("model-path", "models/diabetes_model.json", "artifact output path")
	flags.Float64("train-test-size", 0.2, "fraction of rows held out for evaluation")
	flags.Int64("train-random-seed", 42, "seed for the stratified split")
	flags.Int("train-max-iter", 1000, "optimizer iteration budget")
	flags.Float64("train-c", 1.0, "inverse L2 regularisation strength")
	flags.String("logger-level", "info", "log level")
	flags.String("logger-format", "json", "log format (json or text)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateTrainer(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logging.Init(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := artifactfile.NewStore(cfg.Model.Path)
	svc := services.NewTrainingService(
		csvdata.NewReader(cfg.Training.DatasetPath),
		linear.NewEstimator(cfg.Training.MaxIter, cfg.Training.C),
		store,
		services.TrainingOptions{
			TestSize: cfg.Training.TestSize,
			Seed:     cfg.Training.RandomSeed,
		},
	)

	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	fmt.Print(result.Report.String())
	fmt.Printf("Model saved to %s\n", store.Path())
}
