package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"diabetes-prediction-service/internal/core/ports/output"
)

type TrainingOptions struct {
	TestSize float64
	Seed     int64
}

// TrainingResult describes a finished training run.
type TrainingResult struct {
	Report    *ClassificationReport
	Split     *Split
	TrainRows int
	TestRows  int
}

// TrainingService runs the offline split, fit, evaluate and persist job.
type TrainingService struct {
	dataset   ports.DatasetReader
	estimator ports.Estimator
	artifacts ports.ArtifactRepository
	opts      TrainingOptions
}

func NewTrainingService(dataset ports.DatasetReader, estimator ports.Estimator, artifacts ports.ArtifactRepository, opts TrainingOptions) *TrainingService {
	return &TrainingService{dataset: dataset, estimator: estimator, artifacts: artifacts, opts: opts}
}

// Run trains and persists a model. Nothing is written unless every earlier
// step succeeds.
func (s *TrainingService) Run(ctx context.Context) (*TrainingResult, error) {
	ds, err := s.dataset.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	split, err := StratifiedSplit(ds.Y, s.opts.TestSize, s.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	trainX, trainY := ds.Subset(split.Train)
	testX, testY := ds.Subset(split.Test)

	log.WithFields(log.Fields{
		"rows":       ds.Len(),
		"train_rows": len(trainY),
		"test_rows":  len(testY),
		"seed":       s.opts.Seed,
	}).Info("dataset split")

	model, err := s.estimator.Fit(trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	predicted := make([]int, len(testX))
	for i, x := range testX {
		label, err := model.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("evaluate model: %w", err)
		}
		predicted[i] = label
	}
	report, err := NewClassificationReport(testY, predicted)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := make([]string, len(ds.Features))
	copy(features, ds.Features)
	if err := s.artifacts.Save(ctx, &ports.Artifact{Model: model, Features: features}); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	return &TrainingResult{
		Report:    report,
		Split:     split,
		TrainRows: len(trainY),
		TestRows:  len(testY),
	}, nil
}
