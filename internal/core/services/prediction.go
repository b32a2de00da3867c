package services

import (
	"context"
	"fmt"
	"math"

	"diabetes-prediction-service/internal/core/domain"
	"diabetes-prediction-service/internal/core/ports/output"
)

// PredictionService scores patient records against the artifact loaded at
// startup. It holds no mutable state and is safe for concurrent use.
type PredictionService struct {
	model    ports.Classifier
	features []string
}

func NewPredictionService(artifact *ports.Artifact) *PredictionService {
	features := make([]string, len(artifact.Features))
	copy(features, artifact.Features)
	return &PredictionService{model: artifact.Model, features: features}
}

// Features returns the feature order the model expects.
func (s *PredictionService) Features() []string {
	out := make([]string, len(s.features))
	copy(out, s.features)
	return out
}

func (s *PredictionService) Predict(ctx context.Context, record domain.PatientRecord) (*domain.Prediction, error) {
	x, err := record.Vector(s.features)
	if err != nil {
		return nil, err
	}
	for i, v := range x {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidPatientInput, s.features[i])
		}
	}

	prob, err := s.model.PredictProbability(x)
	if err != nil {
		return nil, fmt.Errorf("predict probability: %w", err)
	}
	class, err := s.model.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict class: %w", err)
	}

	return &domain.Prediction{Probability: prob, Class: class}, nil
}
