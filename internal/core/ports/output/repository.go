package ports

import (
	"context"

	"diabetes-prediction-service/internal/core/domain"
)

// Artifact bundles a fitted model with the feature order it was trained on.
type Artifact struct {
	Model    Classifier
	Features []string
}

type ArtifactRepository interface {
	Load(ctx context.Context) (*Artifact, error)
	Save(ctx context.Context, artifact *Artifact) error
}

type DatasetReader interface {
	Read(ctx context.Context) (*domain.Dataset, error)
}
