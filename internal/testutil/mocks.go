package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"diabetes-prediction-service/internal/core/domain"
	"diabetes-prediction-service/internal/core/ports/output"
)

// MockClassifier is a mock of Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Predict(x []float64) (int, error) {
	args := m.Called(x)
	return args.Int(0), args.Error(1)
}

func (m *MockClassifier) PredictProbability(x []float64) (float64, error) {
	args := m.Called(x)
	return args.Get(0).(float64), args.Error(1)
}

// MockEstimator is a mock of Estimator.
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Fit(x [][]float64, y []int) (ports.Classifier, error) {
	args := m.Called(x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Classifier), args.Error(1)
}

// MockDatasetReader is a mock of DatasetReader.
type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) Read(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Load(ctx context.Context) (*ports.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) Save(ctx context.Context, artifact *ports.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}
