package linear

import (
	"fmt"

	"diabetes-prediction-service/internal/core/domain"
	"diabetes-prediction-service/internal/core/ports/output"
)

// ModelType identifies the pipeline in serialized artifacts.
const ModelType = "standard_scaler+logistic_regression"

// Pipeline standardises a row and feeds it to a logistic regression.
type Pipeline struct {
	Scaler     *StandardScaler
	Classifier *LogisticRegression
}

var _ ports.Classifier = (*Pipeline)(nil)

func (p *Pipeline) Predict(x []float64) (int, error) {
	z, err := p.transform(x)
	if err != nil {
		return 0, err
	}
	return p.Classifier.Predict(z)
}

func (p *Pipeline) PredictProbability(x []float64) (float64, error) {
	z, err := p.transform(x)
	if err != nil {
		return 0, err
	}
	return p.Classifier.PredictProbability(z)
}

// Width is the number of input features the pipeline accepts.
func (p *Pipeline) Width() int {
	if p.Scaler == nil {
		return 0
	}
	return p.Scaler.Width()
}

// Validate checks that both stages are present and agree on width.
func (p *Pipeline) Validate() error {
	if p.Scaler == nil || p.Classifier == nil {
		return domain.ErrModelNotFitted
	}
	if len(p.Scaler.Scale) != len(p.Scaler.Mean) {
		return fmt.Errorf("%w: scaler has %d means and %d scales", domain.ErrDimensionMismatch, len(p.Scaler.Mean), len(p.Scaler.Scale))
	}
	if len(p.Classifier.Coef) != len(p.Scaler.Mean) {
		return fmt.Errorf("%w: scaler width %d, classifier width %d", domain.ErrDimensionMismatch, len(p.Scaler.Mean), len(p.Classifier.Coef))
	}
	for j, s := range p.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("%w: zero scale for column %d", domain.ErrMalformedArtifact, j)
		}
	}
	return nil
}

func (p *Pipeline) transform(x []float64) ([]float64, error) {
	if p.Scaler == nil || p.Classifier == nil {
		return nil, domain.ErrModelNotFitted
	}
	return p.Scaler.Transform(x)
}

// Estimator fits a Pipeline. It implements ports.Estimator.
type Estimator struct {
	MaxIter int
	C       float64
}

func NewEstimator(maxIter int, c float64) *Estimator {
	return &Estimator{MaxIter: maxIter, C: c}
}

// Fit learns scaling statistics on x, then fits the classifier on the
// scaled rows.
func (e *Estimator) Fit(x [][]float64, y []int) (ports.Classifier, error) {
	scaler, err := FitStandardScaler(x)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	scaled := make([][]float64, len(x))
	for i, row := range x {
		if scaled[i], err = scaler.Transform(row); err != nil {
			return nil, err
		}
	}
	clf, err := FitLogisticRegression(scaled, y, e.MaxIter, e.C)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	return &Pipeline{Scaler: scaler, Classifier: clf}, nil
}
