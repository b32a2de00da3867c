package linear

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"diabetes-prediction-service/internal/core/domain"
)

const gradientTolerance = 1e-4

// LogisticRegression is a fitted L2-regularised binary logistic model.
type LogisticRegression struct {
	Coef      []float64
	Intercept float64
}

// FitLogisticRegression minimises the mean log-loss plus ||w||²/(2·C·n) with
// L-BFGS, stopping after maxIter iterations. The intercept is not penalised.
func FitLogisticRegression(x [][]float64, y []int, maxIter int, c float64) (*LogisticRegression, error) {
	if len(x) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", domain.ErrDimensionMismatch, len(x), len(y))
	}
	if maxIter <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", maxIter)
	}
	if c <= 0 {
		return nil, fmt.Errorf("inverse regularisation strength must be positive, got %v", c)
	}
	for i, label := range y {
		if label != domain.ClassNonDiabetic && label != domain.ClassDiabetic {
			return nil, fmt.Errorf("%w: label %d at row %d", domain.ErrInvalidValue, label, i)
		}
	}

	width := len(x[0])
	n := float64(len(x))
	penalty := 1 / (c * n)

	// params[:width] are the coefficients, params[width] the intercept.
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := params[:width], params[width]
			loss := 0.0
			for i, row := range x {
				z := floats.Dot(w, row) + b
				if y[i] == domain.ClassDiabetic {
					loss += softplus(-z)
				} else {
					loss += softplus(z)
				}
			}
			return loss/n + 0.5*penalty*floats.Dot(w, w)
		},
		Grad: func(grad, params []float64) {
			w, b := params[:width], params[width]
			for j := range grad {
				grad[j] = 0
			}
			gw := grad[:width]
			for i, row := range x {
				residual := sigmoid(floats.Dot(w, row)+b) - float64(y[i])
				floats.AddScaled(gw, residual/n, row)
				grad[width] += residual / n
			}
			floats.AddScaled(gw, penalty, w)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: gradientTolerance,
		MajorIterations:   maxIter,
	}
	result, err := optimize.Minimize(problem, make([]float64, width+1), settings, &optimize.LBFGS{})
	if err != nil {
		if result == nil || len(result.X) != width+1 {
			return nil, fmt.Errorf("optimize: %w", err)
		}
		log.WithError(err).Warn("optimizer stopped early, keeping best solution")
	}
	if result.Status == optimize.IterationLimit {
		log.WithField("max_iter", maxIter).Warn("optimizer reached the iteration limit before converging")
	}

	model := &LogisticRegression{
		Coef:      make([]float64, width),
		Intercept: result.X[width],
	}
	copy(model.Coef, result.X[:width])
	if !finite(model.Coef) || math.IsNaN(model.Intercept) || math.IsInf(model.Intercept, 0) {
		return nil, errors.New("optimize: solution is not finite")
	}
	return model, nil
}

// DecisionFunction returns the signed distance w·x + b.
func (m *LogisticRegression) DecisionFunction(x []float64) (float64, error) {
	if len(m.Coef) == 0 {
		return 0, domain.ErrModelNotFitted
	}
	if len(x) != len(m.Coef) {
		return 0, fmt.Errorf("%w: got %d values, want %d", domain.ErrDimensionMismatch, len(x), len(m.Coef))
	}
	return floats.Dot(m.Coef, x) + m.Intercept, nil
}

// Predict returns 1 when the decision function is strictly positive.
func (m *LogisticRegression) Predict(x []float64) (int, error) {
	z, err := m.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	if z > 0 {
		return domain.ClassDiabetic, nil
	}
	return domain.ClassNonDiabetic, nil
}

// PredictProbability returns P(class=1).
func (m *LogisticRegression) PredictProbability(x []float64) (float64, error) {
	z, err := m.DecisionFunction(x)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + e^t) without overflow.
func softplus(t float64) float64 {
	if t > 0 {
		return t + math.Log1p(math.Exp(-t))
	}
	return math.Log1p(math.Exp(t))
}

func finite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
