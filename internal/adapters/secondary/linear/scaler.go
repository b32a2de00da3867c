package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"diabetes-prediction-service/internal/core/domain"
)

// StandardScaler centres each column on its mean and divides by its
// population standard deviation.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitStandardScaler learns per-column statistics from x. Constant columns get
// a scale of 1 so they transform to zero instead of NaN.
func FitStandardScaler(x [][]float64) (*StandardScaler, error) {
	if len(x) == 0 {
		return nil, domain.ErrEmptyDataset
	}
	width := len(x[0])
	s := &StandardScaler{
		Mean:  make([]float64, width),
		Scale: make([]float64, width),
	}

	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			if len(row) != width {
				return nil, fmt.Errorf("%w: row %d has %d values, want %d", domain.ErrDimensionMismatch, i, len(row), width)
			}
			col[i] = row[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return s, nil
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("%w: got %d values, want %d", domain.ErrDimensionMismatch, len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

func (s *StandardScaler) Width() int {
	return len(s.Mean)
}
