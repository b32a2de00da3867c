package ports

// Classifier is a fitted binary model. Both methods take a single row laid
// out in the artifact's feature order.
type Classifier interface {
	Predict(x []float64) (int, error)
	PredictProbability(x []float64) (float64, error)
}

// Estimator fits a Classifier on labelled rows.
type Estimator interface {
	Fit(x [][]float64, y []int) (Classifier, error)
}
