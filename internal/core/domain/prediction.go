package domain

const (
	ClassNonDiabetic = 0
	ClassDiabetic    = 1
)

// Prediction is the model output for one PatientRecord. Probability and Class
// come from separate model calls and are not reconciled with each other.
type Prediction struct {
	Probability float64
	Class       int
}
