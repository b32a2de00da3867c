package domain

import "fmt"

// Feature column names, in the order the trainer persists them.
const (
	FeaturePregnancies              = "Pregnancies"
	FeatureGlucose                  = "Glucose"
	FeatureBloodPressure            = "BloodPressure"
	FeatureSkinThickness            = "SkinThickness"
	FeatureInsulin                  = "Insulin"
	FeatureBMI                      = "BMI"
	FeatureDiabetesPedigreeFunction = "DiabetesPedigreeFunction"
	FeatureAge                      = "Age"
)

// OutcomeColumn is the binary target column of the training dataset.
const OutcomeColumn = "Outcome"

// FeatureNames returns the canonical feature order. The slice is a fresh copy.
func FeatureNames() []string {
	return []string{
		FeaturePregnancies,
		FeatureGlucose,
		FeatureBloodPressure,
		FeatureSkinThickness,
		FeatureInsulin,
		FeatureBMI,
		FeatureDiabetesPedigreeFunction,
		FeatureAge,
	}
}

// PatientRecord is a single validated prediction input.
type PatientRecord struct {
	Pregnancies              float64
	Glucose                  float64
	BloodPressure            float64
	SkinThickness            float64
	Insulin                  float64
	BMI                      float64
	DiabetesPedigreeFunction float64
	Age                      float64
}

// Value returns the field identified by its feature name.
func (r PatientRecord) Value(name string) (float64, error) {
	switch name {
	case FeaturePregnancies:
		return r.Pregnancies, nil
	case FeatureGlucose:
		return r.Glucose, nil
	case FeatureBloodPressure:
		return r.BloodPressure, nil
	case FeatureSkinThickness:
		return r.SkinThickness, nil
	case FeatureInsulin:
		return r.Insulin, nil
	case FeatureBMI:
		return r.BMI, nil
	case FeatureDiabetesPedigreeFunction:
		return r.DiabetesPedigreeFunction, nil
	case FeatureAge:
		return r.Age, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
}

// Vector lays the record out in the given feature order.
func (r PatientRecord) Vector(features []string) ([]float64, error) {
	x := make([]float64, len(features))
	for i, name := range features {
		v, err := r.Value(name)
		if err != nil {
			return nil, err
		}
		x[i] = v
	}
	return x, nil
}

// IsKnownFeature reports whether name maps to a PatientRecord field.
func IsKnownFeature(name string) bool {
	_, err := PatientRecord{}.Value(name)
	return err == nil
}
