package dto

import (
	"diabetes-prediction-service/internal/core/domain"
)

// ============================================================================
// Request DTOs
// ============================================================================

// PredictRequest is the body of POST /predict. Field names are the dataset
// column names; pointers let "required" tell a missing field from a zero.
type PredictRequest struct {
	Pregnancies              *float64 `json:"Pregnancies" binding:"required,gte=0"`
	Glucose                  *float64 `json:"Glucose" binding:"required,gte=0"`
	BloodPressure            *float64 `json:"BloodPressure" binding:"required,gte=0"`
	SkinThickness            *float64 `json:"SkinThickness" binding:"required,gte=0"`
	Insulin                  *float64 `json:"Insulin" binding:"required,gte=0"`
	BMI                      *float64 `json:"BMI" binding:"required,gte=0"`
	DiabetesPedigreeFunction *float64 `json:"DiabetesPedigreeFunction" binding:"required,gte=0"`
	Age                      *float64 `json:"Age" binding:"required,gte=0"`
}

// Field returns the slot of the named JSON field, or nil for an unknown name.
func (r *PredictRequest) Field(name string) **float64 {
	switch name {
	case domain.FeaturePregnancies:
		return &r.Pregnancies
	case domain.FeatureGlucose:
		return &r.Glucose
	case domain.FeatureBloodPressure:
		return &r.BloodPressure
	case domain.FeatureSkinThickness:
		return &r.SkinThickness
	case domain.FeatureInsulin:
		return &r.Insulin
	case domain.FeatureBMI:
		return &r.BMI
	case domain.FeatureDiabetesPedigreeFunction:
		return &r.DiabetesPedigreeFunction
	case domain.FeatureAge:
		return &r.Age
	default:
		return nil
	}
}

// ToPatientRecord converts a bound request. Call only after validation.
func ToPatientRecord(req *PredictRequest) domain.PatientRecord {
	return domain.PatientRecord{
		Pregnancies:              deref(req.Pregnancies),
		Glucose:                  deref(req.Glucose),
		BloodPressure:            deref(req.BloodPressure),
		SkinThickness:            deref(req.SkinThickness),
		Insulin:                  deref(req.Insulin),
		BMI:                      deref(req.BMI),
		DiabetesPedigreeFunction: deref(req.DiabetesPedigreeFunction),
		Age:                      deref(req.Age),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ============================================================================
// Response DTOs
// ============================================================================

type PredictionResponse struct {
	DiabeticProbability float64 `json:"diabetic_probability"`
	PredictedClass      int     `json:"predicted_class"`
}

func ToPredictionResponse(p *domain.Prediction) PredictionResponse {
	return PredictionResponse{
		DiabeticProbability: p.Probability,
		PredictedClass:      p.Class,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Features int    `json:"features"`
}

// ValidationErrorResponse lists every rejected input location.
type ValidationErrorResponse struct {
	Detail []ValidationError `json:"detail"`
}

// ValidationError mirrors the {"loc", "msg", "type"} entries existing
// front-ends already parse.
type ValidationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}
