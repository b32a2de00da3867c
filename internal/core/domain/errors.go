package domain

import "errors"

// ============================================================================
// Prediction Errors
// ============================================================================

var (
	ErrUnknownFeature      = errors.New("unknown feature")
	ErrDimensionMismatch   = errors.New("feature vector length does not match model")
	ErrModelNotFitted      = errors.New("model is not fitted")
	ErrInvalidPatientInput = errors.New("invalid patient input")
)

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound  = errors.New("model artifact not found")
	ErrMalformedArtifact = errors.New("malformed model artifact")
	ErrUnsupportedModel  = errors.New("unsupported model type")
)

// ============================================================================
// Training Errors
// ============================================================================

// Dataset errors
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrMissingColumn   = errors.New("dataset is missing a required column")
	ErrInvalidValue    = errors.New("dataset contains an invalid value")
	ErrEmptyDataset    = errors.New("dataset has no rows")
)

// Split errors
var (
	ErrInvalidTestSize = errors.New("test size must be between 0 and 1")
	ErrClassTooSmall   = errors.New("each class needs at least 2 samples for a stratified split")
	ErrEmptySubset     = errors.New("split would leave the train or test subset empty")
)
