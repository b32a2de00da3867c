package artifactfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"diabetes-prediction-service/internal/adapters/secondary/linear"
	"diabetes-prediction-service/internal/core/domain"
	"diabetes-prediction-service/internal/core/ports/output"
)

// document is the on-disk layout of an artifact.
type document struct {
	Model    *modelDocument `json:"model"`
	Features []string       `json:"features"`
}

type modelDocument struct {
	Type       string              `json:"type"`
	Scaler     *scalerDocument     `json:"scaler"`
	Classifier *classifierDocument `json:"classifier"`
}

type scalerDocument struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type classifierDocument struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Store keeps a single artifact in a JSON file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the artifact. The feature list always holds each
// PatientRecord field once and the model width always matches it.
func (s *Store) Load(ctx context.Context) (*ports.Artifact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, s.path)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedArtifact, err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("%w: missing %q", domain.ErrMalformedArtifact, "model")
	}
	if doc.Features == nil {
		return nil, fmt.Errorf("%w: missing %q", domain.ErrMalformedArtifact, "features")
	}

	pipeline, err := doc.Model.toPipeline()
	if err != nil {
		return nil, err
	}
	if err := validateFeatures(doc.Features, pipeline.Width()); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"path":     s.path,
		"type":     doc.Model.Type,
		"features": len(doc.Features),
	}).Info("model artifact loaded")

	return &ports.Artifact{Model: pipeline, Features: doc.Features}, nil
}

// Save writes the artifact atomically: either the previous file or the
// complete new one is on disk, never a partial write.
func (s *Store) Save(ctx context.Context, artifact *ports.Artifact) error {
	pipeline, ok := artifact.Model.(*linear.Pipeline)
	if !ok {
		return fmt.Errorf("%w: %T", domain.ErrUnsupportedModel, artifact.Model)
	}
	if err := pipeline.Validate(); err != nil {
		return err
	}
	if err := validateFeatures(artifact.Features, pipeline.Width()); err != nil {
		return err
	}

	doc := document{
		Model: &modelDocument{
			Type: linear.ModelType,
			Scaler: &scalerDocument{
				Mean:  pipeline.Scaler.Mean,
				Scale: pipeline.Scaler.Scale,
			},
			Classifier: &classifierDocument{
				Coef:      pipeline.Classifier.Coef,
				Intercept: pipeline.Classifier.Intercept,
			},
		},
		Features: artifact.Features,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}

	log.WithField("path", s.path).Info("model artifact saved")
	return nil
}

func (m *modelDocument) toPipeline() (*linear.Pipeline, error) {
	if m.Type != "" && m.Type != linear.ModelType {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedModel, m.Type)
	}
	if m.Scaler == nil || m.Classifier == nil {
		return nil, fmt.Errorf("%w: model needs both scaler and classifier", domain.ErrMalformedArtifact)
	}
	p := &linear.Pipeline{
		Scaler: &linear.StandardScaler{
			Mean:  m.Scaler.Mean,
			Scale: m.Scaler.Scale,
		},
		Classifier: &linear.LogisticRegression{
			Coef:      m.Classifier.Coef,
			Intercept: m.Classifier.Intercept,
		},
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedArtifact, err)
	}
	return p, nil
}

// validateFeatures requires every PatientRecord field exactly once, in any
// order, and a model as wide as that list.
func validateFeatures(features []string, width int) error {
	seen := make(map[string]struct{}, len(features))
	for _, name := range features {
		if !domain.IsKnownFeature(name) {
			return fmt.Errorf("%w: %w %q", domain.ErrMalformedArtifact, domain.ErrUnknownFeature, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate feature %q", domain.ErrMalformedArtifact, name)
		}
		seen[name] = struct{}{}
	}

	var missing []string
	for _, name := range domain.FeatureNames() {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing features %s", domain.ErrMalformedArtifact, strings.Join(missing, ", "))
	}

	if len(features) != width {
		return fmt.Errorf("%w: %d features for a model of width %d", domain.ErrMalformedArtifact, len(features), width)
	}
	return nil
}
