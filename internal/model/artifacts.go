package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact file names inside a model directory.
const (
	ModelFile    = "rain_prediction_model.json"
	ScalerFile   = "scaler.json"
	FeaturesFile = "features.json"
)

// ErrArtifactsMissing is returned when a model directory lacks one of the
// artifact files.
var ErrArtifactsMissing = errors.New("model artifacts not found")

// Load reads and validates the artifacts in dir.
func Load(dir string) (*Model, error) {
	m := &Model{Scaler: &Scaler{}, Classifier: &LogisticRegression{}}

	if err := readJSON(dir, FeaturesFile, &m.Features); err != nil {
		return nil, err
	}
	if err := readJSON(dir, ScalerFile, m.Scaler); err != nil {
		return nil, err
	}
	if err := readJSON(dir, ModelFile, m.Classifier); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model in %s: %w", dir, err)
	}
	return m, nil
}

// Save writes the model's artifacts into dir, creating it if needed.
func Save(dir string, m *Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid model: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	clf := *m.Classifier
	clf.Kind = KindLogisticRegression

	files := []struct {
		name string
		v    any
	}{
		{FeaturesFile, m.Features},
		{ScalerFile, m.Scaler},
		{ModelFile, clf},
	}
	for _, f := range files {
		data, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: expected %s, %s and %s in %s",
			ErrArtifactsMissing, ModelFile, ScalerFile, FeaturesFile, dir)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
