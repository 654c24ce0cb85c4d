// Package model loads, applies and trains the rain classifier.
//
// A model is three JSON artifacts stored side by side: the ordered feature
// list, the standard scaler fitted on those features, and the logistic
// regression fitted on the scaled values. The three must agree in length and
// the feature order is authoritative: inputs are selected by name in exactly
// that order before scaling.
package model

import (
	"fmt"

	"github.com/couchcryptid/raincast/internal/domain"
)

// Model bundles a trained classifier with its scaler and feature order.
type Model struct {
	Features   []string
	Scaler     *Scaler
	Classifier *LogisticRegression
}

// Classify selects the model's features from v, scales them and applies the
// classifier.
func (m *Model) Classify(v domain.FeatureVector) (domain.Classification, error) {
	x, err := v.Select(m.Features)
	if err != nil {
		return domain.Classification{}, err
	}
	scaled, err := m.Scaler.Transform(x)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("scale features: %w", err)
	}
	rain, p, err := m.Classifier.Predict(scaled)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return domain.Classification{Rain: rain, Probability: p}, nil
}

// Validate checks that the artifacts describe the same feature set.
func (m *Model) Validate() error {
	if len(m.Features) == 0 {
		return fmt.Errorf("%w: empty feature list", domain.ErrFeatureMismatch)
	}
	seen := make(map[string]bool, len(m.Features))
	for _, f := range m.Features {
		if seen[f] {
			return fmt.Errorf("%w: duplicate feature %q", domain.ErrFeatureMismatch, f)
		}
		seen[f] = true
	}
	if m.Scaler == nil || m.Classifier == nil {
		return fmt.Errorf("model is missing its scaler or classifier")
	}
	if err := m.Scaler.validate(); err != nil {
		return err
	}
	if err := m.Classifier.validate(); err != nil {
		return err
	}
	if n := len(m.Scaler.Mean); n != len(m.Features) {
		return fmt.Errorf("%w: scaler has %d features, feature list has %d", domain.ErrFeatureMismatch, n, len(m.Features))
	}
	if n := len(m.Classifier.Coefficients); n != len(m.Features) {
		return fmt.Errorf("%w: classifier has %d coefficients, feature list has %d", domain.ErrFeatureMismatch, n, len(m.Features))
	}
	return nil
}
