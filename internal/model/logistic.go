package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// KindLogisticRegression identifies the only classifier family serialized
// by this package.
const KindLogisticRegression = "logistic_regression"

// DefaultThreshold is the probability at or above which rain is predicted.
const DefaultThreshold = 0.5

// LogisticRegression is a binary linear classifier over scaled features.
type LogisticRegression struct {
	Kind         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

// PredictProba returns P(rain | x).
func (m *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("classifier expects %d features, got %d", len(m.Coefficients), len(x))
	}
	return sigmoid(floats.Dot(m.Coefficients, x) + m.Intercept), nil
}

// Predict returns the label and probability for x.
func (m *LogisticRegression) Predict(x []float64) (bool, float64, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return false, 0, err
	}
	return p >= m.threshold(), p, nil
}

func (m *LogisticRegression) threshold() float64 {
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return DefaultThreshold
	}
	return m.Threshold
}

func (m *LogisticRegression) validate() error {
	if m.Kind != "" && m.Kind != KindLogisticRegression {
		return fmt.Errorf("unsupported classifier type %q", m.Kind)
	}
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("classifier has no coefficients")
	}
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
