package model

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/raincast/internal/domain"
)

// DefaultFeatures is the feature order used when training without an explicit
// list. Same-day precipitation columns are left out because the label is
// derived from them.
var DefaultFeatures = []string{
	domain.ColTAvg,
	domain.ColTMin,
	domain.ColTMax,
	domain.ColWSpd,
	domain.ColPres,
	domain.FeatMonth,
	domain.FeatDayOfYear,
	domain.FeatSeason,
	domain.FeatTAvg3dMean,
	domain.FeatPresDiff,
	domain.FeatWDirSin,
	domain.FeatWDirCos,
}

// RainThreshold is the precipitation in mm above which a day counts as rainy.
const RainThreshold = 0.0

// TrainOptions controls gradient descent.
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
}

// DefaultTrainOptions returns settings that converge on a few decades of
// daily data.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Epochs: 500, LearningRate: 0.1, L2: 0.001}
}

// TrainingSet extracts the named features and rain labels from complete
// series rows. Rows with a missing or non-finite feature are skipped and
// counted.
func TrainingSet(rows []domain.SeriesRow, features []string) (x [][]float64, y []bool, skipped int) {
	for _, row := range rows {
		if !row.Complete {
			skipped++
			continue
		}
		vals, err := row.Features.Select(features)
		if err != nil {
			skipped++
			continue
		}
		x = append(x, vals)
		y = append(y, row.Record.Prcp > RainThreshold)
	}
	return x, y, skipped
}

// Train fits a scaler and a logistic regression on x with labels y using
// full-batch gradient descent on the L2-regularized log loss.
func Train(features []string, x [][]float64, y []bool, opts TrainOptions) (*Model, error) {
	if len(x) == 0 {
		return nil, errors.New("train: no samples")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("train: %d samples but %d labels", len(x), len(y))
	}
	if len(x[0]) != len(features) {
		return nil, fmt.Errorf("train: samples have %d values for %d features", len(x[0]), len(features))
	}

	scaler, err := FitScaler(x)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	scaled := make([][]float64, len(x))
	for i, row := range x {
		if scaled[i], err = scaler.Transform(row); err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
	}

	clf := &LogisticRegression{
		Kind:         KindLogisticRegression,
		Coefficients: make([]float64, len(features)),
		Threshold:    DefaultThreshold,
	}
	grad := make([]float64, len(features))
	n := float64(len(scaled))

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gradB := 0.0
		for i, row := range scaled {
			p, _ := clf.PredictProba(row)
			diff := p - boolToFloat(y[i])
			floats.AddScaled(grad, diff, row)
			gradB += diff
		}
		floats.Scale(1/n, grad)
		floats.AddScaled(grad, opts.L2, clf.Coefficients)

		floats.AddScaled(clf.Coefficients, -opts.LearningRate, grad)
		clf.Intercept -= opts.LearningRate * gradB / n
	}

	m := &Model{
		Features:   append([]string(nil), features...),
		Scaler:     scaler,
		Classifier: clf,
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	return m, nil
}

// Accuracy returns the share of samples the model labels correctly.
func Accuracy(m *Model, x [][]float64, y []bool) (float64, error) {
	if len(x) == 0 {
		return 0, errors.New("accuracy: no samples")
	}
	correct := 0
	for i, row := range x {
		scaled, err := m.Scaler.Transform(row)
		if err != nil {
			return 0, err
		}
		rain, _, err := m.Classifier.Predict(scaled)
		if err != nil {
			return 0, err
		}
		if rain == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x)), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
