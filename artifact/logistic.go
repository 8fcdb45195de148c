package artifact

import (
	"math"

	"github.com/liamcoop/churnform/churn"
)

const defaultThreshold = 0.5

// LogisticSpec is the decoded form of a logistic regression artifact
type LogisticSpec struct {
	Kind      string    `yaml:"kind"`
	Weights   []float64 `yaml:"weights"`
	Intercept float64   `yaml:"intercept"`
	Threshold *float64  `yaml:"threshold,omitempty"`
}

// LogisticModel is a fitted binary logistic regression
type LogisticModel struct {
	weights   []float64
	intercept float64
	threshold float64
}

// NewLogisticModel validates spec and builds a model from it
func NewLogisticModel(spec LogisticSpec) (*LogisticModel, error) {
	if err := ValidateLogisticSpec(spec); err != nil {
		return nil, err
	}

	weights := make([]float64, len(spec.Weights))
	copy(weights, spec.Weights)

	threshold := defaultThreshold
	if spec.Threshold != nil {
		threshold = *spec.Threshold
	}

	return &LogisticModel{
		weights:   weights,
		intercept: spec.Intercept,
		threshold: threshold,
	}, nil
}

func (m *LogisticModel) Kind() string {
	return KindLogistic
}

func (m *LogisticModel) InputWidth() int {
	return len(m.weights)
}

// Probability returns the modelled probability of churn
func (m *LogisticModel) Probability(features []float64) (float64, error) {
	if err := checkWidth(len(m.weights), features); err != nil {
		return 0, err
	}

	z := m.intercept
	for i, w := range m.weights {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns LabelChurn when the churn probability reaches the threshold
func (m *LogisticModel) Predict(features []float64) (churn.Label, error) {
	p, err := m.Probability(features)
	if err != nil {
		return churn.LabelStay, err
	}
	if p >= m.threshold {
		return churn.LabelChurn, nil
	}
	return churn.LabelStay, nil
}
