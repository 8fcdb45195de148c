// Package form turns submitted widget state into a churn verdict.
package form

import (
	"fmt"

	"github.com/liamcoop/churnform/artifact"
	"github.com/liamcoop/churnform/churn"
)

// Inference stages, reported in InferenceError
const (
	StageTransform = "transform"
	StagePredict   = "predict"
	StageVerdict   = "verdict"
)

// InferenceError wraps a failure raised by an artifact during one prediction
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Predictor runs one record through the preprocessor and classifier.
// Both handles are read-only, so a Predictor is safe for concurrent use.
type Predictor struct {
	preprocessor artifact.Preprocessor
	classifier   artifact.Classifier
}

// NewPredictor creates a predictor over the given artifacts
func NewPredictor(pre artifact.Preprocessor, clf artifact.Classifier) *Predictor {
	return &Predictor{
		preprocessor: pre,
		classifier:   clf,
	}
}

// SubmitPrediction wraps rec as a single row, transforms it, classifies the
// features and maps the label to its display verdict. Artifact errors are
// returned as *InferenceError without any recovery.
func (p *Predictor) SubmitPrediction(rec churn.CustomerRecord) (churn.Verdict, error) {
	features, err := p.preprocessor.Transform(rec.Row())
	if err != nil {
		return churn.Verdict{}, &InferenceError{Stage: StageTransform, Err: err}
	}

	label, err := p.classifier.Predict(features)
	if err != nil {
		return churn.Verdict{}, &InferenceError{Stage: StagePredict, Err: err}
	}

	verdict, err := churn.VerdictFor(label)
	if err != nil {
		return churn.Verdict{}, &InferenceError{Stage: StageVerdict, Err: err}
	}

	return verdict, nil
}
