// Package artifact loads the fitted preprocessor and classifier the form runs
// inference with. Both are read once at startup and are immutable afterwards,
// so every value returned here is safe for concurrent use.
package artifact

import (
	"errors"
	"fmt"

	"github.com/liamcoop/churnform/churn"
)

// Preprocessor turns a single record row into the feature vector a classifier consumes
type Preprocessor interface {
	Transform(row churn.Row) ([]float64, error)
}

// Classifier maps a feature vector to a churn label
type Classifier interface {
	Predict(features []float64) (churn.Label, error)
}

// Model is a Classifier loaded from an artifact file
type Model interface {
	Classifier

	// Kind is the artifact kind the model was decoded from
	Kind() string

	// InputWidth is the declared feature vector length, 0 when the artifact does not declare one
	InputWidth() int
}

// Artifact kinds
const (
	KindColumnTransformer = "column_transformer"
	KindLogistic          = "logistic"
	KindTreeEnsemble      = "tree_ensemble"
	KindCEL               = "cel"
)

var (
	ErrUnseenCategory = errors.New("unseen category")
	ErrMissingColumn  = errors.New("missing column")
	ErrNotNumeric     = errors.New("value is not numeric")
	ErrShapeMismatch  = errors.New("feature shape mismatch")
	ErrIncompatible   = errors.New("incompatible artifacts")
	ErrCompile        = errors.New("compile error")
)

// checkWidth reports a shape mismatch when a declared width disagrees with the vector length
func checkWidth(want int, features []float64) error {
	if want > 0 && len(features) != want {
		return fmt.Errorf("%w: expected %d features, got %d", ErrShapeMismatch, want, len(features))
	}
	return nil
}
