package artifact

import (
	"errors"
	"strings"
	"testing"

	"github.com/liamcoop/churnform/churn"
)

// churnyRecord is a customer every test model should flag
func churnyRecord() churn.CustomerRecord {
	rec := churn.DefaultRecord()
	rec.Geography = churn.Germany
	rec.Gender = churn.Female
	rec.Age = 60
	rec.Balance = 120000
	rec.IsActiveMember = 0
	return rec
}

func featuresFor(t *testing.T, rec churn.CustomerRecord) []float64 {
	t.Helper()
	features, err := newTestTransformer(t).Transform(rec.Row())
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	return features
}

func TestModelsAgreeOnReferenceCustomers(t *testing.T) {
	paths := []string{
		"testdata/logistic.yaml",
		"testdata/forest.yaml",
		"testdata/cel.yaml",
	}

	stay := featuresFor(t, churn.DefaultRecord())
	leave := featuresFor(t, churnyRecord())

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			model, err := LoadClassifier(path)
			if err != nil {
				t.Fatalf("LoadClassifier() failed: %v", err)
			}

			got, err := model.Predict(stay)
			if err != nil {
				t.Fatalf("Predict(defaults) failed: %v", err)
			}
			if got != churn.LabelStay {
				t.Errorf("Predict(defaults) = %v, want stay", got)
			}

			got, err = model.Predict(leave)
			if err != nil {
				t.Fatalf("Predict(churny) failed: %v", err)
			}
			if got != churn.LabelChurn {
				t.Errorf("Predict(churny) = %v, want churn", got)
			}
		})
	}
}

func TestLogisticModel(t *testing.T) {
	model, err := NewLogisticModel(LogisticSpec{Kind: KindLogistic, Weights: []float64{2, -1}, Intercept: 0})
	if err != nil {
		t.Fatalf("NewLogisticModel() failed: %v", err)
	}

	if model.Kind() != KindLogistic || model.InputWidth() != 2 {
		t.Errorf("Kind() = %s, InputWidth() = %d", model.Kind(), model.InputWidth())
	}

	p, err := model.Probability([]float64{0, 0})
	if err != nil {
		t.Fatalf("Probability() failed: %v", err)
	}
	if !approx(p, 0.5) {
		t.Errorf("Probability(0, 0) = %v, want 0.5", p)
	}

	testCases := []struct {
		name     string
		features []float64
		want     churn.Label
	}{
		{"At threshold", []float64{0, 0}, churn.LabelChurn},
		{"Positive", []float64{1, 0}, churn.LabelChurn},
		{"Negative", []float64{0, 3}, churn.LabelStay},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := model.Predict(tc.features)
			if err != nil {
				t.Fatalf("Predict() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Predict(%v) = %v, want %v", tc.features, got, tc.want)
			}
		})
	}
}

// TestShapeMismatch verifies every kind rejects a vector of the wrong length
func TestShapeMismatch(t *testing.T) {
	for _, path := range []string{"testdata/logistic.yaml", "testdata/forest.yaml", "testdata/cel.yaml"} {
		t.Run(path, func(t *testing.T) {
			model, err := LoadClassifier(path)
			if err != nil {
				t.Fatalf("LoadClassifier() failed: %v", err)
			}
			_, err = model.Predict([]float64{1, 2, 3})
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("Predict() error = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestTreeEnsembleTieIsStay(t *testing.T) {
	model, err := NewTreeEnsemble(TreeEnsembleSpec{
		Kind:      KindTreeEnsemble,
		NFeatures: 1,
		Trees: []Tree{
			{Nodes: []TreeNode{{Leaf: leaf(1)}}},
			{Nodes: []TreeNode{{Leaf: leaf(0)}}},
		},
	})
	if err != nil {
		t.Fatalf("NewTreeEnsemble() failed: %v", err)
	}

	got, err := model.Predict([]float64{0})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	if got != churn.LabelStay {
		t.Errorf("Predict() = %v, want stay on a tied vote", got)
	}
	if model.Trees() != 2 {
		t.Errorf("Trees() = %d, want 2", model.Trees())
	}
}

func TestTreeEnsembleSplitBoundary(t *testing.T) {
	model, err := NewTreeEnsemble(TreeEnsembleSpec{
		Kind:      KindTreeEnsemble,
		NFeatures: 1,
		Trees: []Tree{{Nodes: []TreeNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Leaf: leaf(0)},
			{Leaf: leaf(1)},
		}}},
	})
	if err != nil {
		t.Fatalf("NewTreeEnsemble() failed: %v", err)
	}

	// x <= threshold goes left
	if got, _ := model.Predict([]float64{0.5}); got != churn.LabelStay {
		t.Errorf("Predict(0.5) = %v, want stay", got)
	}
	if got, _ := model.Predict([]float64{0.51}); got != churn.LabelChurn {
		t.Errorf("Predict(0.51) = %v, want churn", got)
	}
}

func TestCELModelCompile(t *testing.T) {
	testCases := []struct {
		name       string
		expression string
		wantErr    string
	}{
		{"Bool result", `x[0] > 0.5`, ""},
		{"Int result", `x[0] > 0.5 ? 1 : 0`, ""},
		{"Aggregate", `x.exists(v, v > 10.0)`, ""},
		{"Syntax error", `x[0] >`, "compile error"},
		{"Unknown variable", `y[0] > 1.0`, "compile error"},
		{"Double result", `x[0] * 2.0`, "must evaluate to bool or int"},
		{"String result", `"churn"`, "must evaluate to bool or int"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCELModel(CELSpec{Kind: KindCEL, Expression: tc.expression})
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("NewCELModel(%q) failed: %v", tc.expression, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("NewCELModel(%q) error = %v, want containing %q", tc.expression, err, tc.wantErr)
			}
			if !errors.Is(err, ErrCompile) {
				t.Errorf("NewCELModel(%q) error = %v, want ErrCompile", tc.expression, err)
			}
		})
	}
}

func TestCELModelPredict(t *testing.T) {
	model, err := NewCELModel(CELSpec{Kind: KindCEL, Expression: `x[0] > 0.5 ? 1 : 0`})
	if err != nil {
		t.Fatalf("NewCELModel() failed: %v", err)
	}
	if model.InputWidth() != 0 {
		t.Errorf("InputWidth() = %d, want 0 when undeclared", model.InputWidth())
	}

	if got, err := model.Predict([]float64{0.9}); err != nil || got != churn.LabelChurn {
		t.Errorf("Predict(0.9) = %v, %v; want churn", got, err)
	}
	if got, err := model.Predict([]float64{0.1}); err != nil || got != churn.LabelStay {
		t.Errorf("Predict(0.1) = %v, %v; want stay", got, err)
	}
}

// TestCELModelInvalidLabel verifies an int outside {0, 1} is an error, never a third outcome
func TestCELModelInvalidLabel(t *testing.T) {
	model, err := NewCELModel(CELSpec{Kind: KindCEL, Expression: `2`})
	if err != nil {
		t.Fatalf("NewCELModel() failed: %v", err)
	}

	_, err = model.Predict([]float64{0})
	if !errors.Is(err, churn.ErrInvalidLabel) {
		t.Errorf("Predict() error = %v, want ErrInvalidLabel", err)
	}
}

func TestCELModelEvaluationError(t *testing.T) {
	model, err := NewCELModel(CELSpec{Kind: KindCEL, Expression: `x[20] > 0.0`})
	if err != nil {
		t.Fatalf("NewCELModel() failed: %v", err)
	}

	_, err = model.Predict([]float64{1})
	if err == nil || !strings.Contains(err.Error(), "evaluation error") {
		t.Errorf("Predict() error = %v, want evaluation error", err)
	}
}
