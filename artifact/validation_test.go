package artifact

import (
	"math"
	"strings"
	"testing"
)

func leaf(v int) *int {
	return &v
}

func TestValidatePreprocessorSpec(t *testing.T) {
	testCases := []struct {
		name    string
		spec    PreprocessorSpec
		wantErr string
	}{
		{
			name:    "Wrong kind",
			spec:    PreprocessorSpec{Kind: "pipeline", Columns: []ColumnSpec{{Name: "Age", Transform: TransformPassthrough}}},
			wantErr: "unsupported preprocessor kind",
		},
		{
			name:    "No columns",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer},
			wantErr: "at least one column",
		},
		{
			name:    "Unknown column",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Surname", Transform: TransformOneHot, Categories: []string{"Smith"}}}},
			wantErr: "unknown column",
		},
		{
			name: "Duplicate column",
			spec: PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{
				{Name: "Age", Transform: TransformPassthrough},
				{Name: "Age", Transform: TransformPassthrough},
			}},
			wantErr: "more than once",
		},
		{
			name:    "One hot without categories",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Geography", Transform: TransformOneHot}}},
			wantErr: "at least one category",
		},
		{
			name:    "Duplicate category",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Gender", Transform: TransformOneHot, Categories: []string{"Male", "Male"}}}},
			wantErr: "duplicate category",
		},
		{
			name:    "Scaling a categorical",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Geography", Transform: TransformStandardScale, Scale: 1}}},
			wantErr: "is categorical",
		},
		{
			name:    "Categories on numeric",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Age", Transform: TransformPassthrough, Categories: []string{"old"}}}},
			wantErr: "only valid for one_hot",
		},
		{
			name:    "NaN mean",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Age", Transform: TransformStandardScale, Mean: math.NaN(), Scale: 1}}},
			wantErr: "must be finite",
		},
		{
			name:    "Unknown transform",
			spec:    PreprocessorSpec{Kind: KindColumnTransformer, Columns: []ColumnSpec{{Name: "Age", Transform: "log"}}},
			wantErr: "invalid transform",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePreprocessorSpec(tc.spec)
			if err == nil {
				t.Fatalf("ValidatePreprocessorSpec() should fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateLogisticSpec(t *testing.T) {
	half := 0.5
	one := 1.0

	testCases := []struct {
		name    string
		spec    LogisticSpec
		wantErr string
	}{
		{"Valid", LogisticSpec{Weights: []float64{1, 2}, Threshold: &half}, ""},
		{"No weights", LogisticSpec{}, "at least one weight"},
		{"Infinite weight", LogisticSpec{Weights: []float64{math.Inf(1)}}, "weight 0 is not finite"},
		{"NaN intercept", LogisticSpec{Weights: []float64{1}, Intercept: math.NaN()}, "intercept"},
		{"Threshold at bound", LogisticSpec{Weights: []float64{1}, Threshold: &one}, "strictly between"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLogisticSpec(tc.spec)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateLogisticSpec() failed: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateTreeEnsembleSpec(t *testing.T) {
	valid := Tree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Leaf: leaf(0)},
		{Leaf: leaf(1)},
	}}

	testCases := []struct {
		name    string
		spec    TreeEnsembleSpec
		wantErr string
	}{
		{"Valid", TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{valid}}, ""},
		{"No features", TreeEnsembleSpec{Trees: []Tree{valid}}, "n_features must be positive"},
		{"No trees", TreeEnsembleSpec{NFeatures: 1}, "at least one tree"},
		{"Empty tree", TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{{}}}, "has no nodes"},
		{
			"Bad leaf",
			TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{{Nodes: []TreeNode{{Leaf: leaf(2)}}}}},
			"must be 0 or 1",
		},
		{
			"Feature out of range",
			TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{{Nodes: []TreeNode{
				{Feature: 3, Left: 1, Right: 2}, {Leaf: leaf(0)}, {Leaf: leaf(1)},
			}}}},
			"feature 3 outside",
		},
		{
			"Backward child",
			TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{{Nodes: []TreeNode{
				{Feature: 0, Left: 1, Right: 2}, {Feature: 0, Left: 0, Right: 2}, {Leaf: leaf(1)},
			}}}},
			"child index 0",
		},
		{
			"Child past end",
			TreeEnsembleSpec{NFeatures: 1, Trees: []Tree{{Nodes: []TreeNode{
				{Feature: 0, Left: 1, Right: 5}, {Leaf: leaf(0)},
			}}}},
			"child index 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTreeEnsembleSpec(tc.spec)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateTreeEnsembleSpec() failed: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateCELSpec(t *testing.T) {
	if err := ValidateCELSpec(CELSpec{Expression: "  "}); err == nil {
		t.Error("blank expression should be rejected")
	}
	if err := ValidateCELSpec(CELSpec{Expression: "true", NFeatures: -1}); err == nil {
		t.Error("negative n_features should be rejected")
	}
	if err := ValidateCELSpec(CELSpec{Expression: "true"}); err != nil {
		t.Errorf("ValidateCELSpec() failed: %v", err)
	}
}
