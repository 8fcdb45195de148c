package artifact

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/liamcoop/churnform/churn"
)

// celCostLimit prevents a hostile or runaway expression from stalling a request
const celCostLimit = 1000000

// FeatureVariable is the CEL variable the feature vector is bound to
const FeatureVariable = "x"

// CELSpec is the decoded form of a cel classifier artifact
type CELSpec struct {
	Kind       string `yaml:"kind"`
	Expression string `yaml:"expression"`
	NFeatures  int    `yaml:"n_features,omitempty"`
}

// CELModel is a classifier whose decision function is a compiled CEL expression over x
type CELModel struct {
	expression string
	nFeatures  int
	program    cel.Program
}

// NewCELEnv creates the CEL environment classifier expressions are checked against
func NewCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(FeatureVariable, cel.ListType(cel.DoubleType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// NewCELModel compiles spec.Expression; the expression must type-check to bool or int
func NewCELModel(spec CELSpec) (*CELModel, error) {
	if err := ValidateCELSpec(spec); err != nil {
		return nil, err
	}

	env, err := NewCELEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(spec.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.IntType) {
		return nil, fmt.Errorf("%w: expression must evaluate to bool or int, got %s", ErrCompile, out)
	}

	prog, err := env.Program(ast, cel.CostLimit(celCostLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: program creation: %w", ErrCompile, err)
	}

	return &CELModel{
		expression: spec.Expression,
		nFeatures:  spec.NFeatures,
		program:    prog,
	}, nil
}

func (m *CELModel) Kind() string {
	return KindCEL
}

func (m *CELModel) InputWidth() int {
	return m.nFeatures
}

// Expression returns the source of the decision function
func (m *CELModel) Expression() string {
	return m.expression
}

// Predict evaluates the expression with x bound to features
func (m *CELModel) Predict(features []float64) (churn.Label, error) {
	if err := checkWidth(m.nFeatures, features); err != nil {
		return churn.LabelStay, err
	}

	out, _, err := m.program.Eval(map[string]any{
		FeatureVariable: features,
	})
	if err != nil {
		return churn.LabelStay, fmt.Errorf("evaluation error: %w", err)
	}

	switch v := out.Value().(type) {
	case bool:
		if v {
			return churn.LabelChurn, nil
		}
		return churn.LabelStay, nil
	case int64:
		label := churn.Label(v)
		if !label.Valid() {
			return churn.LabelStay, fmt.Errorf("%w: expression returned %d", churn.ErrInvalidLabel, v)
		}
		return label, nil
	default:
		return churn.LabelStay, fmt.Errorf("%w: expression returned %T", churn.ErrInvalidLabel, v)
	}
}
