package artifact

import (
	"fmt"
	"math"
	"strings"

	"github.com/liamcoop/churnform/churn"
)

// maxTreeNodes bounds a single tree so a corrupt artifact cannot exhaust memory
const maxTreeNodes = 1 << 16

// ValidatePreprocessorSpec checks a decoded preprocessor artifact
// Returns an error describing the first problem found, nil if the spec is usable
func ValidatePreprocessorSpec(spec PreprocessorSpec) error {
	if spec.Kind != KindColumnTransformer {
		return fmt.Errorf("unsupported preprocessor kind %q (must be %s)", spec.Kind, KindColumnTransformer)
	}

	if len(spec.Columns) == 0 {
		return fmt.Errorf("preprocessor must declare at least one column")
	}

	seen := make(map[string]bool, len(spec.Columns))
	for i, c := range spec.Columns {
		if !churn.IsColumn(c.Name) {
			return fmt.Errorf("column %d: unknown column %q (must be one of: %s)", i, c.Name, strings.Join(churn.Columns, ", "))
		}
		if seen[c.Name] {
			return fmt.Errorf("column %q is declared more than once", c.Name)
		}
		seen[c.Name] = true

		switch c.Transform {
		case TransformOneHot:
			if len(c.Categories) == 0 {
				return fmt.Errorf("column %q: one_hot requires at least one category", c.Name)
			}
			cats := make(map[string]bool, len(c.Categories))
			for _, cat := range c.Categories {
				if cats[cat] {
					return fmt.Errorf("column %q: duplicate category %q", c.Name, cat)
				}
				cats[cat] = true
			}

		case TransformStandardScale, TransformPassthrough:
			if churn.IsCategorical(c.Name) {
				return fmt.Errorf("column %q is categorical and cannot use %s", c.Name, c.Transform)
			}
			if len(c.Categories) > 0 {
				return fmt.Errorf("column %q: categories are only valid for one_hot", c.Name)
			}
			if !isFinite(c.Mean) || !isFinite(c.Scale) {
				return fmt.Errorf("column %q: mean and scale must be finite", c.Name)
			}

		default:
			return fmt.Errorf("column %q has invalid transform %q (must be one of: %s, %s, %s)",
				c.Name, c.Transform, TransformStandardScale, TransformOneHot, TransformPassthrough)
		}
	}

	return nil
}

// ValidateLogisticSpec checks a decoded logistic classifier artifact
func ValidateLogisticSpec(spec LogisticSpec) error {
	if len(spec.Weights) == 0 {
		return fmt.Errorf("logistic model must declare at least one weight")
	}
	for i, w := range spec.Weights {
		if !isFinite(w) {
			return fmt.Errorf("weight %d is not finite", i)
		}
	}
	if !isFinite(spec.Intercept) {
		return fmt.Errorf("intercept is not finite")
	}
	if spec.Threshold != nil {
		th := *spec.Threshold
		if !(th > 0 && th < 1) {
			return fmt.Errorf("threshold %v must lie strictly between 0 and 1", th)
		}
	}
	return nil
}

// ValidateTreeEnsembleSpec checks a decoded tree ensemble artifact
// Every child index must point forward so evaluation always reaches a leaf
func ValidateTreeEnsembleSpec(spec TreeEnsembleSpec) error {
	if spec.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", spec.NFeatures)
	}
	if len(spec.Trees) == 0 {
		return fmt.Errorf("tree ensemble must contain at least one tree")
	}

	for ti, tree := range spec.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		if len(tree.Nodes) > maxTreeNodes {
			return fmt.Errorf("tree %d has %d nodes, maximum allowed is %d", ti, len(tree.Nodes), maxTreeNodes)
		}

		for ni, node := range tree.Nodes {
			if node.Leaf != nil {
				if !churn.Label(*node.Leaf).Valid() {
					return fmt.Errorf("tree %d node %d: leaf label %d must be 0 or 1", ti, ni, *node.Leaf)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= spec.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d outside [0, %d)", ti, ni, node.Feature, spec.NFeatures)
			}
			if !isFinite(node.Threshold) {
				return fmt.Errorf("tree %d node %d: threshold is not finite", ti, ni)
			}
			for _, child := range []int{node.Left, node.Right} {
				if child <= ni || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d: child index %d must lie in (%d, %d)", ti, ni, child, ni, len(tree.Nodes))
				}
			}
		}
	}

	return nil
}

// ValidateCELSpec checks the static parts of a cel classifier artifact; the
// expression itself is validated by compiling it
func ValidateCELSpec(spec CELSpec) error {
	if strings.TrimSpace(spec.Expression) == "" {
		return fmt.Errorf("cel model must declare an expression")
	}
	if spec.NFeatures < 0 {
		return fmt.Errorf("n_features cannot be negative, got %d", spec.NFeatures)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
