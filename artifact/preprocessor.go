package artifact

import (
	"fmt"

	"github.com/liamcoop/churnform/churn"
)

// Column transforms
const (
	TransformStandardScale = "standard_scale"
	TransformOneHot        = "one_hot"
	TransformPassthrough   = "passthrough"
)

// ColumnSpec is one entry of a column_transformer artifact
type ColumnSpec struct {
	Name       string   `yaml:"name"`
	Transform  string   `yaml:"transform"`
	Mean       float64  `yaml:"mean,omitempty"`
	Scale      float64  `yaml:"scale,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
}

// PreprocessorSpec is the decoded form of a preprocessor artifact file
type PreprocessorSpec struct {
	Kind    string       `yaml:"kind"`
	Columns []ColumnSpec `yaml:"columns"`
}

// ColumnTransformer applies a fitted per-column encoding and concatenates the results
type ColumnTransformer struct {
	columns []ColumnSpec
	width   int
}

// NewColumnTransformer validates spec and builds a transformer from it
func NewColumnTransformer(spec PreprocessorSpec) (*ColumnTransformer, error) {
	if err := ValidatePreprocessorSpec(spec); err != nil {
		return nil, err
	}

	columns := make([]ColumnSpec, len(spec.Columns))
	copy(columns, spec.Columns)

	width := 0
	for _, c := range columns {
		width += columnWidth(c)
	}

	return &ColumnTransformer{columns: columns, width: width}, nil
}

func columnWidth(c ColumnSpec) int {
	if c.Transform == TransformOneHot {
		return len(c.Categories)
	}
	return 1
}

// Kind returns the artifact kind
func (t *ColumnTransformer) Kind() string {
	return KindColumnTransformer
}

// OutputWidth is the length of every vector Transform returns
func (t *ColumnTransformer) OutputWidth() int {
	return t.width
}

// FeatureNames names each output feature, one-hot features as Column_Category
func (t *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, t.width)
	for _, c := range t.columns {
		if c.Transform == TransformOneHot {
			for _, cat := range c.Categories {
				names = append(names, c.Name+"_"+cat)
			}
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// InputColumns lists the row columns the transformer reads, in artifact order
func (t *ColumnTransformer) InputColumns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Transform encodes row into a feature vector
func (t *ColumnTransformer) Transform(row churn.Row) ([]float64, error) {
	out := make([]float64, 0, t.width)

	for _, c := range t.columns {
		v, ok := row.Get(c.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c.Name)
		}

		switch c.Transform {
		case TransformOneHot:
			s, ok := v.(string)
			if !ok {
				s = fmt.Sprint(v)
			}
			idx := -1
			for i, cat := range c.Categories {
				if cat == s {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w %q in column %s", ErrUnseenCategory, s, c.Name)
			}
			for i := range c.Categories {
				if i == idx {
					out = append(out, 1)
				} else {
					out = append(out, 0)
				}
			}

		case TransformStandardScale:
			x, err := toFloat(c.Name, v)
			if err != nil {
				return nil, err
			}
			scale := c.Scale
			if scale == 0 {
				scale = 1
			}
			out = append(out, (x-c.Mean)/scale)

		case TransformPassthrough:
			x, err := toFloat(c.Name, v)
			if err != nil {
				return nil, err
			}
			out = append(out, x)
		}
	}

	return out, nil
}

func toFloat(column string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: column %s holds %T", ErrNotNumeric, column, v)
	}
}
