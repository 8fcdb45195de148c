package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load stages, reported in LoadError
const (
	StageRead     = "read"
	StageDecode   = "decode"
	StageValidate = "validate"
	StageCompile  = "compile"
	StageCompat   = "compatibility"
)

// LoadError describes why an artifact file could not be used
type LoadError struct {
	Path  string
	Stage string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("artifact %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Paths locates the two artifact files
type Paths struct {
	Preprocessor string
	Classifier   string
}

// Bundle is a loaded, mutually compatible preprocessor and classifier pair
type Bundle struct {
	Preprocessor *ColumnTransformer
	Classifier   Model
	Paths        Paths
}

// Load reads both artifacts and checks that they fit together.
// Any failure is fatal for the caller: there is no partial bundle.
func Load(paths Paths) (*Bundle, error) {
	pre, err := LoadPreprocessor(paths.Preprocessor)
	if err != nil {
		return nil, err
	}

	clf, err := LoadClassifier(paths.Classifier)
	if err != nil {
		return nil, err
	}

	if w := clf.InputWidth(); w > 0 && w != pre.OutputWidth() {
		return nil, &LoadError{
			Path:  paths.Classifier,
			Stage: StageCompat,
			Err: fmt.Errorf("%w: classifier expects %d features, preprocessor %s produces %d",
				ErrIncompatible, w, paths.Preprocessor, pre.OutputWidth()),
		}
	}

	return &Bundle{Preprocessor: pre, Classifier: clf, Paths: paths}, nil
}

// LoadPreprocessor reads and validates a column_transformer artifact
func LoadPreprocessor(path string) (*ColumnTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Stage: StageRead, Err: err}
	}

	var spec PreprocessorSpec
	if err := decodeStrict(data, &spec); err != nil {
		return nil, &LoadError{Path: path, Stage: StageDecode, Err: err}
	}

	pre, err := NewColumnTransformer(spec)
	if err != nil {
		return nil, &LoadError{Path: path, Stage: StageValidate, Err: err}
	}
	return pre, nil
}

// LoadClassifier reads a classifier artifact and builds the model its kind names
func LoadClassifier(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Stage: StageRead, Err: err}
	}

	var header struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, &LoadError{Path: path, Stage: StageDecode, Err: err}
	}

	model, stage, err := buildModel(header.Kind, data)
	if err != nil {
		return nil, &LoadError{Path: path, Stage: stage, Err: err}
	}
	return model, nil
}

func buildModel(kind string, data []byte) (Model, string, error) {
	switch kind {
	case KindLogistic:
		var spec LogisticSpec
		if err := decodeStrict(data, &spec); err != nil {
			return nil, StageDecode, err
		}
		m, err := NewLogisticModel(spec)
		return m, StageValidate, err

	case KindTreeEnsemble:
		var spec TreeEnsembleSpec
		if err := decodeStrict(data, &spec); err != nil {
			return nil, StageDecode, err
		}
		m, err := NewTreeEnsemble(spec)
		return m, StageValidate, err

	case KindCEL:
		var spec CELSpec
		if err := decodeStrict(data, &spec); err != nil {
			return nil, StageDecode, err
		}
		m, err := NewCELModel(spec)
		if errors.Is(err, ErrCompile) {
			return nil, StageCompile, err
		}
		return m, StageValidate, err

	case "":
		return nil, StageDecode, fmt.Errorf("missing kind")

	default:
		return nil, StageDecode, fmt.Errorf("unsupported classifier kind %q (must be one of: %s, %s, %s)",
			kind, KindLogistic, KindTreeEnsemble, KindCEL)
	}
}

// decodeStrict decodes a single YAML (or JSON) document, rejecting unknown fields
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty document")
		}
		return err
	}
	return nil
}
