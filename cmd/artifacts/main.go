// Command artifacts checks and inspects the preprocessor and classifier
// artifacts offline, before they are handed to the form server.
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/liamcoop/churnform/artifact"
	"github.com/liamcoop/churnform/churn"
	"github.com/liamcoop/churnform/form"
	"github.com/liamcoop/churnform/internal/config"
	"github.com/spf13/cobra"
)

type options struct {
	preprocessor string
	model        string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "artifacts",
		Short:         "Validate and describe churn model artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.preprocessor, "preprocessor", "", "Preprocessor artifact (default PREPROCESSOR_PATH)")
	root.PersistentFlags().StringVar(&opts.model, "model", "", "Classifier artifact (default MODEL_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Load both artifacts and check that they fit together",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				bundle, err := opts.load()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK: %s (%s) -> %s (%s), %d features\n",
					bundle.Paths.Preprocessor, bundle.Preprocessor.Kind(),
					bundle.Paths.Classifier, bundle.Classifier.Kind(),
					bundle.Preprocessor.OutputWidth())
				return nil
			},
		},
		&cobra.Command{
			Use:   "describe",
			Short: "Print the feature layout and classifier details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				bundle, err := opts.load()
				if err != nil {
					return err
				}
				describe(cmd, bundle)
				return nil
			},
		},
		&cobra.Command{
			Use:   "predict [FIELD=VALUE...]",
			Short: "Classify one customer; unset fields keep their form defaults",
			RunE: func(cmd *cobra.Command, args []string) error {
				bundle, err := opts.load()
				if err != nil {
					return err
				}
				return predict(cmd, bundle, args)
			},
		},
	)

	return root
}

// load fills unset paths from the environment and loads the pair
func (o *options) load() (*artifact.Bundle, error) {
	paths := artifact.Paths{Preprocessor: o.preprocessor, Classifier: o.model}
	if paths.Preprocessor == "" || paths.Classifier == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if paths.Preprocessor == "" {
			paths.Preprocessor = cfg.PreprocessorPath
		}
		if paths.Classifier == "" {
			paths.Classifier = cfg.ModelPath
		}
	}
	return artifact.Load(paths)
}

func describe(cmd *cobra.Command, bundle *artifact.Bundle) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "preprocessor: %s (%s)\n", bundle.Paths.Preprocessor, bundle.Preprocessor.Kind())
	fmt.Fprintf(out, "  columns:  %s\n", strings.Join(bundle.Preprocessor.InputColumns(), ", "))
	for i, name := range bundle.Preprocessor.FeatureNames() {
		fmt.Fprintf(out, "  [%2d] %s\n", i, name)
	}

	clf := bundle.Classifier
	fmt.Fprintf(out, "classifier: %s (%s)\n", bundle.Paths.Classifier, clf.Kind())
	if w := clf.InputWidth(); w > 0 {
		fmt.Fprintf(out, "  input width: %d\n", w)
	} else {
		fmt.Fprintln(out, "  input width: undeclared")
	}

	switch m := clf.(type) {
	case *artifact.TreeEnsemble:
		fmt.Fprintf(out, "  trees: %d\n", m.Trees())
	case *artifact.CELModel:
		fmt.Fprintf(out, "  expression: %s\n", m.Expression())
	}
}

func predict(cmd *cobra.Command, bundle *artifact.Bundle, args []string) error {
	values := url.Values{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected FIELD=VALUE, got %q", arg)
		}
		if !churn.IsColumn(name) {
			return fmt.Errorf("unknown field %q (must be one of: %s)", name, strings.Join(churn.Columns, ", "))
		}
		values.Set(name, value)
	}

	rec, err := form.RecordFromValues(values)
	if err != nil {
		return err
	}

	verdict, err := form.NewPredictor(bundle.Preprocessor, bundle.Classifier).SubmitPrediction(rec)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), verdict.Message)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
