package main

import (
	"strconv"

	"github.com/liamcoop/churnform/churn"
)

// Page models for the HTML templates

// OptionView is one entry of a picker
type OptionView struct {
	Value    string
	Selected bool
}

// WidgetView is one rendered form control
type WidgetView struct {
	Name    string
	Label   string
	Kind    churn.WidgetKind
	Value   string
	Min     int
	Max     int
	Options []OptionView
}

// PageData is passed to the page template
type PageData struct {
	Title        string
	Tab          string
	Widgets      []WidgetView
	Fields       []churn.Field
	Verdict      *churn.Verdict
	Error        string
	SubmissionID string
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string   `json:"status"`
	Preprocessor string   `json:"preprocessor,omitempty"`
	Classifier   string   `json:"classifier,omitempty"`
	Features     int      `json:"features,omitempty"`
	Columns      []string `json:"columns,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const (
	tabPredict  = "predict"
	tabFeatures = "features"

	pageTitle = "Churn Prediction Using Machine Learning"
)

// widgetsFor renders every declared field with the values of rec
func widgetsFor(rec churn.CustomerRecord) []WidgetView {
	row := rec.Row()
	widgets := make([]WidgetView, 0, len(churn.Fields))

	for _, f := range churn.Fields {
		v, _ := row.Get(f.Name)
		value := formatValue(v)

		w := WidgetView{
			Name:  f.Name,
			Label: f.Label,
			Kind:  f.Kind,
			Value: value,
		}

		switch f.Kind {
		case churn.WidgetInt:
			w.Min = f.Range.Min
			w.Max = f.Range.Max
		case churn.WidgetSelect:
			w.Options = make([]OptionView, len(f.Options))
			for i, o := range f.Options {
				w.Options[i] = OptionView{Value: o, Selected: o == value}
			}
		}

		widgets = append(widgets, w)
	}

	return widgets
}

func formatValue(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return ""
	}
}
