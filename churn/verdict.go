package churn

import (
	"errors"
	"fmt"
)

const (
	ChurnMessage = "This customer is likely to churn."
	StayMessage  = "This customer is likely to stay."
)

// ErrInvalidLabel is returned when a classifier yields something other than 0 or 1
var ErrInvalidLabel = errors.New("invalid label")

// Severity controls how a verdict is styled
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Verdict is the rendered outcome of one prediction
type Verdict struct {
	Label    Label
	Message  string
	Severity Severity
}

// Churned reports whether the verdict is the churn warning
func (v Verdict) Churned() bool {
	return v.Label == LabelChurn
}

// VerdictFor maps a classifier label to its display message
func VerdictFor(label Label) (Verdict, error) {
	switch label {
	case LabelChurn:
		return Verdict{Label: label, Message: ChurnMessage, Severity: SeverityWarning}, nil
	case LabelStay:
		return Verdict{Label: label, Message: StayMessage, Severity: SeveritySuccess}, nil
	default:
		return Verdict{}, fmt.Errorf("%w: %d", ErrInvalidLabel, int(label))
	}
}
