package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/liamcoop/churnform/churn"
)

// FieldError reports a widget value that could not be read as a number
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid number", e.Field, e.Value)
}

// RecordFromValues reads widget state the way the widgets themselves would:
// integers are clamped to their range, blanks fall back to the widget default
// and pickers only ever yield one of their options. Every widget is read even
// when one fails, so the returned record always carries the rest of the
// submission; the error is the first *FieldError encountered.
func RecordFromValues(values url.Values) (churn.CustomerRecord, error) {
	rec := churn.DefaultRecord()
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	var err error

	rec.CreditScore, err = intWidget(values, churn.ColCreditScore, churn.CreditScoreRange)
	keep(err)

	if g, ok := churn.ParseGeography(strings.TrimSpace(values.Get(churn.ColGeography))); ok {
		rec.Geography = g
	}

	if g, ok := churn.ParseGender(strings.TrimSpace(values.Get(churn.ColGender))); ok {
		rec.Gender = g
	}

	rec.Age, err = intWidget(values, churn.ColAge, churn.AgeRange)
	keep(err)

	rec.Tenure, err = intWidget(values, churn.ColTenure, churn.TenureRange)
	keep(err)

	rec.Balance, err = floatWidget(values, churn.ColBalance, churn.DefaultBalance)
	keep(err)

	rec.NumOfProducts, err = intWidget(values, churn.ColNumOfProducts, churn.NumOfProductsRange)
	keep(err)

	rec.HasCrCard = flagWidget(values, churn.ColHasCrCard)
	rec.IsActiveMember = flagWidget(values, churn.ColIsActiveMember)

	rec.EstimatedSalary, err = floatWidget(values, churn.ColEstimatedSalary, churn.DefaultEstimatedSalary)
	keep(err)

	return rec, first
}

// intWidget parses a stepper value and clamps it into r
func intWidget(values url.Values, name string, r churn.IntRange) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return r.Default, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		// Steppers accept "42.0" and out-of-range magnitudes; finite values still clamp
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return r.Default, &FieldError{Field: name, Value: raw}
		}
		switch {
		case f <= float64(r.Min):
			return r.Min, nil
		case f >= float64(r.Max):
			return r.Max, nil
		default:
			return r.Clamp(int(math.Round(f))), nil
		}
	}

	return r.Clamp(n), nil
}

func floatWidget(values url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def, &FieldError{Field: name, Value: raw}
	}
	return f, nil
}

// flagWidget reads a binary picker; anything but a parseable number keeps the default
func flagWidget(values url.Values, name string) int {
	raw := strings.TrimSpace(values.Get(name))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return churn.FlagRange.Default
	}
	return churn.FlagRange.Clamp(n)
}
