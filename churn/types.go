package churn

import "fmt"

// Geography is the customer's country of residence
type Geography string

const (
	France  Geography = "France"
	Germany Geography = "Germany"
	Spain   Geography = "Spain"
)

// Geographies lists the picker options in display order
var Geographies = []Geography{France, Germany, Spain}

// Gender is the customer's gender as recorded by the bank
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// Genders lists the picker options in display order
var Genders = []Gender{Male, Female}

// ParseGeography returns the matching Geography and true, or false when s is not an option
func ParseGeography(s string) (Geography, bool) {
	for _, g := range Geographies {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// ParseGender returns the matching Gender and true, or false when s is not an option
func ParseGender(s string) (Gender, bool) {
	for _, g := range Genders {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// CustomerRecord is the single input to one prediction.
// It is built from widget state on every interaction and never stored.
type CustomerRecord struct {
	CreditScore     int
	Geography       Geography
	Gender          Gender
	Age             int
	Tenure          int
	Balance         float64
	NumOfProducts   int
	HasCrCard       int
	IsActiveMember  int
	EstimatedSalary float64
}

// Column names in the order every artifact expects them
const (
	ColCreditScore     = "CreditScore"
	ColGeography       = "Geography"
	ColGender          = "Gender"
	ColAge             = "Age"
	ColTenure          = "Tenure"
	ColBalance         = "Balance"
	ColNumOfProducts   = "NumOfProducts"
	ColHasCrCard       = "HasCrCard"
	ColIsActiveMember  = "IsActiveMember"
	ColEstimatedSalary = "EstimatedSalary"
)

// Columns is the fixed column order of a Row
var Columns = []string{
	ColCreditScore,
	ColGeography,
	ColGender,
	ColAge,
	ColTenure,
	ColBalance,
	ColNumOfProducts,
	ColHasCrCard,
	ColIsActiveMember,
	ColEstimatedSalary,
}

// Cell is one named value of a Row
type Cell struct {
	Name  string
	Value any
}

// Row is a single-row table: named cells in column order
type Row []Cell

// Get returns the value of the named column
func (r Row) Get(name string) (any, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Names returns the column names of the row in order
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// Row wraps the record as a single-row table with the ten columns in fixed order
func (c CustomerRecord) Row() Row {
	return Row{
		{Name: ColCreditScore, Value: c.CreditScore},
		{Name: ColGeography, Value: string(c.Geography)},
		{Name: ColGender, Value: string(c.Gender)},
		{Name: ColAge, Value: c.Age},
		{Name: ColTenure, Value: c.Tenure},
		{Name: ColBalance, Value: c.Balance},
		{Name: ColNumOfProducts, Value: c.NumOfProducts},
		{Name: ColHasCrCard, Value: c.HasCrCard},
		{Name: ColIsActiveMember, Value: c.IsActiveMember},
		{Name: ColEstimatedSalary, Value: c.EstimatedSalary},
	}
}

// DefaultRecord returns the record the form shows before any edit
func DefaultRecord() CustomerRecord {
	return CustomerRecord{
		CreditScore:     CreditScoreRange.Default,
		Geography:       France,
		Gender:          Male,
		Age:             AgeRange.Default,
		Tenure:          TenureRange.Default,
		Balance:         DefaultBalance,
		NumOfProducts:   NumOfProductsRange.Default,
		HasCrCard:       FlagRange.Default,
		IsActiveMember:  FlagRange.Default,
		EstimatedSalary: DefaultEstimatedSalary,
	}
}

// IsCategorical reports whether the named column holds a string category
func IsCategorical(column string) bool {
	return column == ColGeography || column == ColGender
}

// IsColumn reports whether name is one of the ten record columns
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Label is the raw classifier output
type Label int

const (
	LabelStay  Label = 0
	LabelChurn Label = 1
)

// Valid reports whether l is one of the two known labels
func (l Label) Valid() bool {
	return l == LabelStay || l == LabelChurn
}

func (l Label) String() string {
	switch l {
	case LabelStay:
		return "stay"
	case LabelChurn:
		return "churn"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}
