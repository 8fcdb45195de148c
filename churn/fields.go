package churn

// IntRange bounds an integer widget
type IntRange struct {
	Min     int
	Max     int
	Default int
}

// Clamp pins v to the nearest bound of the range
func (r IntRange) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

var (
	CreditScoreRange   = IntRange{Min: 300, Max: 850, Default: 600}
	AgeRange           = IntRange{Min: 18, Max: 100, Default: 30}
	TenureRange        = IntRange{Min: 0, Max: 10, Default: 5}
	NumOfProductsRange = IntRange{Min: 1, Max: 4, Default: 1}
	FlagRange          = IntRange{Min: 0, Max: 1, Default: 1}
)

const (
	DefaultBalance         = 10000.0
	DefaultEstimatedSalary = 50000.0
)

// WidgetKind selects how a field is rendered and parsed
type WidgetKind string

const (
	WidgetInt    WidgetKind = "int"
	WidgetFloat  WidgetKind = "float"
	WidgetSelect WidgetKind = "select"
)

// Field declares one form widget and its explanation
type Field struct {
	Name        string
	Label       string
	Kind        WidgetKind
	Range       IntRange // WidgetInt only
	Default     float64  // WidgetFloat only
	Options     []string // WidgetSelect only
	Selected    string   // WidgetSelect default option
	Explanation string
}

// Fields is the form layout, in column order
var Fields = []Field{
	{
		Name:        ColCreditScore,
		Label:       "Credit Score",
		Kind:        WidgetInt,
		Range:       CreditScoreRange,
		Explanation: "Customer's credit score, ranging from 300 to 850. Higher credit scores indicate better creditworthiness.",
	},
	{
		Name:        ColGeography,
		Label:       "Geography",
		Kind:        WidgetSelect,
		Options:     []string{string(France), string(Germany), string(Spain)},
		Selected:    string(France),
		Explanation: "Customer's location, such as France, Germany, or Spain. Geography can influence customer behavior and churn.",
	},
	{
		Name:        ColGender,
		Label:       "Gender",
		Kind:        WidgetSelect,
		Options:     []string{string(Male), string(Female)},
		Selected:    string(Male),
		Explanation: "Customer's gender (Male or Female). Behavior and churn tendencies might differ between genders.",
	},
	{
		Name:        ColAge,
		Label:       "Age",
		Kind:        WidgetInt,
		Range:       AgeRange,
		Explanation: "Customer's age in years. Younger customers might have higher churn rates, while older customers may be more loyal.",
	},
	{
		Name:        ColTenure,
		Label:       "Tenure (Years)",
		Kind:        WidgetInt,
		Range:       TenureRange,
		Explanation: "Number of years the customer has been with the company. Higher tenure might indicate stronger loyalty.",
	},
	{
		Name:        ColBalance,
		Label:       "Balance",
		Kind:        WidgetFloat,
		Default:     DefaultBalance,
		Explanation: "Account balance. Higher balances could indicate more engagement with the service.",
	},
	{
		Name:        ColNumOfProducts,
		Label:       "Number of Products",
		Kind:        WidgetInt,
		Range:       NumOfProductsRange,
		Explanation: "Number of products the customer uses. More products usually mean higher engagement and lower churn.",
	},
	{
		Name:        ColHasCrCard,
		Label:       "Has Credit Card",
		Kind:        WidgetSelect,
		Options:     []string{"0", "1"},
		Selected:    "1",
		Explanation: "Whether the customer has a credit card with the company (1 = Yes, 0 = No). Having a credit card might reduce churn.",
	},
	{
		Name:        ColIsActiveMember,
		Label:       "Is Active Member",
		Kind:        WidgetSelect,
		Options:     []string{"0", "1"},
		Selected:    "1",
		Explanation: "Whether the customer is an active member (1 = Yes, 0 = No). Active members are generally less likely to churn.",
	},
	{
		Name:        ColEstimatedSalary,
		Label:       "Estimated Salary",
		Kind:        WidgetFloat,
		Default:     DefaultEstimatedSalary,
		Explanation: "The customer's annual estimated salary. Higher salaries might correlate with higher engagement.",
	},
}

// FieldByName looks up a widget declaration
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
