package scoring

import "fmt"

// Category identifies one scoring dimension. Business logic dispatches on
// this enum; the string keys exist only at serialization boundaries.
type Category int

const (
	OwnerDependence Category = iota
	RevenueQuality
	FinancialReadiness
	OperationalResilience
	GrowthValue
)

// All lists the categories in report order.
var All = []Category{
	OwnerDependence,
	RevenueQuality,
	FinancialReadiness,
	OperationalResilience,
	GrowthValue,
}

// Weights is the contribution of each category to the overall score.
// The five weights sum to 1.0; ValidateWeights enforces the tolerance.
var Weights = map[Category]float64{
	OwnerDependence:       0.25,
	RevenueQuality:        0.25,
	FinancialReadiness:    0.20,
	OperationalResilience: 0.15,
	GrowthValue:           0.15,
}

// impactMultipliers drive the estimated value-improvement range reported
// for focus areas. Higher multiplier = more valuation upside per point.
var impactMultipliers = map[Category]float64{
	OwnerDependence:       0.30,
	RevenueQuality:        0.25,
	FinancialReadiness:    0.20,
	OperationalResilience: 0.20,
	GrowthValue:           0.35,
}

// Key returns the stable snake_case identifier used in serialized output.
func (c Category) Key() string {
	switch c {
	case OwnerDependence:
		return "owner_dependence"
	case RevenueQuality:
		return "revenue_quality"
	case FinancialReadiness:
		return "financial_readiness"
	case OperationalResilience:
		return "operational_resilience"
	case GrowthValue:
		return "growth_value"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) String() string {
	switch c {
	case OwnerDependence:
		return "Owner Dependence"
	case RevenueQuality:
		return "Revenue Quality"
	case FinancialReadiness:
		return "Financial Readiness"
	case OperationalResilience:
		return "Operational Resilience"
	case GrowthValue:
		return "Growth Value"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory resolves a serialized key back to its Category.
func ParseCategory(key string) (Category, bool) {
	for _, c := range All {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}
