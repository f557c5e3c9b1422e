package benchmarks

import (
	"regexp"
	"strconv"
)

var firstInt = regexp.MustCompile(`\d+`)

// ParseFirstInt extracts the first integer from free text like "14 days" or
// "60%+". Returns (0, false) when the text contains no digits.
func ParseFirstInt(text string) (int, bool) {
	m := firstInt.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Extract builds Benchmarks from a research payload.
//
// The payload shape follows the research collaborator's output:
//
//	valuation_benchmarks.owner_dependence.days_threshold     "14 days"
//	valuation_benchmarks.customer_concentration.threshold    "25%"
//	valuation_benchmarks.customer_concentration.discount     "15-20%"
//	valuation_benchmarks.recurring_revenue.threshold         "70%"
//	valuation_benchmarks.recurring_revenue.premium           "1.5-2.0x ..."
//	valuation_benchmarks.profit_margins.expected_EBITDA      "15-20%"
//	industry_specific_thresholds.<industry>.*                per-industry overrides
//
// Every field is extracted independently and falls back to its default when
// absent, malformed, or of an unexpected shape. When the payload carries a
// per-industry threshold table and the industry matches a key, that value
// supersedes the generic one for that field only. Extract never panics and
// is deterministic for identical inputs.
func Extract(researchData map[string]any, industry string) Benchmarks {
	b := Defaults()
	vb := subMap(researchData, "valuation_benchmarks")

	if n, ok := ParseFirstInt(textAt(vb, "owner_dependence", "days_threshold")); ok {
		b.OwnerIndependenceDays = n
	}
	if n, ok := ParseFirstInt(textAt(vb, "customer_concentration", "threshold")); ok {
		b.CustomerConcentrationPct = n
	}
	if s := textAt(vb, "customer_concentration", "discount"); s != "" {
		b.ConcentrationDiscount = s
	}
	if n, ok := ParseFirstInt(textAt(vb, "recurring_revenue", "threshold")); ok {
		b.RecurringRevenuePct = n
	}
	if s := textAt(vb, "recurring_revenue", "premium"); s != "" {
		b.RecurringPremium = s
	}
	if s := textAt(vb, "profit_margins", "expected_EBITDA"); s != "" {
		b.ExpectedMarginRange = s
	}

	// Industry overrides supersede the generic values field by field.
	overrides := subMap(subMap(researchData, "industry_specific_thresholds"), industry)
	if n, ok := ParseFirstInt(text(overrides, "owner_independence")); ok {
		b.OwnerIndependenceDays = n
	}
	if n, ok := ParseFirstInt(text(overrides, "customer_concentration")); ok {
		b.CustomerConcentrationPct = n
	}
	if n, ok := ParseFirstInt(text(overrides, "recurring_revenue")); ok {
		b.RecurringRevenuePct = n
	}

	return b
}

// DocumentationRigor reports how demanding the industry's documentation
// expectations are, from the research payload's per-industry table. High
// rigor raises the bar the operational-resilience scorer grades against.
func DocumentationRigor(researchData map[string]any, industry string) string {
	overrides := subMap(subMap(researchData, "industry_specific_thresholds"), industry)
	if s := text(overrides, "documentation"); s != "" {
		return s
	}
	return "Medium"
}

func subMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

func text(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func textAt(m map[string]any, key, field string) string {
	return text(subMap(m, key), field)
}
