package research

// Data-source markers carried in the research payload so downstream stages
// and the report can distinguish live research from the built-in fallback.
const (
	SourceLive     = "live_research"
	SourceFallback = "fallback"
)

// Fallback returns the complete hard-coded research payload used whenever
// the search collaborator is unavailable. Every benchmark field the
// extractor reads is present, so a run on fallback data is fully populated,
// just not industry-fresh. Citations point at the public sources the numbers
// were originally drawn from.
func Fallback(industry, region string) map[string]any {
	payload := map[string]any{
		"data_source": SourceFallback,
		"valuation_benchmarks": map[string]any{
			"owner_dependence": map[string]any{
				"days_threshold": "14 days",
				"impact":         "Businesses requiring daily owner involvement sell at 30-50% discounts",
			},
			"customer_concentration": map[string]any{
				"threshold": "25%",
				"discount":  "15-20%",
			},
			"recurring_revenue": map[string]any{
				"threshold": "70%",
				"premium":   "1.5-2.0x higher multiples",
			},
			"profit_margins": map[string]any{
				"expected_EBITDA": "15-20%",
			},
		},
		"industry_specific_thresholds": industryThresholds(),
		"improvement_strategies": []any{
			"Document all core processes so the business is transferable",
			"Build a management layer that removes the owner from daily decisions",
			"Convert project revenue to contracted recurring revenue",
			"Diversify the customer base below concentration thresholds",
			"Move to accrual accounting with clean, reviewable statements",
		},
		"market_conditions": map[string]any{
			"buyer_demand":         "Steady demand for well-documented businesses with recurring revenue",
			"typical_time_to_sale": "9-12 months from listing to close",
		},
		"citations": []any{
			"BizBuySell Insight Report, small business transaction data",
			"IBBA Market Pulse Survey, lower middle market",
			"Exit Planning Institute, State of Owner Readiness",
		},
	}
	if region != "" {
		payload["region"] = region
	}
	if industry != "" {
		payload["industry"] = industry
	}
	return payload
}

func industryThresholds() map[string]any {
	return map[string]any{
		"Professional Services": map[string]any{
			"owner_independence":     "21 days",
			"customer_concentration": "20%",
			"recurring_revenue":      "60%",
			"documentation":          "High",
		},
		"Manufacturing": map[string]any{
			"owner_independence":     "14 days",
			"customer_concentration": "30%",
			"recurring_revenue":      "50%",
			"documentation":          "Very High",
		},
		"Healthcare": map[string]any{
			"owner_independence":     "10 days",
			"customer_concentration": "25%",
			"recurring_revenue":      "70%",
			"documentation":          "Very High",
		},
		"Technology": map[string]any{
			"owner_independence":     "30 days",
			"customer_concentration": "20%",
			"recurring_revenue":      "80%",
			"documentation":          "Medium",
		},
		"Retail": map[string]any{
			"owner_independence":     "7 days",
			"customer_concentration": "15%",
			"recurring_revenue":      "30%",
			"documentation":          "Medium",
		},
	}
}
