// Package benchmarks turns semi-structured research data into typed industry
// benchmarks with safe defaults. Extraction is total: every field falls back
// to its default independently, so a Benchmarks value is never partially
// undefined no matter how malformed the upstream data is.
package benchmarks

// Benchmarks holds the typed thresholds the scorers compare against.
type Benchmarks struct {
	// OwnerIndependenceDays is the number of days buyers expect the
	// business to run without the owner.
	OwnerIndependenceDays int

	// CustomerConcentrationPct is the largest-customer revenue share above
	// which buyers start discounting. ConcentrationDiscount is the
	// associated discount range as reported by the research.
	CustomerConcentrationPct int
	ConcentrationDiscount    string

	// RecurringRevenuePct is the contractual-revenue share that unlocks a
	// valuation premium. RecurringPremium is the associated premium range.
	RecurringRevenuePct int
	RecurringPremium    string

	// ExpectedMarginRange is the EBITDA margin range buyers expect for the
	// industry, as free text (e.g. "15-20%").
	ExpectedMarginRange string
}

// Defaults returns the hard-coded fallback benchmarks. These match the
// generic M&A survey figures used when research is unavailable.
func Defaults() Benchmarks {
	return Benchmarks{
		OwnerIndependenceDays:    14,
		CustomerConcentrationPct: 25,
		ConcentrationDiscount:    "15-20%",
		RecurringRevenuePct:      70,
		RecurringPremium:         "1.5-2.0x higher multiples",
		ExpectedMarginRange:      "15-20%",
	}
}
