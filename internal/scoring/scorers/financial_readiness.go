package scorers

import (
	"fmt"
	"strings"

	"exitready/internal/scoring"
)

func init() {
	scoring.Register(financialReadiness{})
}

// financialReadiness grades confidence in the financial records (q5) and the
// profit margin trend (q6) against the industry margin expectation.
type financialReadiness struct{}

func (financialReadiness) Category() scoring.Category { return scoring.FinancialReadiness }
func (financialReadiness) Title() string              { return "Financial Readiness" }
func (financialReadiness) Description() string {
	return "Quality of financial records and margin trajectory"
}

func (financialReadiness) Score(in scoring.Input) scoring.CategoryScore {
	b := scoring.NewBuilder(scoring.FinancialReadiness, 5.0)

	if conf, ok := parseScale(in.Responses.Get("q5")); ok {
		switch {
		case conf >= 9:
			b.Adjust(2.5, fmt.Sprintf("financial record confidence %d/10", conf))
			b.Strength("Financial records are diligence-ready")
		case conf >= 7:
			b.Adjust(1.5, fmt.Sprintf("financial record confidence %d/10", conf))
			b.Strength("Financial records are in good shape")
		case conf >= 5:
			b.Adjust(0.5, fmt.Sprintf("financial record confidence %d/10", conf))
		default:
			b.Adjust(-1.5, fmt.Sprintf("financial record confidence only %d/10", conf))
			b.Gap("Financial records would not survive buyer scrutiny")
		}
		if conf <= 2 {
			b.Gap("Record quality is a critical transaction risk")
		}
	}

	trend := strings.ToLower(in.Responses.Get("q6"))
	switch {
	case trend == "":
	// The questionnaire's own answer options first: "Declined
	// significantly/slightly", "Stayed flat", "Improved slightly/
	// significantly". Free-text keywords are the fallback path.
	case strings.Contains(trend, "declined") && strings.Contains(trend, "significantly"):
		b.Adjust(-2.5, "margins declined significantly")
		b.Gap("A significant margin decline is a major concern for buyers")
	case strings.Contains(trend, "declined"):
		b.Adjust(-1.0, "margins declined slightly")
		b.Gap("Margin pressure is evident")
	case strings.Contains(trend, "improved") && strings.Contains(trend, "significantly"):
		b.Adjust(2.5, "margins improved significantly")
		b.Strength("Strong margin growth is very attractive to buyers")
	case strings.Contains(trend, "improved"):
		b.Adjust(1.5, "margins improved slightly")
		b.Strength("Improving profit margins")
	// Volatility before the declining keywords: "up and down" must not
	// read as declining.
	case containsAny(trend, "volatile", "fluctuat", "inconsistent", "up and down"):
		b.Adjust(-1.0, "margins are volatile")
		b.Gap("Volatile margins make earnings hard to underwrite")
	case containsAny(trend, "declining", "decreasing", "shrinking", "down"):
		b.Adjust(-2.0, "margins are declining")
		b.Gap("Declining margins depress the multiple buyers will pay")
	case containsAny(trend, "growing", "increasing", "improving", "expanding"):
		b.Adjust(2.0, "margins are growing")
		b.Strength("Improving margins support a premium valuation")
	case containsAny(trend, "stable", "steady", "consistent", "flat"):
		b.Adjust(1.0, "margins are stable")
		b.Strength("Stable margins are easy to underwrite")
	default:
		b.Adjust(0.5, "margin trend reported without a clear direction")
	}

	ctx := scoring.IndustryContext{
		Benchmark: fmt.Sprintf("Buyers in %s expect %s EBITDA margins", in.Industry, in.Benchmarks.ExpectedMarginRange),
		Impact:    "Clean, trending-up financials can add 20-30% to the sale price",
	}
	return b.Finish(ctx,
		"Financial position is within the normal range",
		"Tighten financial records before going to market")
}
