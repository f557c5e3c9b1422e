package scorers

import (
	"fmt"
	"strings"

	"exitready/internal/scoring"
)

func init() {
	scoring.Register(revenueQuality{})
}

// revenueQuality grades revenue diversification (q3) and customer
// concentration (q4) against the industry concentration benchmark.
type revenueQuality struct{}

func (revenueQuality) Category() scoring.Category { return scoring.RevenueQuality }
func (revenueQuality) Title() string              { return "Revenue Quality" }
func (revenueQuality) Description() string {
	return "Diversification and predictability of revenue"
}

func (revenueQuality) Score(in scoring.Input) scoring.CategoryScore {
	b := scoring.NewBuilder(scoring.RevenueQuality, 5.0)

	streamsAnswer := strings.ToLower(in.Responses.Get("q3"))
	if streamsAnswer != "" {
		streams := countStreams(streamsAnswer)
		switch {
		case streams >= 3:
			b.Adjust(1.0, fmt.Sprintf("%d distinct revenue streams", streams))
			b.Strength("Revenue is spread across multiple streams")
		case streams == 1:
			b.Adjust(-1.0, "single revenue stream")
			b.Gap("All revenue depends on one stream")
		}
		if containsAny(streamsAnswer, "subscription", "recurring", "retainer", "monthly", "contract") {
			b.Adjust(1.5, "recurring revenue model")
			b.Strength("Recurring revenue gives buyers predictable cash flow")
		}
	}

	mid := concentrationMidpoint(in.Responses.Get("q4"))
	threshold := in.Benchmarks.CustomerConcentrationPct
	if mid >= 0 && threshold > 0 {
		t := float64(threshold)
		m := float64(mid)
		switch {
		case m <= 0.8*t:
			b.Adjust(2.5, fmt.Sprintf("largest customer ~%d%%, well under the %d%% benchmark", mid, threshold))
			b.Strength("No dangerous customer concentration")
		case m <= 1.4*t:
			b.Adjust(1.0, fmt.Sprintf("largest customer ~%d%%, near the %d%% benchmark", mid, threshold))
		case m >= 2.2*t:
			b.Adjust(-2.5, fmt.Sprintf("largest customer ~%d%%, far above the %d%% benchmark", mid, threshold))
			b.Gap("Severe customer concentration risk")
		default:
			b.Adjust(-1.0, fmt.Sprintf("largest customer ~%d%%, above the %d%% benchmark", mid, threshold))
			b.Gap("Customer concentration exceeds what buyers tolerate")
		}
	}

	ctx := scoring.IndustryContext{
		Benchmark: fmt.Sprintf("Buyers prefer under %d%% revenue from any single customer; %d%%+ recurring revenue earns %s",
			threshold, in.Benchmarks.RecurringRevenuePct, in.Benchmarks.RecurringPremium),
		Impact: fmt.Sprintf("Concentration above the benchmark typically costs %s in valuation", in.Benchmarks.ConcentrationDiscount),
	}
	return b.Finish(ctx,
		"Revenue mix is within the normal range",
		"Diversify revenue streams and reduce customer concentration")
}

// countStreams counts the distinct revenue streams named in the answer,
// treating commas, "and" and newlines as separators.
func countStreams(answer string) int {
	answer = strings.ReplaceAll(answer, " and ", ",")
	answer = strings.ReplaceAll(answer, "\n", ",")
	count := 0
	for _, part := range strings.Split(answer, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}
