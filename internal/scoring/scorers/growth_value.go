package scorers

import (
	"fmt"
	"strings"

	"exitready/internal/scoring"
)

func init() {
	scoring.Register(growthValue{})
}

// maxDriverBonus caps the total keyword bonus from the unique-value answer
// so a keyword-stuffed response cannot buy a top score on its own.
const maxDriverBonus = 4.0

// growthValue grades unique value drivers (q9) against the generic and
// industry keyword tables, plus the self-reported growth potential (q10).
// Unlike the other categories it starts low: value drivers must be earned.
type growthValue struct{}

func (growthValue) Category() scoring.Category { return scoring.GrowthValue }
func (growthValue) Title() string              { return "Growth & Value Drivers" }
func (growthValue) Description() string {
	return "Defensible value drivers and growth runway"
}

func (growthValue) Score(in scoring.Input) scoring.CategoryScore {
	b := scoring.NewBuilder(scoring.GrowthValue, 3.0)

	drivers := strings.ToLower(in.Responses.Get("q9"))
	if drivers != "" {
		bonus := 0.0
		found := 0
		scan := func(kws []scoring.Keyword) {
			for _, kw := range kws {
				if strings.Contains(drivers, kw.Phrase) {
					bonus += kw.Points
					found++
					b.Strength(kw.Description)
				}
			}
		}
		scan(scoring.GenericValueKeywords)
		scan(scoring.IndustryValueKeywords(in.Industry))

		if found > 0 {
			if bonus > maxDriverBonus {
				bonus = maxDriverBonus
			}
			b.Adjust(bonus, fmt.Sprintf("%d recognized value drivers", found))
		} else if deniesValue(drivers) {
			b.Adjust(-1.0, "no unique value drivers identified")
			b.Gap("Nothing differentiates the business from a buyer's view")
		}
	}

	if growth, ok := parseScale(in.Responses.Get("q10")); ok {
		b.Adjust(float64(growth)*0.3, fmt.Sprintf("self-assessed growth potential %d/10", growth))
		if growth >= 8 {
			b.Strength("Clear growth runway for an acquirer")
		} else if growth <= 3 {
			b.Gap("Limited growth story to sell")
		}
	}

	ctx := scoring.IndustryContext{
		Benchmark: "Premium valuations require defensible moats: IP, exclusive contracts or market leadership",
		Impact:    "Strong value drivers can lift the sale multiple by 2-3x",
	}
	return b.Finish(ctx,
		"Some growth potential is present",
		"Build defensible value drivers buyers will pay for")
}
