package scoring

import (
	"exitready/internal/benchmarks"
	"exitready/internal/forms"
)

// Input carries everything a scorer may read. Scorers are pure: same input,
// same CategoryScore, no external calls.
type Input struct {
	Responses  forms.Responses
	Benchmarks benchmarks.Benchmarks

	// Industry selects the value-driver keyword set and documentation
	// rigor expectations.
	Industry string

	// DocumentationRigor is the research-reported documentation expectation
	// for the industry ("Low", "Medium", "High", "Very High").
	DocumentationRigor string

	// ExitTimeline is the declared exit timeline answer, used for context
	// annotations only; urgency is computed during aggregation.
	ExitTimeline string
}

// Scorer produces the score for exactly one category.
type Scorer interface {
	Category() Category
	Title() string
	Description() string

	// Score evaluates the category. It must be total over all inputs:
	// empty answers, missing questions and extreme self-reported values
	// all produce a bounded, fully-populated CategoryScore.
	Score(in Input) CategoryScore
}
