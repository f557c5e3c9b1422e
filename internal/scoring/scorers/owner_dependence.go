package scorers

import (
	"fmt"
	"strings"

	"exitready/internal/scoring"
)

func init() {
	scoring.Register(ownerDependence{})
}

// ownerDependence grades how well the business runs without its owner, from
// the day-to-day involvement answer (q1) and the longest-absence answer (q2).
type ownerDependence struct{}

func (ownerDependence) Category() scoring.Category { return scoring.OwnerDependence }
func (ownerDependence) Title() string              { return "Owner Dependence" }
func (ownerDependence) Description() string {
	return "How well the business operates without the owner present"
}

func (ownerDependence) Score(in scoring.Input) scoring.CategoryScore {
	b := scoring.NewBuilder(scoring.OwnerDependence, 5.0)

	involvement := strings.ToLower(in.Responses.Get("q1"))
	if involvement != "" {
		firstPerson := countFirstPerson(involvement)
		switch {
		case containsAny(involvement, "team handles", "delegate", "rarely involved", "runs itself"):
			b.Rebase(7.0, "operations are delegated to the team")
			b.Strength("Day-to-day operations are delegated")
		case containsAny(involvement, "everything", " all ", "every decision"):
			b.Rebase(2.5, "owner handles everything")
			b.Gap("Owner is involved in every part of the business")
		case firstPerson > 5:
			b.Rebase(2.0, fmt.Sprintf("heavy first-person involvement (%d mentions)", firstPerson))
			b.Gap("Operations revolve around the owner personally")
		case firstPerson > 3:
			b.Rebase(3.5, fmt.Sprintf("significant first-person involvement (%d mentions)", firstPerson))
			b.Gap("Owner remains central to daily operations")
		}
	}

	days := daysWithoutOwner(in.Responses.Get("q2"))
	threshold := in.Benchmarks.OwnerIndependenceDays
	if days >= 0 && threshold > 0 {
		if days == 0 {
			b.Adjust(-2.0, "business cannot run a single day without the owner")
			b.Gap("Business stops the moment the owner steps away")
		} else {
			// Full credit at twice the benchmark absence, graded linearly
			// below that.
			ratio := float64(days) / float64(2*threshold)
			if ratio > 1 {
				ratio = 1
			}
			delta := -2.0 + ratio*5.5
			b.Adjust(delta, fmt.Sprintf("can run %d days unattended vs %d-day benchmark", days, threshold))
			if days >= threshold {
				b.Strength(fmt.Sprintf("Business runs %d+ days without the owner", days))
			} else {
				b.Gap(fmt.Sprintf("Absence tolerance of %d days is below the %d-day benchmark", days, threshold))
			}
		}
	}

	ctx := scoring.IndustryContext{
		Benchmark: fmt.Sprintf("Buyers expect the business to run %d+ days without the owner", threshold),
		Impact:    "High owner dependence can reduce sale value by 30-50%",
	}
	return b.Finish(ctx,
		"Owner involvement is within the normal range",
		"Reduce owner involvement in daily operations")
}

// countFirstPerson counts first-person pronoun tokens, the rough signal for
// how owner-centric the involvement answer reads.
func countFirstPerson(answer string) int {
	count := 0
	for _, tok := range strings.Fields(answer) {
		switch strings.Trim(tok, ".,;:!?") {
		case "i", "me", "my", "myself":
			count++
		}
	}
	return count
}
