package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Readiness tiers, from fixed overall-score bands.
const (
	TierExitReady        = "Exit Ready"
	TierApproachingReady = "Approaching Ready"
	TierNeedsWork        = "Needs Work"
	TierNotReady         = "Not Ready"
)

// Urgency tags derived from the declared exit timeline.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyModerate = "MODERATE"
)

// FocusArea flags one category as an improvement priority.
type FocusArea struct {
	Category Category `json:"-"`
	Key      string   `json:"category"`
	Score    float64  `json:"score"`
	Gaps     []string `json:"gaps"`
	Impact   string   `json:"impact"`
}

// FocusAreas holds the two lowest-scoring categories plus the timeline
// urgency tag.
type FocusAreas struct {
	Primary   FocusArea `json:"primary"`
	Secondary FocusArea `json:"secondary"`
	Urgency   string    `json:"urgency"`
}

// Overall computes the weighted overall score rounded to one decimal, and
// its readiness tier. Scores carry their own weights; a zero weight sum
// (no scores) yields the neutral midpoint.
func Overall(scores []CategoryScore) (float64, string) {
	var weighted, total float64
	for _, cs := range scores {
		weighted += cs.Score * cs.Weight
		total += cs.Weight
	}
	overall := 5.0
	if total > 0 {
		overall = math.Round(weighted/total*10) / 10
	}
	return overall, Tier(overall)
}

// Tier maps an overall score to its readiness band.
func Tier(overall float64) string {
	switch {
	case overall >= 8.1:
		return TierExitReady
	case overall >= 6.6:
		return TierApproachingReady
	case overall >= 4.1:
		return TierNeedsWork
	default:
		return TierNotReady
	}
}

// IdentifyFocusAreas picks the lowest and second-lowest categories and tags
// them with the exit-timeline urgency. The sort is stable on category order
// so ties resolve deterministically.
func IdentifyFocusAreas(scores []CategoryScore, exitTimeline string) FocusAreas {
	sorted := make([]CategoryScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Category < sorted[j].Category
	})

	var fa FocusAreas
	if len(sorted) > 0 {
		fa.Primary = focusArea(sorted[0])
	}
	if len(sorted) > 1 {
		fa.Secondary = focusArea(sorted[1])
	}
	fa.Urgency = TimelineUrgency(exitTimeline)
	return fa
}

func focusArea(cs CategoryScore) FocusArea {
	return FocusArea{
		Category: cs.Category,
		Key:      cs.Category.Key(),
		Score:    cs.Score,
		Gaps:     cs.Gaps,
		Impact:   ImprovementImpact(cs.Category, cs.Score),
	}
}

// TimelineUrgency maps a declared exit timeline to an urgency tag: an
// active or near-term sale is CRITICAL, a 1-2 year horizon is HIGH,
// anything longer is MODERATE.
func TimelineUrgency(exitTimeline string) string {
	switch {
	case strings.Contains(exitTimeline, "Already"), strings.Contains(exitTimeline, "6 months"):
		return UrgencyCritical
	case strings.Contains(exitTimeline, "1-2 years"):
		return UrgencyHigh
	default:
		return UrgencyModerate
	}
}

// ImprovementImpact estimates the valuation upside of lifting a category
// toward a strong (8.0) score, expressed as a bounded percentage range.
func ImprovementImpact(c Category, score float64) string {
	potential := (8.0 - score) / 10.0
	if potential < 0 {
		potential = 0
	}
	impact := int(potential * impactMultipliers[c] * 100)
	switch {
	case impact > 20:
		return fmt.Sprintf("High - up to %d%% value increase", impact)
	case impact > 10:
		return fmt.Sprintf("Moderate - up to %d%% value increase", impact)
	default:
		return fmt.Sprintf("Low - up to %d%% value increase", impact)
	}
}
