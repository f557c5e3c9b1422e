package scoring

import (
	"fmt"
	"math"
)

// MinScore and MaxScore bound every category score.
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// Adjustment is one signed delta applied to a category's base score, with
// the reason it was applied. The trail is required output: report text and
// tests both depend on being able to explain the number.
type Adjustment struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%+.1f: %s", a.Delta, a.Reason)
}

// IndustryContext annotates a score with the benchmark it was graded
// against and the estimated valuation impact.
type IndustryContext struct {
	Benchmark string `json:"benchmark"`
	Impact    string `json:"impact"`
}

// CategoryScore is the fully-populated result of one scorer call. It is
// created by exactly one scorer invocation and immutable afterward.
type CategoryScore struct {
	Category    Category        `json:"-"`
	Score       float64         `json:"score"`
	Weight      float64         `json:"weight"`
	Base        float64         `json:"base_score"`
	Adjustments []Adjustment    `json:"adjustments"`
	Strengths   []string        `json:"strengths"`
	Gaps        []string        `json:"gaps"`
	Context     IndustryContext `json:"industry_context"`

	// Insight is optional commentary added by the scoring stage after the
	// mechanical score is computed. It never changes the number.
	Insight string `json:"insight,omitempty"`
}

// Builder accumulates adjustments against a base score. Scorers use it so
// the audit trail and the arithmetic can never drift apart.
type Builder struct {
	category Category
	base     float64
	score    float64
	adjusts  []Adjustment
	strong   []string
	gaps     []string
}

func NewBuilder(c Category, base float64) *Builder {
	return &Builder{category: c, base: base, score: base}
}

// Adjust applies a signed delta and records it in the trail.
func (b *Builder) Adjust(delta float64, reason string) {
	b.score += delta
	b.adjusts = append(b.adjusts, Adjustment{Delta: round1(delta), Reason: reason})
}

// Rebase replaces the running score outright, recording the move as a delta
// from the original base. Used where a single answer dominates the category.
func (b *Builder) Rebase(score float64, reason string) {
	delta := score - b.base
	b.score = score
	b.adjusts = append(b.adjusts, Adjustment{Delta: round1(delta), Reason: reason})
}

func (b *Builder) Strength(s string) { b.strong = append(b.strong, s) }
func (b *Builder) Gap(s string)      { b.gaps = append(b.gaps, s) }

// Finish clamps the score to [MinScore, MaxScore] and fills defaults for
// empty strength/gap lists so report sections always have content.
func (b *Builder) Finish(ctx IndustryContext, defaultStrength, defaultGap string) CategoryScore {
	score := round1(math.Min(MaxScore, math.Max(MinScore, b.score)))
	strengths := b.strong
	if len(strengths) == 0 {
		strengths = []string{defaultStrength}
	}
	gaps := b.gaps
	if len(gaps) == 0 {
		gaps = []string{defaultGap}
	}
	return CategoryScore{
		Category:    b.category,
		Score:       score,
		Weight:      Weights[b.category],
		Base:        b.base,
		Adjustments: b.adjusts,
		Strengths:   strengths,
		Gaps:        gaps,
		Context:     ctx,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
