package engine

import (
	"context"
	"fmt"
	"strings"

	"exitready/internal/research"
	"exitready/internal/scoring"
)

// runScoring evaluates all five category scorers against the anonymized
// responses and the extracted benchmarks, then aggregates. The mechanical
// scores are deterministic; per-category insights come from a generation
// call with a template fallback, so they can never change the numbers or
// fail the stage.
func (e *Engine) runScoring(ctx context.Context, rc *RunContext) error {
	if rc.Intake == nil {
		return stageErrf(KindMissingContext, "intake result not populated")
	}
	if rc.Research == nil {
		return stageErrf(KindMissingContext, "research result not populated")
	}

	in := scoring.Input{
		Responses:          rc.Intake.Anonymized.Responses,
		Benchmarks:         rc.Research.Benchmarks,
		Industry:           rc.Industry,
		DocumentationRigor: rc.Research.DocumentationRigor,
		ExitTimeline:       rc.ExitTimeline,
	}

	var categories []scoring.CategoryScore
	for _, s := range scoring.List() {
		cs := s.Score(in)
		cs.Insight = e.categoryInsight(ctx, rc, s, cs)
		categories = append(categories, cs)
	}

	overall, tier := scoring.Overall(categories)
	result := &ScoringResult{
		Categories: categories,
		Overall:    overall,
		Tier:       tier,
		Focus:      scoring.IdentifyFocusAreas(categories, rc.ExitTimeline),
		Metadata:   scoringMetadata(categories, rc.Research.Source),
	}
	rc.Scoring = result
	rc.Status("scoring complete: overall %.1f (%s)", overall, tier)
	return nil
}

func scoringMetadata(categories []scoring.CategoryScore, source string) ScoringMetadata {
	md := ScoringMetadata{ResearchQuality: "industry fallback data"}
	if source == research.SourceLive {
		md.ResearchQuality = "live industry research"
	}
	if len(categories) == 0 {
		return md
	}
	md.Highest = categories[0].Category
	md.Lowest = categories[0].Category
	high, low := categories[0].Score, categories[0].Score
	for _, cs := range categories[1:] {
		if cs.Score > high {
			high, md.Highest = cs.Score, cs.Category
		}
		if cs.Score < low {
			low, md.Lowest = cs.Score, cs.Category
		}
	}
	return md
}

// categoryInsight asks the generation backend for one short observation
// about a category result. Falls back to a template sentence; commentary is
// never worth a retry storm or a stage failure.
func (e *Engine) categoryInsight(ctx context.Context, rc *RunContext, s scoring.Scorer, cs scoring.CategoryScore) string {
	system := "You are an exit-readiness advisor. Write one specific, plain-language observation " +
		"about the category result. Respond as JSON: {\"insight\": \"...\"}."
	user := fmt.Sprintf(
		"Category: %s (%s)\nScore: %.1f of 10\nIndustry: %s\nStrengths: %s\nGaps: %s\nAdjustments: %s",
		s.Title(), s.Description(), cs.Score, rc.Industry,
		strings.Join(cs.Strengths, "; "), strings.Join(cs.Gaps, "; "), adjustmentLines(cs))

	res := e.coercer.Request(ctx, system, user, []string{"insight"})
	if res.Err != nil {
		rc.Warn("insight generation failed for %s: %s", cs.Category.Key(), res.Err.Reason)
		return templateInsight(cs)
	}
	if insight, ok := res.Payload["insight"].(string); ok && insight != "" {
		return insight
	}
	return templateInsight(cs)
}

func templateInsight(cs scoring.CategoryScore) string {
	switch {
	case cs.Score >= 8.0:
		return fmt.Sprintf("%s is a genuine selling point at %.1f/10.", cs.Category, cs.Score)
	case cs.Score >= 5.0:
		return fmt.Sprintf("%s is serviceable at %.1f/10 but leaves value on the table.", cs.Category, cs.Score)
	default:
		return fmt.Sprintf("%s at %.1f/10 will concern buyers and belongs on the improvement plan.", cs.Category, cs.Score)
	}
}

func adjustmentLines(cs scoring.CategoryScore) string {
	var parts []string
	for _, adj := range cs.Adjustments {
		parts = append(parts, adj.String())
	}
	return strings.Join(parts, "; ")
}
