package engine

import (
	"context"
	"fmt"
	"strings"

	"exitready/internal/report"
	"exitready/internal/scoring"
)

// runSummary generates the narrative layer over the mechanical scores and
// renders the anonymized draft report. Every generation call has a default
// payload fallback; the stage only fails when the scoring slot is missing.
func (e *Engine) runSummary(ctx context.Context, rc *RunContext) error {
	if rc.Scoring == nil {
		return stageErrf(KindMissingContext, "scoring result not populated")
	}

	sum := report.Summary{
		Executive:         e.executiveSummary(ctx, rc),
		CategorySummaries: e.categorySummaries(ctx, rc),
	}
	sum.Recommendations, sum.NextSteps = e.recommendations(ctx, rc)

	result := &SummaryResult{Summary: sum}
	result.Draft = renderDraft(rc, sum)
	rc.Summary = result
	rc.Status("summary complete: %d recommendations, %d next steps",
		len(sum.Recommendations), len(sum.NextSteps))
	return nil
}

func (e *Engine) executiveSummary(ctx context.Context, rc *RunContext) string {
	sc := rc.Scoring
	system := "You are an exit-readiness advisor writing for a business owner. Address the owner as " +
		"[OWNER_NAME] and never invent personal details. Respond as JSON: {\"executive_summary\": \"...\"}."
	user := fmt.Sprintf(
		"Write a 3-4 sentence executive summary.\nOverall: %.1f of 10 (%s)\nIndustry: %s\n"+
			"Exit timeline: %s\nPrimary focus area: %s\nUrgency: %s",
		sc.Overall, sc.Tier, rc.Industry, rc.ExitTimeline, sc.Focus.Primary.Key, sc.Focus.Urgency)

	res := e.coercer.Request(ctx, system, user, []string{"executive_summary"})
	if res.Err == nil {
		if s, ok := res.Payload["executive_summary"].(string); ok && s != "" {
			return s
		}
	} else {
		rc.Warn("executive summary generation failed: %s", res.Err.Reason)
	}
	return fmt.Sprintf(
		"[OWNER_NAME], your business scores %.1f out of 10 for exit readiness, placing it in the %q band. "+
			"The assessment below breaks the result down by category, with %s flagged as the area where "+
			"improvement would add the most value given your %s exit timeline.",
		sc.Overall, sc.Tier, strings.ReplaceAll(sc.Focus.Primary.Key, "_", " "), rc.ExitTimeline)
}

func (e *Engine) categorySummaries(ctx context.Context, rc *RunContext) map[string]string {
	summaries := make(map[string]string, len(rc.Scoring.Categories))
	keys := make([]string, 0, len(rc.Scoring.Categories))
	var lines []string
	for _, cs := range rc.Scoring.Categories {
		keys = append(keys, cs.Category.Key())
		lines = append(lines, fmt.Sprintf("%s: %.1f/10, strengths: %s, gaps: %s",
			cs.Category.Key(), cs.Score, strings.Join(cs.Strengths, "; "), strings.Join(cs.Gaps, "; ")))
	}

	system := "You are an exit-readiness advisor. Write a 2-sentence plain-language summary per category. " +
		"Respond as JSON with one string field per category key."
	res := e.coercer.Request(ctx, system, strings.Join(lines, "\n"), keys)
	if res.Err != nil {
		rc.Warn("category summary generation failed: %s", res.Err.Reason)
	}

	for _, cs := range rc.Scoring.Categories {
		key := cs.Category.Key()
		if res.Err == nil {
			if s, ok := res.Payload[key].(string); ok && s != "" {
				summaries[key] = s
				continue
			}
		}
		summaries[key] = templateCategorySummary(cs)
	}
	return summaries
}

func templateCategorySummary(cs scoring.CategoryScore) string {
	return fmt.Sprintf("%s scored %.1f out of 10. Strongest signal: %s. Biggest gap: %s.",
		cs.Category, cs.Score, cs.Strengths[0], cs.Gaps[0])
}

func (e *Engine) recommendations(ctx context.Context, rc *RunContext) (recs, steps []string) {
	sc := rc.Scoring
	system := "You are an exit-readiness advisor. Produce concrete, owner-actionable guidance. " +
		"Respond as JSON: {\"recommendations\": [...], \"next_steps\": [...]} with 3-5 strings each."
	user := fmt.Sprintf(
		"Industry: %s\nExit timeline: %s\nPrimary focus: %s (%.1f/10, gaps: %s)\n"+
			"Secondary focus: %s (%.1f/10)\nResearch strategies: %s",
		rc.Industry, rc.ExitTimeline,
		sc.Focus.Primary.Key, sc.Focus.Primary.Score, strings.Join(sc.Focus.Primary.Gaps, "; "),
		sc.Focus.Secondary.Key, sc.Focus.Secondary.Score,
		strings.Join(rc.Research.Strategies, "; "))

	res := e.coercer.Request(ctx, system, user, []string{"recommendations", "next_steps"})
	if res.Err == nil {
		recs = stringList(res.Payload["recommendations"])
		steps = stringList(res.Payload["next_steps"])
	} else {
		rc.Warn("recommendation generation failed: %s", res.Err.Reason)
	}
	if len(recs) == 0 {
		recs = defaultRecommendations(rc)
	}
	if len(steps) == 0 {
		steps = []string{
			"Review the category breakdown with your accountant or advisor",
			fmt.Sprintf("Start with the %s gaps listed above", strings.ReplaceAll(sc.Focus.Primary.Key, "_", " ")),
			"Re-run this assessment in 90 days to measure progress",
		}
	}
	return recs, steps
}

func defaultRecommendations(rc *RunContext) []string {
	if len(rc.Research.Strategies) > 0 {
		return rc.Research.Strategies
	}
	return []string{
		"Document core processes so the business runs without you",
		"Reduce dependence on your largest customer",
		"Move financial records to a clean, reviewable standard",
	}
}
