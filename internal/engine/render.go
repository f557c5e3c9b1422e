package engine

import (
	"fmt"
	"strings"

	"exitready/internal/pii"
	"exitready/internal/report"
	"exitready/internal/scoring"
)

// renderDraft produces the anonymized Markdown report. PII placeholders
// ([OWNER_NAME], [REPORT_DATE]) stay in place until Finalize; this text is
// what the QA stage inspects and what may be sent back to the generation
// backend for repair.
func renderDraft(rc *RunContext, sum report.Summary) string {
	sc := rc.Scoring
	var b strings.Builder

	fmt.Fprintf(&b, "# Exit Readiness Assessment\n\n")
	fmt.Fprintf(&b, "Prepared for %s on %s\n\n", pii.PlaceholderName, pii.PlaceholderDate)
	fmt.Fprintf(&b, "**Overall score: %.1f / 10 — %s**\n\n", sc.Overall, sc.Tier)

	fmt.Fprintf(&b, "## Executive Summary\n\n%s\n\n", sum.Executive)

	fmt.Fprintf(&b, "## Category Breakdown\n\n")
	for _, cs := range sc.Categories {
		fmt.Fprintf(&b, "### %s — %.1f / 10\n\n", cs.Category, cs.Score)
		if s := sum.CategorySummaries[cs.Category.Key()]; s != "" {
			fmt.Fprintf(&b, "%s\n\n", s)
		}
		if cs.Insight != "" {
			fmt.Fprintf(&b, "%s\n\n", cs.Insight)
		}
		writeList(&b, "Strengths", cs.Strengths)
		writeList(&b, "Gaps", cs.Gaps)
		if cs.Context.Benchmark != "" {
			fmt.Fprintf(&b, "*Benchmark: %s*\n\n", cs.Context.Benchmark)
		}
	}

	fmt.Fprintf(&b, "## Where to Focus\n\n")
	writeFocus(&b, "Primary", sc.Focus.Primary)
	writeFocus(&b, "Secondary", sc.Focus.Secondary)
	fmt.Fprintf(&b, "Urgency given your stated exit timeline: **%s**\n\n", sc.Focus.Urgency)

	writeList(&b, "Recommendations", sum.Recommendations)
	writeList(&b, "Next Steps", sum.NextSteps)

	if len(rc.Research.Citations) > 0 {
		fmt.Fprintf(&b, "## Sources\n\n")
		for _, c := range rc.Research.Citations {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "*Benchmarks drawn from %s.*\n", sc.Metadata.ResearchQuality)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	fmt.Fprintf(b, "\n")
}

func writeFocus(b *strings.Builder, label string, fa scoring.FocusArea) {
	if fa.Key == "" {
		return
	}
	fmt.Fprintf(b, "**%s: %s** (%.1f/10) — %s\n\n",
		label, strings.ReplaceAll(fa.Key, "_", " "), fa.Score, fa.Impact)
}
