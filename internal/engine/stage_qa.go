package engine

import (
	"context"
	"fmt"
	"strings"

	"exitready/internal/llm"
	"exitready/internal/report"
	"exitready/internal/research"
)

// qaThreshold is the aggregate check score the draft must clear. Below it
// the stage runs one targeted repair pass before giving up on polish.
const qaThreshold = 7.0

// runQA applies the quality gates to the draft report: redundancy, tone
// consistency, outcome-framing and citation verification. A failing
// aggregate triggers a targeted repair, then a final polish pass. Check
// failures degrade to pass-with-warning; this stage refuses only a missing
// upstream slot.
func (e *Engine) runQA(ctx context.Context, rc *RunContext) error {
	if rc.Summary == nil {
		return stageErrf(KindMissingContext, "summary result not populated")
	}

	draft := rc.Summary.Draft
	checks := []report.QACheck{
		e.llmCheck(ctx, rc, "redundancy", draft,
			"Find sections that repeat the same point. Score 10 means no redundancy."),
		e.llmCheck(ctx, rc, "tone_consistency", draft,
			"Check the report keeps one consistent advisory tone throughout. Score 10 means fully consistent."),
		e.llmCheck(ctx, rc, "outcome_framing", draft,
			"Find language promising specific outcomes (guaranteed sale price, certain multiples). "+
				"Advisors frame likelihoods, never promises. Score 10 means no promise language."),
		verifyCitations(rc, draft),
	}

	qa := report.QAReport{Checks: checks, Score: aggregateScore(checks)}

	if qa.Score < qaThreshold {
		if repaired, ok := e.repairDraft(ctx, rc, draft, checks); ok {
			draft = repaired
			qa.Repaired = true
		}
	}
	draft = e.polish(ctx, rc, draft)

	qa.Approved = qa.Score >= qaThreshold || qa.Repaired
	qa.ReadyForDelivery = qa.Approved
	rc.QA = &QAResult{Report: qa, FinalDraft: draft}
	rc.Status("qa complete: score %.1f, approved=%t", qa.Score, qa.Approved)
	return nil
}

// llmCheck runs one generated quality gate. Coercion failure degrades to a
// passing score with a warning; a QA check must never block a run that
// scored and summarized cleanly.
func (e *Engine) llmCheck(ctx context.Context, rc *RunContext, name, draft, instruction string) report.QACheck {
	system := "You are a report quality reviewer. " + instruction +
		" Respond as JSON: {\"score\": <0-10>, \"issues\": [\"...\"]}."

	res := e.coercer.Request(ctx, system, draft, []string{"score"})
	if res.Err != nil {
		rc.Warn("qa check %s failed, assuming pass: %s", name, res.Err.Reason)
		return report.QACheck{Name: name, Score: 8.0}
	}

	check := report.QACheck{Name: name, Score: 8.0}
	if score, ok := res.Payload["score"].(float64); ok {
		check.Score = clampScore(score)
	}
	check.Issues = stringList(res.Payload["issues"])
	return check
}

// verifyCitations is the one deterministic gate: a report built on live
// research must carry its sources section; fallback-sourced reports must
// say so.
func verifyCitations(rc *RunContext, draft string) report.QACheck {
	check := report.QACheck{Name: "citation_verification", Score: 10.0}
	if rc.Research.Source == research.SourceLive {
		if !strings.Contains(draft, "## Sources") {
			check.Score = 4.0
			check.Issues = append(check.Issues, "live research used but no sources section present")
		}
		for _, c := range rc.Research.Citations {
			if !strings.Contains(draft, c) {
				check.Score -= 1.0
				check.Issues = append(check.Issues, fmt.Sprintf("citation missing from report: %s", c))
			}
		}
		check.Score = clampScore(check.Score)
		return check
	}
	if !strings.Contains(draft, "fallback") {
		check.Score = 8.0
		check.Issues = append(check.Issues, "fallback benchmarks not disclosed in report")
	}
	return check
}

// repairDraft asks the backend to rewrite the draft addressing the issues
// the checks raised. Returns ok=false when the repair itself fails.
func (e *Engine) repairDraft(ctx context.Context, rc *RunContext, draft string, checks []report.QACheck) (string, bool) {
	var issues []string
	for _, check := range checks {
		issues = append(issues, check.Issues...)
	}
	if len(issues) == 0 {
		return draft, false
	}

	system := "You are a report editor. Rewrite the Markdown report to resolve the listed issues. " +
		"Keep every score, placeholder token (like [OWNER_NAME]) and section heading intact. " +
		"Respond as JSON: {\"revised_report\": \"...\"}."
	user := "Issues:\n- " + strings.Join(issues, "\n- ") + "\n\nReport:\n" + draft

	res := e.coercer.Request(ctx, system, user, []string{"revised_report"})
	if res.Err != nil {
		rc.Warn("qa repair failed, keeping original draft: %s", res.Err.Reason)
		return draft, false
	}
	revised, ok := res.Payload["revised_report"].(string)
	if !ok || strings.TrimSpace(revised) == "" {
		return draft, false
	}
	rc.Status("qa repair applied for %d issues", len(issues))
	return revised, true
}

// polish runs one free-text pass for flow and wording. Any failure keeps
// the current draft.
func (e *Engine) polish(ctx context.Context, rc *RunContext, draft string) string {
	text, err := e.coercer.Generate(ctx, llm.Request{
		System: "Polish the wording of this Markdown report for flow and clarity. Do not change scores, " +
			"structure, headings or placeholder tokens like [OWNER_NAME]. Return only the polished Markdown.",
		Messages: []llm.Message{{Role: "user", Content: draft}},
		Mode:     llm.ModeText,
	})
	if err != nil {
		rc.Warn("final polish skipped: %v", err)
		return draft
	}
	// A polish that drops placeholders or large sections is worse than no
	// polish.
	if !strings.Contains(text, "[OWNER_NAME]") || len(text) < len(draft)/2 {
		rc.Warn("final polish discarded: structure not preserved")
		return draft
	}
	return text
}

func aggregateScore(checks []report.QACheck) float64 {
	if len(checks) == 0 {
		return 0
	}
	var sum float64
	for _, check := range checks {
		sum += check.Score
	}
	return sum / float64(len(checks))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
