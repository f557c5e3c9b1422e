package engine

import (
	"context"
	"fmt"

	"exitready/internal/pii"
	"exitready/internal/report"
)

// runFinalize reads every upstream slot, re-personalizes the approved draft
// and assembles the final assessment. A missing PII mapping is fatal: the
// run cannot be personalized without it, and a report full of placeholder
// tokens must never be delivered.
func (e *Engine) runFinalize(ctx context.Context, rc *RunContext) error {
	if rc.Research == nil || rc.Scoring == nil || rc.Summary == nil || rc.QA == nil {
		return stageErrf(KindMissingContext, "upstream result slots not populated")
	}

	mapping, ok, err := e.piiStore.Get(rc.RunID)
	if err != nil {
		return stageErr(KindCollaborator, fmt.Errorf("reading PII mapping: %w", err))
	}
	if !ok {
		return stageErrf(KindMissingContext, "no PII mapping stored for run %s", rc.RunID)
	}

	final, err := pii.Reinsert(rc.QA.FinalDraft, mapping, e.now())
	if err != nil {
		return stageErr(KindMissingContext, err)
	}

	// The mapping's purpose is served; keep PII lifetime as short as the run.
	if err := e.piiStore.Delete(rc.RunID); err != nil {
		rc.Warn("could not delete PII mapping: %v", err)
	}

	rc.Final = &report.Assessment{
		RunID:        rc.RunID,
		GeneratedAt:  e.now(),
		Industry:     rc.Industry,
		Region:       rc.Region,
		Locale:       rc.Locale,
		DataSource:   rc.Research.Source,
		OverallScore: rc.Scoring.Overall,
		Tier:         rc.Scoring.Tier,
		Categories:   rc.Scoring.Categories,
		FocusAreas:   rc.Scoring.Focus,
		Summary:      rc.Summary.Summary,
		QA:           rc.QA.Report,
		Markdown:     final,
		Warnings:     rc.Warnings,
	}
	rc.Status("finalize complete: report personalized and assembled")
	return nil
}
