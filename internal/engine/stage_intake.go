package engine

import (
	"context"
	"fmt"

	"exitready/internal/crmlog"
	"exitready/internal/forms"
	"exitready/internal/pii"
)

// runIntake validates the submission, anonymizes it, stores the PII mapping
// and fires the CRM logs. Validation failure is the only fatal outcome
// besides the mapping store being down.
func (e *Engine) runIntake(ctx context.Context, rc *RunContext) error {
	sub := rc.Submission
	if err := sub.Validate(); err != nil {
		return stageErr(KindValidation, err)
	}

	emailValid := forms.ValidEmail(sub.Email)
	if !emailValid {
		rc.Warn("email %q does not look deliverable", sub.Email)
	}

	anonymized, mapping := anonymize(sub)
	if err := e.piiStore.Put(rc.RunID, mapping); err != nil {
		return stageErr(KindCollaborator, fmt.Errorf("storing PII mapping: %w", err))
	}

	// Fire-and-forget logs: failures are warnings, never run-fatal.
	contact := crmlog.Contact{
		RunID:        rc.RunID,
		Name:         sub.Name,
		Email:        sub.Email,
		Industry:     sub.Industry,
		Location:     sub.Location,
		ExitTimeline: sub.ExitTimeline,
		RevenueRange: sub.RevenueRange,
		SubmittedAt:  e.now(),
	}
	if err := e.crm.LogContact(ctx, contact); err != nil {
		rc.Warn("CRM log failed: %v", err)
	}
	if err := e.crm.LogResponses(ctx, rc.RunID, sub.Industry, anonymized.Responses); err != nil {
		rc.Warn("response log failed: %v", err)
	}

	rc.Intake = &IntakeResult{Anonymized: anonymized, EmailValid: emailValid}
	rc.Status("intake complete: submission validated, %d responses anonymized", len(anonymized.Responses))
	return nil
}

// anonymize deep-copies the submission and replaces PII with placeholders.
// The owner's name and email are redacted as known values; free-text answers
// additionally go through pattern detection for phone numbers, SSNs and
// company names.
func anonymize(sub *forms.Submission) (*forms.Submission, pii.Mapping) {
	mapping := pii.Mapping{}
	clone := sub.Clone()

	clone.Name = pii.PlaceholderName
	mapping[pii.PlaceholderName] = sub.Name
	clone.Email = pii.PlaceholderEmail
	mapping[pii.PlaceholderEmail] = sub.Email

	for id, answer := range clone.Responses {
		answer = pii.RedactKnown(answer, sub.Name, pii.PlaceholderName, mapping)
		answer = pii.Redact(answer, mapping)
		clone.Responses[id] = answer
	}
	return clone, mapping
}
