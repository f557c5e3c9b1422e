// Package crmlog records submission contacts and anonymized questionnaire
// responses for the sales side of the business. Both logs are fire-and
// forget: Intake reports failures as warnings and the run continues.
package crmlog

import (
	"context"
	"time"
)

// Contact is the CRM-facing view of a submission. It carries real PII and
// must never be written through the anonymized response log.
type Contact struct {
	RunID        string
	Name         string
	Email        string
	Industry     string
	Location     string
	ExitTimeline string
	RevenueRange string
	SubmittedAt  time.Time
}

// Logger is the pair of intake-side logs.
type Logger interface {
	// LogContact appends one contact record to the CRM log.
	LogContact(ctx context.Context, c Contact) error
	// LogResponses appends the anonymized q1..q10 answers for a run. Answers
	// must already be redacted; this log may leave the machine.
	LogResponses(ctx context.Context, runID, industry string, responses map[string]string) error
}

// Noop discards everything. Default when no log paths are configured.
type Noop struct{}

func (Noop) LogContact(context.Context, Contact) error { return nil }
func (Noop) LogResponses(context.Context, string, string, map[string]string) error {
	return nil
}
