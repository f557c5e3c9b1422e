package engine

import (
	"fmt"
	"time"

	"exitready/internal/benchmarks"
	"exitready/internal/forms"
	"exitready/internal/report"
	"exitready/internal/scoring"
)

// RunContext is the single mutable object threaded through every stage.
// Each stage writes exactly one result slot; once written, no later stage
// mutates it. Only Finalize reads all slots to assemble the output.
type RunContext struct {
	RunID string

	// Submission is the input snapshot, immutable after Intake validates it.
	Submission *forms.Submission

	// Convenience copies of input fields. Not authoritative; the submission is.
	Industry     string
	Region       string
	RevenueBand  string
	ExitTimeline string
	Locale       string

	// Per-stage result slots.
	Intake   *IntakeResult
	Research *ResearchResult
	Scoring  *ScoringResult
	Summary  *SummaryResult
	QA       *QAResult
	Final    *report.Assessment

	// Execution metadata.
	CurrentStage string
	Err          *StageError
	Timings      map[string]time.Duration
	Log          []string
	Warnings     []string

	startedAt time.Time
}

func NewRunContext(sub *forms.Submission, now time.Time) *RunContext {
	return &RunContext{
		RunID:        sub.RunID,
		Submission:   sub,
		Industry:     sub.Industry,
		Region:       sub.Location,
		RevenueBand:  sub.RevenueRange,
		ExitTimeline: sub.ExitTimeline,
		Locale:       forms.Locale(sub.Location),
		Timings:      make(map[string]time.Duration),
		startedAt:    now,
	}
}

// Status appends one human-readable line to the run log.
func (rc *RunContext) Status(format string, args ...any) {
	rc.Log = append(rc.Log, fmt.Sprintf(format, args...))
}

// Warn records a non-fatal problem. Warnings travel into the final
// assessment for the operator.
func (rc *RunContext) Warn(format string, args ...any) {
	rc.Warnings = append(rc.Warnings, fmt.Sprintf(format, args...))
}

// Failed reports whether a stage has set the fatal error.
func (rc *RunContext) Failed() bool { return rc.Err != nil }

// IntakeResult is written by the Intake stage.
type IntakeResult struct {
	// Anonymized is a deep copy of the submission with PII replaced by
	// placeholders. Every downstream text that leaves the process reads from
	// this copy, never the original.
	Anonymized *forms.Submission
	EmailValid bool
}

// ResearchResult is written by the Research stage.
type ResearchResult struct {
	// Data is the raw research payload, live or fallback.
	Data map[string]any

	Benchmarks         benchmarks.Benchmarks
	DocumentationRigor string

	// Source is research.SourceLive or research.SourceFallback.
	Source     string
	Citations  []string
	Strategies []string
}

// ScoringMetadata summarizes the score set for the report.
type ScoringMetadata struct {
	Highest         scoring.Category
	Lowest          scoring.Category
	ResearchQuality string
}

// ScoringResult is written by the Scoring stage.
type ScoringResult struct {
	Categories []scoring.CategoryScore
	Overall    float64
	Tier       string
	Focus      scoring.FocusAreas
	Metadata   ScoringMetadata
}

// SummaryResult is written by the Summary stage. Draft is the rendered,
// still-anonymized Markdown report the QA stage works on.
type SummaryResult struct {
	Summary report.Summary
	Draft   string
}

// QAResult is written by the QA stage. FinalDraft is the approved (possibly
// repaired and polished) anonymized report text.
type QAResult struct {
	Report     report.QAReport
	FinalDraft string
}
