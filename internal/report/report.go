// Package report defines the final assessment document assembled by the
// Finalize stage. It is the value that flows through output sinks, so it
// lives below both the engine and the output packages.
package report

import (
	"time"

	"exitready/internal/scoring"
)

// Assessment is the complete, personalized result of one run.
type Assessment struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Industry    string    `json:"industry"`
	Region      string    `json:"region"`
	Locale      string    `json:"locale"`

	// DataSource marks whether benchmarks came from live research or the
	// built-in fallback payload.
	DataSource string `json:"data_source"`

	OverallScore float64                 `json:"overall_score"`
	Tier         string                  `json:"readiness_tier"`
	Categories   []scoring.CategoryScore `json:"categories"`
	FocusAreas   scoring.FocusAreas      `json:"focus_areas"`

	Summary Summary  `json:"summary"`
	QA      QAReport `json:"qa"`

	// Markdown is the rendered, re-personalized report document.
	Markdown string `json:"-"`

	// Warnings carries non-fatal issues surfaced during the run (CRM log
	// failures, coercion fallbacks) for the operator, not the report reader.
	Warnings []string `json:"warnings,omitempty"`
}

// Summary is the narrative layer over the mechanical scores.
type Summary struct {
	Executive         string            `json:"executive"`
	CategorySummaries map[string]string `json:"category_summaries"`
	Recommendations   []string          `json:"recommendations"`
	NextSteps         []string          `json:"next_steps"`
}

// QACheck is one quality gate applied to the drafted report.
type QACheck struct {
	Name   string   `json:"name"`
	Score  float64  `json:"score"`
	Issues []string `json:"issues,omitempty"`
}

// QAReport aggregates the quality gates. Approved means the aggregate score
// cleared the threshold, possibly after a targeted repair pass.
type QAReport struct {
	Score            float64   `json:"score"`
	Checks           []QACheck `json:"checks"`
	Repaired         bool      `json:"repaired"`
	Approved         bool      `json:"approved"`
	ReadyForDelivery bool      `json:"ready_for_delivery"`
}
