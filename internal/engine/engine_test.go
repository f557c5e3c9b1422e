package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"exitready/internal/coerce"
	"exitready/internal/forms"
	"exitready/internal/llm"
	"exitready/internal/output"
	"exitready/internal/pii"
	"exitready/internal/report"
	"exitready/internal/research"

	_ "exitready/internal/scoring/scorers"
)

// emptyObjectLLM always returns an empty object: every coercion call fails
// on missing keys and every stage exercises its fallback path.
type emptyObjectLLM struct{}

func (emptyObjectLLM) Generate(context.Context, llm.Request) (string, error) {
	return "{}", nil
}

// captureSink records everything written through the output manager.
type captureSink struct {
	mu     sync.Mutex
	values []any
}

func (s *captureSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
	return nil
}

func (s *captureSink) Close() error { return nil }

func (s *captureSink) events(typ string) []output.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []output.Event
	for _, v := range s.values {
		if e, ok := v.(output.Event); ok && e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func validSubmission() *forms.Submission {
	return &forms.Submission{
		RunID:        "run-test",
		Name:         "Pat Smith",
		Email:        "pat@example.com",
		Industry:     "Technology",
		YearsInBiz:   "10-20 years",
		AgeRange:     "45-54",
		ExitTimeline: "1-2 years",
		Location:     "United Kingdom",
		Responses: forms.Responses{
			"q1":  "My team handles day to day operations, I delegate",
			"q2":  "More than a month",
			"q3":  "Subscriptions, consulting, training and support contracts",
			"q4":  "Less than 10%",
			"q5":  "9",
			"q6":  "Growing steadily",
			"q7":  "Knowledge is distributed across the team",
			"q8":  "9",
			"q9":  "We have a proprietary platform and recurring contracts",
			"q10": "8",
		},
	}
}

func newTestEngine(t *testing.T, deps Deps) (*Engine, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	mgr := output.NewManager()
	if err := mgr.AddSink(sink); err != nil {
		t.Fatal(err)
	}
	if deps.Coercer == nil {
		deps.Coercer = coerce.New(emptyObjectLLM{}, 0)
	}
	if deps.PIIStore == nil {
		deps.PIIStore = pii.NewMemoryStore()
	}
	deps.Out = mgr
	deps.SkipResearch = true

	eng, err := New(deps)
	if err != nil {
		t.Fatal(err)
	}
	return eng, sink
}

func TestRunCompletes(t *testing.T) {
	eng, sink := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), validSubmission())

	if rc.Failed() {
		t.Fatalf("run failed: %v", rc.Err)
	}
	if rc.Final == nil {
		t.Fatal("no final assessment")
	}
	for _, name := range []string{StageIntake, StageResearch, StageScoring, StageSummary, StageQA, StageFinalize} {
		if _, ok := rc.Timings[name]; !ok {
			t.Errorf("no timing recorded for stage %s", name)
		}
	}
	if rc.CurrentStage != StageFinalize {
		t.Errorf("current stage = %q, want finalize", rc.CurrentStage)
	}
	if rc.Final.DataSource != research.SourceFallback {
		t.Errorf("data source = %q, want fallback", rc.Final.DataSource)
	}
	if rc.Final.Locale != "uk" {
		t.Errorf("locale = %q, want uk", rc.Final.Locale)
	}
	if rc.Final.Tier == "" || rc.Final.OverallScore < 1.0 {
		t.Errorf("assessment incomplete: %.1f %q", rc.Final.OverallScore, rc.Final.Tier)
	}

	// The report must be re-personalized: owner name present, no leftover
	// placeholder tokens.
	if !strings.Contains(rc.Final.Markdown, "Pat Smith") {
		t.Error("report not personalized")
	}
	if strings.Contains(rc.Final.Markdown, "[OWNER_NAME]") || strings.Contains(rc.Final.Markdown, "[REPORT_DATE]") {
		t.Error("report still carries placeholders")
	}

	if got := len(sink.events("stage.finished")); got != 6 {
		t.Errorf("stage.finished events = %d, want 6", got)
	}
	finished := sink.events("run.finished")
	if len(finished) != 1 || finished[0].ExitCode != 0 {
		t.Errorf("run.finished = %+v", finished)
	}
}

func TestRunFallbackResearchFullyPopulated(t *testing.T) {
	eng, _ := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), validSubmission())

	res := rc.Research
	if res == nil {
		t.Fatal("research slot empty")
	}
	b := res.Benchmarks
	if b.OwnerIndependenceDays == 0 || b.CustomerConcentrationPct == 0 || b.RecurringRevenuePct == 0 {
		t.Errorf("fallback benchmarks missing fields: %+v", b)
	}
	if b.ConcentrationDiscount == "" || b.RecurringPremium == "" || b.ExpectedMarginRange == "" {
		t.Errorf("fallback benchmark texts missing: %+v", b)
	}
	// Technology carries a per-industry override in the fallback table.
	if b.OwnerIndependenceDays != 30 {
		t.Errorf("owner independence days = %d, want Technology override 30", b.OwnerIndependenceDays)
	}
	if len(res.Citations) == 0 || len(res.Strategies) == 0 {
		t.Error("fallback citations/strategies missing")
	}
}

func TestRunValidationHalts(t *testing.T) {
	sub := validSubmission()
	sub.Email = ""
	delete(sub.Responses, "q5")

	eng, sink := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), sub)

	if !rc.Failed() {
		t.Fatal("invalid submission did not fail the run")
	}
	if rc.Err.Stage != StageIntake || rc.Err.Kind != KindValidation {
		t.Errorf("error = %+v, want intake/validation", rc.Err)
	}
	if rc.CurrentStage != StageIntake {
		t.Errorf("current stage = %q, want intake", rc.CurrentStage)
	}
	if rc.Research != nil || rc.Scoring != nil || rc.Summary != nil || rc.QA != nil || rc.Final != nil {
		t.Error("downstream slots populated after a fatal intake error")
	}
	if len(rc.Timings) != 1 {
		t.Errorf("timings = %v, want intake only", rc.Timings)
	}
	finished := sink.events("run.finished")
	if len(finished) != 1 || finished[0].ExitCode != 1 {
		t.Errorf("run.finished = %+v", finished)
	}
}

// forgetfulStore accepts writes and remembers nothing, simulating a mapping
// lost between Intake and Finalize.
type forgetfulStore struct{}

func (forgetfulStore) Put(string, pii.Mapping) error         { return nil }
func (forgetfulStore) Get(string) (pii.Mapping, bool, error) { return nil, false, nil }
func (forgetfulStore) Delete(string) error                   { return nil }

func TestRunMissingMappingFatalAtFinalize(t *testing.T) {
	eng, _ := newTestEngine(t, Deps{PIIStore: forgetfulStore{}})
	rc := eng.Run(context.Background(), validSubmission())

	if !rc.Failed() {
		t.Fatal("missing mapping did not fail the run")
	}
	if rc.Err.Stage != StageFinalize || rc.Err.Kind != KindMissingContext {
		t.Errorf("error = %+v, want finalize/missing_context", rc.Err)
	}
	if rc.Final != nil {
		t.Error("final slot populated despite failure")
	}
	// Everything before finalize completed.
	if rc.QA == nil || rc.Summary == nil {
		t.Error("upstream slots should be populated")
	}
}

func TestGuardConvertsPanic(t *testing.T) {
	eng, _ := newTestEngine(t, Deps{})
	st := stage{name: "explode", run: func(context.Context, *RunContext) error {
		panic("boom")
	}}
	err := eng.guarded(context.Background(), st, &RunContext{})
	if err == nil {
		t.Fatal("panic not converted to error")
	}
	se := toStageError("explode", err)
	if se.Kind != KindPanic || !strings.Contains(se.Error(), "boom") {
		t.Errorf("stage error = %+v", se)
	}
}

func TestRunAnonymizesBeforeScoring(t *testing.T) {
	sub := validSubmission()
	sub.Responses["q1"] = "Pat Smith handles sales personally, contact pat@example.com"

	eng, _ := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), sub)
	if rc.Failed() {
		t.Fatalf("run failed: %v", rc.Err)
	}

	anon := rc.Intake.Anonymized.Responses.Get("q1")
	if strings.Contains(anon, "Pat Smith") || strings.Contains(anon, "pat@example.com") {
		t.Errorf("anonymized answer leaks PII: %s", anon)
	}
	// The original submission snapshot stays untouched.
	if !strings.Contains(rc.Submission.Responses.Get("q1"), "Pat Smith") {
		t.Error("input snapshot was mutated")
	}
}

func TestRunWarningsCarried(t *testing.T) {
	sub := validSubmission()
	sub.Email = "not-an-email-but-present"

	eng, _ := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), sub)
	if rc.Failed() {
		t.Fatalf("run failed: %v", rc.Err)
	}
	found := false
	for _, w := range rc.Final.Warnings {
		if strings.Contains(w, "does not look deliverable") {
			found = true
		}
	}
	if !found {
		t.Errorf("email warning not carried into assessment: %v", rc.Final.Warnings)
	}
}

func TestAssessmentWrittenToSinks(t *testing.T) {
	eng, sink := newTestEngine(t, Deps{})
	rc := eng.Run(context.Background(), validSubmission())
	if rc.Failed() {
		t.Fatalf("run failed: %v", rc.Err)
	}

	found := false
	for _, v := range sink.values {
		if a, ok := v.(report.Assessment); ok && a.RunID == rc.RunID {
			found = true
		}
	}
	if !found {
		t.Error("assessment not written through the output manager")
	}
}

func TestRunCanceledNamesNextStage(t *testing.T) {
	eng, _ := newTestEngine(t, Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := eng.Run(ctx, validSubmission())
	if !rc.Failed() {
		t.Fatal("canceled run should fail")
	}
	if rc.Err.Stage != StageIntake {
		t.Errorf("error stage = %q, want %q (the stage the run stopped short of)", rc.Err.Stage, StageIntake)
	}
	if rc.Err.Kind != KindCollaborator {
		t.Errorf("error kind = %q, want %q", rc.Err.Kind, KindCollaborator)
	}
}
