// Package engine runs the six-stage assessment pipeline: Intake, Research,
// Scoring, Summary, QA, Finalize. Stages run strictly in sequence; the run
// halts on the first fatal stage error and the engine always returns a
// RunContext, never a panic.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"exitready/internal/coerce"
	"exitready/internal/crmlog"
	"exitready/internal/forms"
	"exitready/internal/output"
	"exitready/internal/pii"
	"exitready/internal/research"
)

// Stage names, in execution order.
const (
	StageIntake   = "intake"
	StageResearch = "research"
	StageScoring  = "scoring"
	StageSummary  = "summary"
	StageQA       = "qa"
	StageFinalize = "finalize"
)

type stageFunc func(ctx context.Context, rc *RunContext) error

type stage struct {
	name string
	run  stageFunc
}

// Deps are the engine's injected collaborators. Coercer, PIIStore and Out
// are required; the rest default to inert implementations.
type Deps struct {
	Coercer  *coerce.Coercer
	Search   research.Client
	PIIStore pii.Store
	CRM      crmlog.Logger
	Out      *output.Manager
	Log      *zap.Logger

	// SkipResearch bypasses the search collaborator entirely and uses the
	// fallback payload.
	SkipResearch bool

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

type Engine struct {
	coercer      *coerce.Coercer
	search       research.Client
	piiStore     pii.Store
	crm          crmlog.Logger
	out          *output.Manager
	log          *zap.Logger
	skipResearch bool
	now          func() time.Time
	stages       []stage
}

func New(deps Deps) (*Engine, error) {
	if deps.Coercer == nil {
		return nil, fmt.Errorf("engine: coercer is required")
	}
	if deps.PIIStore == nil {
		return nil, fmt.Errorf("engine: PII store is required")
	}
	if deps.Out == nil {
		return nil, fmt.Errorf("engine: output manager is required")
	}
	if deps.CRM == nil {
		deps.CRM = crmlog.Noop{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	e := &Engine{
		coercer:      deps.Coercer,
		search:       deps.Search,
		piiStore:     deps.PIIStore,
		crm:          deps.CRM,
		out:          deps.Out,
		log:          deps.Log,
		skipResearch: deps.SkipResearch,
		now:          deps.Now,
	}
	e.stages = []stage{
		{StageIntake, e.runIntake},
		{StageResearch, e.runResearch},
		{StageScoring, e.runScoring},
		{StageSummary, e.runSummary},
		{StageQA, e.runQA},
		{StageFinalize, e.runFinalize},
	}
	return e, nil
}

// Run executes the pipeline for one submission. It always returns a
// context; callers must check Err before reading Final.
func (e *Engine) Run(ctx context.Context, sub *forms.Submission) *RunContext {
	rc := NewRunContext(sub, e.now())
	log := e.log.With(zap.String("run_id", rc.RunID))

	_ = e.out.Write(output.Event{Type: "run.started", RunID: rc.RunID})
	log.Info("run started", zap.String("industry", rc.Industry), zap.String("region", rc.Region))

	for _, st := range e.stages {
		if err := ctx.Err(); err != nil {
			// Name the stage the run stopped short of, not the one that
			// already finished.
			rc.Err = &StageError{Stage: st.name, Kind: KindCollaborator, Err: err}
			break
		}

		rc.CurrentStage = st.name
		_ = e.out.Write(output.Event{Type: "stage.started", RunID: rc.RunID, Stage: st.name})
		log.Debug("stage started", zap.String("stage", st.name))

		start := e.now()
		err := e.guarded(ctx, st, rc)
		elapsed := e.now().Sub(start)
		rc.Timings[st.name] = elapsed

		event := output.Event{
			Type:      "stage.finished",
			RunID:     rc.RunID,
			Stage:     st.name,
			ElapsedMS: elapsed.Milliseconds(),
		}
		if err != nil {
			rc.Err = toStageError(st.name, err)
			event.Error = rc.Err.Error()
			_ = e.out.Write(event)
			log.Error("stage failed", zap.String("stage", st.name), zap.Error(rc.Err))
			break
		}
		_ = e.out.Write(event)
		log.Debug("stage finished", zap.String("stage", st.name), zap.Duration("elapsed", elapsed))
	}

	exitCode := 0
	if rc.Failed() {
		exitCode = 1
	} else if rc.Final != nil {
		_ = e.out.Write(*rc.Final)
	}
	_ = e.out.Write(output.Event{Type: "run.finished", RunID: rc.RunID, ExitCode: exitCode})
	log.Info("run finished",
		zap.Int("exit_code", exitCode),
		zap.Duration("elapsed", e.now().Sub(rc.startedAt)))
	return rc
}

// guarded invokes a stage behind a recover guard so a stage panic becomes a
// StageError instead of unwinding past the engine.
func (e *Engine) guarded(ctx context.Context, st stage, rc *RunContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = stageErrf(KindPanic, "panic: %v", r)
		}
	}()
	return st.run(ctx, rc)
}
