package engine

import (
	"errors"
	"fmt"
)

// Stage failure kinds.
const (
	// KindValidation: missing or malformed required input. Fatal at Intake.
	KindValidation = "validation"

	// KindCollaborator: a backend or store was unreachable or broken beyond
	// its documented fallback.
	KindCollaborator = "collaborator"

	// KindStructuredOutput: every coercion retry exhausted on a field with
	// no safe default.
	KindStructuredOutput = "structured_output"

	// KindMissingContext: a downstream stage found an upstream result slot
	// empty. Indicates an orchestration bug, always fatal.
	KindMissingContext = "missing_context"

	// KindPanic: a stage panicked; the orchestrator's recover guard converts
	// it so the engine never panics past its boundary.
	KindPanic = "panic"
)

// StageError names the failing stage and why. The orchestrator sets it on
// the RunContext and invokes no further stage.
type StageError struct {
	Stage string
	Kind  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(kind string, err error) error {
	return &kindError{kind: kind, err: err}
}

func stageErrf(kind, format string, args ...any) error {
	return &kindError{kind: kind, err: fmt.Errorf(format, args...)}
}

// kindError carries the failure kind from a stage function to the runner,
// which knows the stage name and builds the StageError.
type kindError struct {
	kind string
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

func toStageError(stage string, err error) *StageError {
	var ke *kindError
	if errors.As(err, &ke) {
		return &StageError{Stage: stage, Kind: ke.kind, Err: ke.err}
	}
	return &StageError{Stage: stage, Kind: KindCollaborator, Err: err}
}
