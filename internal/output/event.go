package output

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - stage.started
// - stage.finished
// - run.finished
//
// JSON mode remains an aggregate of report.Assessment values.
type Event struct {
	Type      string  `json:"type"`
	RunID     string  `json:"run_id,omitempty"`
	Stage     string  `json:"stage,omitempty"`
	ElapsedMS int64   `json:"elapsed_ms,omitempty"`
	Error     string  `json:"error,omitempty"`
	Tier      string  `json:"tier,omitempty"`
	Score     float64 `json:"score,omitempty"`
	ExitCode  int     `json:"exit_code,omitempty"`
}
