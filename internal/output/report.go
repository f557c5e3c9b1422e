package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"exitready/internal/report"
)

// ReportSink writes each assessment's rendered Markdown report to
// <dir>/<runID>.md. Lifecycle events are ignored; only completed runs have
// a report worth writing.
type ReportSink struct {
	dir     string
	mu      sync.Mutex
	written int
}

func NewReportSink(dir string) (*ReportSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("report directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &ReportSink{dir: dir}, nil
}

func (s *ReportSink) Write(v any) error {
	a, ok := v.(report.Assessment)
	if !ok {
		return nil
	}
	if a.Markdown == "" {
		return fmt.Errorf("assessment %s has no rendered report", a.RunID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, a.RunID+".md")
	if err := os.WriteFile(path, []byte(a.Markdown), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	s.written++
	return nil
}

func (s *ReportSink) Close() error { return nil }

// Written reports how many report files this sink has produced.
func (s *ReportSink) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}
