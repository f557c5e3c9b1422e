package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"exitready/internal/report"
)

// FileSink writes structured results to a single file: a JSON array of
// assessments, or an NDJSON stream of lifecycle events and results.
type FileSink struct {
	path        string
	format      string
	file        *os.File
	mu          sync.Mutex
	assessments []report.Assessment
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	// Infer format if not provided
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".json":
			format = "json"
		case ".ndjson", ".jsonl":
			format = "ndjson"
		default:
			return nil, fmt.Errorf("cannot infer output format from file extension %q", ext)
		}
	}

	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &FileSink{path: path, format: format, file: f}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		a, ok := v.(report.Assessment)
		if !ok {
			// Ignore lifecycle events in JSON aggregate mode.
			return nil
		}
		s.assessments = append(s.assessments, a)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.file)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case report.Assessment:
			return encoder.Encode(Event{Type: "run.result", RunID: t.RunID, Tier: t.Tier, Score: t.OverallScore})
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported output format: %s", s.format)
	}
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.assessments); err != nil {
			_ = s.file.Close()
			return err
		}
	}
	return s.file.Close()
}
