package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"exitready/internal/report"
)

// ConsoleSink renders run progress and final assessments to a terminal.
type ConsoleSink struct {
	writer      io.Writer
	format      string // "text", "json", "ndjson"
	mu          sync.Mutex
	assessments []report.Assessment // for JSON array output
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{writer: w, format: format}
}

func (s *ConsoleSink) Write(v any) error {
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
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case report.Assessment:
			e := Event{Type: "run.result", RunID: t.RunID, Tier: t.Tier, Score: t.OverallScore}
			if err := encoder.Encode(e); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		return s.writeText(v)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(v any) error {
	switch t := v.(type) {
	case Event:
		if t.Type == "stage.finished" && t.Error != "" {
			if _, err := fmt.Fprintf(s.writer, "  %s %s: %s\n", color.RedString("FAIL"), t.Stage, t.Error); err != nil {
				return err
			}
		}
		return flushIfPossible(s.writer)
	case report.Assessment:
		if _, err := fmt.Fprintf(s.writer, "%s  score %.1f  %s\n",
			t.RunID, t.OverallScore, tierColor(t.Tier)); err != nil {
			return err
		}
		for _, cs := range t.Categories {
			if _, err := fmt.Fprintf(s.writer, "  %-24s %4.1f\n", cs.Category.String(), cs.Score); err != nil {
				return err
			}
		}
		if t.FocusAreas.Primary.Key != "" {
			if _, err := fmt.Fprintf(s.writer, "  focus: %s (%s urgency)\n",
				t.FocusAreas.Primary.Key, t.FocusAreas.Urgency); err != nil {
				return err
			}
		}
		for _, w := range t.Warnings {
			if _, err := fmt.Fprintf(s.writer, "  %s %s\n", color.YellowString("warning:"), w); err != nil {
				return err
			}
		}
		return flushIfPossible(s.writer)
	default:
		return nil
	}
}

// flushIfPossible pushes buffered console output through writers that
// expose a Flush method (bufio, test buffers); plain writers are a no-op.
func flushIfPossible(w io.Writer) error {
	f, ok := w.(interface{ Flush() error })
	if !ok {
		return nil
	}
	return f.Flush()
}

func tierColor(tier string) string {
	switch tier {
	case "Exit Ready":
		return color.GreenString(tier)
	case "Approaching Ready":
		return color.CyanString(tier)
	case "Needs Work":
		return color.YellowString(tier)
	default:
		return color.RedString(tier)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.assessments); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
