package crmlog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// CSVLogger appends to two CSV files, one per log. Rows are flushed per
// write so a crash loses at most the in-flight row. A single mutex covers
// both files; intake volume makes contention irrelevant.
type CSVLogger struct {
	mu            sync.Mutex
	contactPath   string
	responsesPath string
}

func NewCSVLogger(contactPath, responsesPath string) *CSVLogger {
	return &CSVLogger{contactPath: contactPath, responsesPath: responsesPath}
}

func (l *CSVLogger) LogContact(_ context.Context, c Contact) error {
	if l.contactPath == "" {
		return nil
	}
	submitted := c.SubmittedAt
	if submitted.IsZero() {
		submitted = time.Now()
	}
	row := []string{
		submitted.UTC().Format(time.RFC3339),
		c.RunID, c.Name, c.Email, c.Industry, c.Location, c.ExitTimeline, c.RevenueRange,
	}
	return l.append(l.contactPath, row)
}

func (l *CSVLogger) LogResponses(_ context.Context, runID, industry string, responses map[string]string) error {
	if l.responsesPath == "" {
		return nil
	}
	row := []string{time.Now().UTC().Format(time.RFC3339), runID, industry}
	ids := make([]string, 0, len(responses))
	for id := range responses {
		ids = append(ids, id)
	}
	// Length-first sort keeps q10 after q9.
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		row = append(row, responses[id])
	}
	return l.append(l.responsesPath, row)
}

func (l *CSVLogger) append(path string, row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("crm log: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("crm log: write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("crm log: flush %s: %w", path, err)
	}
	return nil
}
