package crmlog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestLogContactAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	l := NewCSVLogger(path, "")

	submitted := time.Date(2026, time.August, 25, 10, 0, 0, 0, time.UTC)
	contacts := []Contact{
		{RunID: "run-1", Name: "Pat Smith", Email: "pat@example.com", Industry: "Technology",
			Location: "United Kingdom", ExitTimeline: "1-2 years", SubmittedAt: submitted},
		{RunID: "run-2", Name: "Sam Jones", Email: "sam@example.com", Industry: "Retail",
			Location: "United States", ExitTimeline: "3-5 years", RevenueRange: "$1M-$5M", SubmittedAt: submitted},
	}
	for _, c := range contacts {
		if err := l.LogContact(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}

	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][1] != "run-1" || rows[0][2] != "Pat Smith" || rows[0][3] != "pat@example.com" {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[0][0] != "2026-08-25T10:00:00Z" {
		t.Errorf("timestamp = %q", rows[0][0])
	}
	if rows[1][7] != "$1M-$5M" {
		t.Errorf("revenue range = %q", rows[1][7])
	}
}

func TestLogResponsesOrdersQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.csv")
	l := NewCSVLogger("", path)

	responses := map[string]string{
		"q10": "answer ten",
		"q2":  "answer two",
		"q1":  "answer one",
		"q9":  "answer nine",
	}
	if err := l.LogResponses(context.Background(), "run-1", "Technology", responses); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row[1] != "run-1" || row[2] != "Technology" {
		t.Errorf("row prefix = %v", row[:3])
	}
	want := []string{"answer one", "answer two", "answer nine", "answer ten"}
	for i, w := range want {
		if row[3+i] != w {
			t.Errorf("answer %d = %q, want %q", i, row[3+i], w)
		}
	}
}

func TestEmptyPathsAreNoops(t *testing.T) {
	l := NewCSVLogger("", "")
	if err := l.LogContact(context.Background(), Contact{RunID: "run-1"}); err != nil {
		t.Errorf("LogContact with no path: %v", err)
	}
	if err := l.LogResponses(context.Background(), "run-1", "Retail", nil); err != nil {
		t.Errorf("LogResponses with no path: %v", err)
	}
}

func TestLogContactOpenFailure(t *testing.T) {
	l := NewCSVLogger(filepath.Join(t.TempDir(), "no", "such", "dir", "contacts.csv"), "")
	if err := l.LogContact(context.Background(), Contact{RunID: "run-1"}); err == nil {
		t.Fatal("unwritable path did not error")
	}
}
