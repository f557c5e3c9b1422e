package pii

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists mappings so a batch interrupted between Intake and
// Finalize can resume without re-running earlier stages. Mappings are stored
// as a JSON blob per run; there is nothing to query inside them.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pii_mappings (
    run_id     TEXT PRIMARY KEY,
    mapping    TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// OpenSQLiteStore opens (creating if needed) the store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("pii store: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("pii store: open: %w", err)
	}
	// Serialized access; the workload is tiny writes keyed by run ID.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("pii store: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(runID string, mapping Mapping) error {
	blob, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("pii store: encode mapping: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO pii_mappings (run_id, mapping) VALUES (?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET mapping = excluded.mapping`,
		runID, string(blob))
	if err != nil {
		return fmt.Errorf("pii store: put %s: %w", runID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(runID string) (Mapping, bool, error) {
	var blob string
	err := s.db.QueryRow(`SELECT mapping FROM pii_mappings WHERE run_id = ?`, runID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pii store: get %s: %w", runID, err)
	}
	var mapping Mapping
	if err := json.Unmarshal([]byte(blob), &mapping); err != nil {
		return nil, false, fmt.Errorf("pii store: decode mapping for %s: %w", runID, err)
	}
	return mapping, true, nil
}

func (s *SQLiteStore) Delete(runID string) error {
	if _, err := s.db.Exec(`DELETE FROM pii_mappings WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("pii store: delete %s: %w", runID, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
