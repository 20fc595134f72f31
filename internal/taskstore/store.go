// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taskstore persists completed synthesis runs in a SQLite index
// so they can be listed, inspected, and searched after the fact. One run
// is one (item, artifact) pair; candidates and evidence rows hang off the
// run and are replaced wholesale when a run is re-saved.
// Implements: prd007-run-store (R1-R4);
//
//	docs/ARCHITECTURE § Run Store.
package taskstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/biogen-engine/pkg/types"
)

// Store manages the run index SQLite database.
type Store struct {
	db *sql.DB

	// now is the clock; tests substitute it.
	now func() time.Time
}

// Run is one stored synthesis run.
type Run struct {
	ID        string             `json:"id" yaml:"id"`
	Item      types.TaskItem     `json:"item" yaml:"item"`
	Artifact  types.TaskArtifact `json:"artifact" yaml:"artifact"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
}

// RunSummary is the listing view of a run.
type RunSummary struct {
	ID         string
	ItemID     string
	Candidates int
	Evidence   int
	CreatedAt  time.Time
}

// NewStore opens or creates the run database at cfg.Path, creating the
// schema if needed.
func NewStore(cfg types.RunStoreConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating run store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening run database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			question TEXT,
			answer TEXT,
			analysis TEXT,
			reflection TEXT,
			final TEXT,
			evidence_summary TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS evidence (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			round INTEGER NOT NULL,
			tool TEXT NOT NULL,
			arguments TEXT,
			output TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run_id ON candidates(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_run_id ON evidence(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE runs_fts USING fts5(final, content=runs, content_rowid=rowid)`,
			`CREATE TRIGGER runs_ai AFTER INSERT ON runs BEGIN
				INSERT INTO runs_fts(rowid, final) VALUES (new.rowid, new.final);
			END`,
			`CREATE TRIGGER runs_ad AFTER DELETE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, final) VALUES('delete', old.rowid, old.final);
			END`,
			`CREATE TRIGGER runs_au AFTER UPDATE ON runs BEGIN
				INSERT INTO runs_fts(runs_fts, rowid, final) VALUES('delete', old.rowid, old.final);
				INSERT INTO runs_fts(rowid, final) VALUES (new.rowid, new.final);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// RunID derives the stable identifier for a run: the first 12 hex digits
// of the SHA-256 over item ID and final text. Re-saving the same outcome
// replaces the same row.
func RunID(itemID, final string) string {
	h := sha256.Sum256([]byte(itemID + "\x00" + final))
	return fmt.Sprintf("%x", h[:6])
}

// SaveRun stores one run, replacing any previous run with the same ID.
func (s *Store) SaveRun(ctx context.Context, item types.TaskItem, artifact *types.TaskArtifact) (string, error) {
	runID := RunID(item.ID, artifact.Final)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return "", fmt.Errorf("replacing run %s: %w", runID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, item_id, question, answer, analysis, reflection, final, evidence_summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, item.ID, item.Question, item.Answer,
		artifact.Analysis, artifact.Reflection, artifact.Final, artifact.EvidenceSummary,
		s.now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("inserting run %s: %w", runID, err)
	}

	for i, c := range artifact.Candidates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO candidates (run_id, round, content) VALUES (?, ?, ?)`,
			runID, i+1, c,
		); err != nil {
			return "", fmt.Errorf("inserting candidate %d: %w", i+1, err)
		}
	}

	for i, e := range artifact.Evidence {
		args, err := json.Marshal(e.Arguments)
		if err != nil {
			args = []byte("{}")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO evidence (run_id, round, tool, arguments, output) VALUES (?, ?, ?, ?, ?)`,
			runID, i+1, e.Tool, string(args), e.Output,
		); err != nil {
			return "", fmt.Errorf("inserting evidence %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run %s: %w", runID, err)
	}
	return runID, nil
}

// GetRun loads one run with its candidates and evidence.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	run := &Run{ID: runID}
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT item_id, question, answer, analysis, reflection, final, evidence_summary, created_at
		 FROM runs WHERE id = ?`, runID,
	).Scan(&run.Item.ID, &run.Item.Question, &run.Item.Answer,
		&run.Artifact.Analysis, &run.Artifact.Reflection, &run.Artifact.Final,
		&run.Artifact.EvidenceSummary, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT content FROM candidates WHERE run_id = ? ORDER BY round`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		run.Artifact.Candidates = append(run.Artifact.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	evRows, err := s.db.QueryContext(ctx,
		`SELECT tool, arguments, output FROM evidence WHERE run_id = ? ORDER BY round`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading evidence: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var e types.EvidenceEntry
		var args string
		if err := evRows.Scan(&e.Tool, &args, &e.Output); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		json.Unmarshal([]byte(args), &e.Arguments)
		run.Artifact.Evidence = append(run.Artifact.Evidence, e)
	}
	if err := evRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evidence: %w", err)
	}

	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.item_id, r.created_at,
		        (SELECT count(*) FROM candidates c WHERE c.run_id = r.id),
		        (SELECT count(*) FROM evidence e WHERE e.run_id = r.id)
		 FROM runs r ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// Search returns runs whose final text matches the FTS5 query, newest first.
func (s *Store) Search(ctx context.Context, query string) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.item_id, r.created_at,
		        (SELECT count(*) FROM candidates c WHERE c.run_id = r.id),
		        (SELECT count(*) FROM evidence e WHERE e.run_id = r.id)
		 FROM runs r
		 JOIN runs_fts f ON f.rowid = r.rowid
		 WHERE runs_fts MATCH ?
		 ORDER BY r.created_at DESC, r.id`, query)
	if err != nil {
		return nil, fmt.Errorf("searching runs: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]RunSummary, error) {
	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.ItemID, &createdAt, &s.Candidates, &s.Evidence); err != nil {
			return nil, fmt.Errorf("scanning run summary: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			s.CreatedAt = t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}
