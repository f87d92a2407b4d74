package ragpipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps an SQLite database indexing emitted records for retrieval.
// The JSON array stays the contractual output; the store is an optional
// convenience for downstream lookups.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the SQLite database at path and runs
// migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS records (
    id          TEXT PRIMARY KEY,
    source      TEXT NOT NULL,
    url         TEXT,
    section_id  INTEGER NOT NULL,
    content     TEXT NOT NULL,
    metadata    TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_source ON records(source);
`
	_, err := s.db.Exec(ddl)
	return err
}

// InsertRun stores all records of a run in one transaction. Rows from a
// previous run of the same sources are replaced, so re-ingesting a file
// never leaves stale sections behind.
func (s *Store) InsertRun(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sources := make(map[string]struct{})
	for _, rec := range records {
		if src, ok := rec.Metadata["source"].(string); ok {
			sources[src] = struct{}{}
		}
	}
	for src := range sources {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source = ?`, src); err != nil {
			return fmt.Errorf("clear source %s: %w", src, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata %s: %w", rec.ID, err)
		}
		src, _ := rec.Metadata["source"].(string)
		url, _ := rec.Metadata["url"].(string)
		sectionID, _ := rec.Metadata["section_id"].(int)

		_, err = tx.ExecContext(ctx, `
INSERT INTO records (id, source, url, section_id, content, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, src, url, sectionID, rec.Content, string(meta), now)
		if err != nil {
			return fmt.Errorf("insert %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// CountBySource returns how many records each source currently has.
func (s *Store) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM records GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		counts[src] = n
	}
	return counts, rows.Err()
}

// RecordsBySource returns the stored records for one source in section
// order.
func (s *Store) RecordsBySource(ctx context.Context, source string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, content, metadata FROM records WHERE source = ? ORDER BY section_id`, source)
	if err != nil {
		return nil, fmt.Errorf("query source %s: %w", source, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var meta string
		if err := rows.Scan(&rec.ID, &rec.Content, &meta); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("parse metadata %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
