// Package report stores per-transcript UTR extension decisions in DuckDB so a
// run can be inspected and queried after the fact.
package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for extension reports.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS utr_extensions (
		seq BIGINT PRIMARY KEY,
		name VARCHAR,
		chrom VARCHAR,
		strand VARCHAR,
		orig_start BIGINT,
		orig_end BIGINT,
		new_start BIGINT,
		new_end BIGINT,
		utr5_status VARCHAR,
		utr5_candidates BIGINT,
		utr5_support BIGINT,
		utr5_coord BIGINT,
		utr5_evidence VARCHAR,
		utr5_bases BIGINT,
		utr3_status VARCHAR,
		utr3_candidates BIGINT,
		utr3_support BIGINT,
		utr3_coord BIGINT,
		utr3_evidence VARCHAR,
		utr3_bases BIGINT
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS run_metadata (
		key VARCHAR PRIMARY KEY,
		value VARCHAR
	)`)
	return err
}
