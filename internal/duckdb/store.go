// Package duckdb persists resolved domains and gene clusters in DuckDB so that
// results of separate runs can be queried side by side.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding run results.
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
			return nil, fmt.Errorf("create store directory: %w", err)
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

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		command VARCHAR,
		input_path VARCHAR,
		input_size BIGINT,
		input_mtime TIMESTAMP,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS domain_hits (
		run_id VARCHAR,
		protein_id VARCHAR,
		ordinal BIGINT,
		name VARCHAR,
		start BIGINT,
		stop BIGINT,
		score DOUBLE,
		evalue DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS gene_clusters (
		run_id VARCHAR,
		replicon_id VARCHAR,
		cluster_index BIGINT,
		strand VARCHAR,
		size BIGINT,
		first_start BIGINT,
		last_stop BIGINT,
		crosses_origin BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS cluster_genes (
		run_id VARCHAR,
		replicon_id VARCHAR,
		cluster_index BIGINT,
		ordinal BIGINT,
		gene_id VARCHAR,
		start BIGINT,
		stop BIGINT
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// appendRows batch-inserts into table using the Appender API.
func (s *Store) appendRows(table string, fn func(a *goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}
