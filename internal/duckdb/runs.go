package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run ID has no record in the store.
var ErrRunNotFound = errors.New("run not found")

// FileFingerprint holds stat-based identity for an input file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
// Standard input ("-") yields a fingerprint with only the path set.
func StatFile(path string) (FileFingerprint, error) {
	if path == "-" {
		return FileFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Run describes one invocation whose results were written to the store.
type Run struct {
	ID        string
	Command   string
	Input     FileFingerprint
	CreatedAt time.Time
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// StartRun records a new run for command over input and returns its ID.
func (s *Store) StartRun(command string, input FileFingerprint) (string, error) {
	id := NewRunID()
	_, err := s.db.Exec(`INSERT INTO runs
		(run_id, command, input_path, input_size, input_mtime, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, command, input.Path, input.Size, input.ModTime.UTC(), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// LookupRun returns the run with the given ID.
func (s *Store) LookupRun(runID string) (*Run, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}

	var r Run
	err := s.db.QueryRow(`SELECT run_id, command, input_path, input_size, input_mtime, created_at
		FROM runs WHERE run_id=?`, runID).Scan(
		&r.ID, &r.Command, &r.Input.Path, &r.Input.Size, &r.Input.ModTime, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return &r, nil
}

// ClearRun removes a run and every result row written under it.
func (s *Store) ClearRun(runID string) error {
	for _, table := range []string{"domain_hits", "gene_clusters", "cluster_genes", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id=?", runID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
