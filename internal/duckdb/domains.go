package duckdb

import (
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/mist-regions/internal/domains"
)

// WriteDomains batch-inserts resolved domains for a run. Each domain is
// numbered by its position within its protein so lookups return the
// original order.
func (s *Store) WriteDomains(runID string, ds []*domains.Domain) error {
	if len(ds) == 0 {
		return nil
	}

	positions := make(map[string]int64)
	return s.appendRows("domain_hits", func(a *goduckdb.Appender) error {
		for _, d := range ds {
			pos := positions[d.ProteinID]
			positions[d.ProteinID] = pos + 1
			if err := a.AppendRow(
				runID, d.ProteinID, pos, d.Name,
				int64(d.Start), int64(d.Stop), d.Score, d.Evalue,
			); err != nil {
				return fmt.Errorf("append domain hit: %w", err)
			}
		}
		return nil
	})
}

// DomainsByProtein returns the domains stored for a protein in a run.
func (s *Store) DomainsByProtein(runID, proteinID string) ([]*domains.Domain, error) {
	rows, err := s.db.Query(`SELECT protein_id, name, start, stop, score, evalue
		FROM domain_hits
		WHERE run_id=? AND protein_id=?
		ORDER BY ordinal`, runID, proteinID)
	if err != nil {
		return nil, fmt.Errorf("query domains: %w", err)
	}
	defer rows.Close()

	var ds []*domains.Domain
	for rows.Next() {
		var d domains.Domain
		if err := rows.Scan(&d.ProteinID, &d.Name, &d.Start, &d.Stop, &d.Score, &d.Evalue); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		ds = append(ds, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return ds, nil
}

// CountDomainsByName returns how many stored domains of a run carry each
// model name.
func (s *Store) CountDomainsByName(runID string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT name, count(*) FROM domain_hits
		WHERE run_id=? GROUP BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("count domains: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan domain count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}
