package duckdb

import (
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/mist-regions/internal/cluster"
)

// WriteClusters batch-inserts the clusters found on one replicon. Clusters
// are indexed from 1 in the order given.
func (s *Store) WriteClusters(runID, repliconID string, clusters []*cluster.Cluster) error {
	if len(clusters) == 0 {
		return nil
	}

	err := s.appendRows("gene_clusters", func(a *goduckdb.Appender) error {
		for i, c := range clusters {
			if err := a.AppendRow(
				runID, repliconID, int64(i+1), c.Strand.String(), int64(c.Size()),
				c.First().Start, c.Last().Stop, c.CrossesOrigin(),
			); err != nil {
				return fmt.Errorf("append gene cluster: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.appendRows("cluster_genes", func(a *goduckdb.Appender) error {
		for i, c := range clusters {
			for j, g := range c.Genes {
				if err := a.AppendRow(
					runID, repliconID, int64(i+1), int64(j), g.ID, g.Start, g.Stop,
				); err != nil {
					return fmt.Errorf("append cluster gene: %w", err)
				}
			}
		}
		return nil
	})
}

// ClustersByReplicon rebuilds the clusters stored for a replicon in a run.
func (s *Store) ClustersByReplicon(runID, repliconID string) ([]*cluster.Cluster, error) {
	rows, err := s.db.Query(`SELECT c.cluster_index, c.strand, g.gene_id, g.start, g.stop
		FROM gene_clusters c
		JOIN cluster_genes g
		  ON g.run_id = c.run_id AND g.replicon_id = c.replicon_id AND g.cluster_index = c.cluster_index
		WHERE c.run_id=? AND c.replicon_id=?
		ORDER BY c.cluster_index, g.ordinal`, runID, repliconID)
	if err != nil {
		return nil, fmt.Errorf("query clusters: %w", err)
	}
	defer rows.Close()

	var (
		clusters []*cluster.Cluster
		current  *cluster.Cluster
		curIndex int64
	)
	for rows.Next() {
		var (
			index  int64
			strand string
			g      cluster.Gene
		)
		if err := rows.Scan(&index, &strand, &g.ID, &g.Start, &g.Stop); err != nil {
			return nil, fmt.Errorf("scan cluster gene: %w", err)
		}
		st, err := cluster.ParseStrand(strand)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", index, err)
		}
		g.RepliconID = repliconID
		g.Strand = st

		if current == nil || index != curIndex {
			current = &cluster.Cluster{Strand: st}
			curIndex = index
			clusters = append(clusters, current)
		}
		current.Genes = append(current.Genes, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clusters: %w", err)
	}
	return clusters, nil
}
