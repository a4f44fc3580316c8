package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mist-regions/internal/cluster"
)

// ClusterWriter writes gene clusters in tab-delimited format, one cluster
// per line.
type ClusterWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewClusterWriter creates a new tab-delimited cluster writer.
func NewClusterWriter(w io.Writer) *ClusterWriter {
	return &ClusterWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#cluster_id",
			"replicon_id",
			"strand",
			"size",
			"start",
			"stop",
			"crosses_origin",
			"genes",
		},
	}
}

// ClusterID formats the identifier of the n-th (1-based) cluster of a replicon.
func ClusterID(repliconID string, n int) string {
	return fmt.Sprintf("%s:%d", repliconID, n)
}

// WriteHeader writes the header line.
func (cw *ClusterWriter) WriteHeader() error {
	_, err := cw.w.WriteString(strings.Join(cw.columns, "\t") + "\n")
	return err
}

// Write writes the clusters of one replicon, numbered from 1.
func (cw *ClusterWriter) Write(repliconID string, clusters []*cluster.Cluster) error {
	for i, c := range clusters {
		crosses := "-"
		if c.CrossesOrigin() {
			crosses = "YES"
		}
		fields := []string{
			ClusterID(repliconID, i+1),
			repliconID,
			c.Strand.String(),
			strconv.Itoa(c.Size()),
			strconv.FormatInt(c.First().Start, 10),
			strconv.FormatInt(c.Last().Stop, 10),
			crosses,
			strings.Join(c.GeneIDs(), ","),
		}
		if _, err := cw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data.
func (cw *ClusterWriter) Flush() error {
	return cw.w.Flush()
}
