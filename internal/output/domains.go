// Package output provides tab-delimited writers for resolved domains and
// gene clusters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mist-regions/internal/domains"
)

// DomainWriter writes resolved domains in tab-delimited format.
type DomainWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewDomainWriter creates a new tab-delimited domain writer.
func NewDomainWriter(w io.Writer) *DomainWriter {
	return &DomainWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#protein_id",
			"name",
			"start",
			"stop",
			"score",
			"evalue",
		},
	}
}

// WriteHeader writes the header line.
func (dw *DomainWriter) WriteHeader() error {
	_, err := dw.w.WriteString(strings.Join(dw.columns, "\t") + "\n")
	return err
}

// Write writes the domains of one protein.
func (dw *DomainWriter) Write(proteinID string, ds []*domains.Domain) error {
	for _, d := range ds {
		fields := []string{
			proteinID,
			d.Name,
			strconv.Itoa(d.Start),
			strconv.Itoa(d.Stop),
			formatFloat(d.Score),
			formatFloat(d.Evalue),
		}
		if _, err := dw.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data.
func (dw *DomainWriter) Flush() error {
	return dw.w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
