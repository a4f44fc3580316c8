package tsv

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mist-regions/internal/cluster"
)

// GeneParser reads gene locations: replicon_id, gene_id, start, stop, strand.
type GeneParser struct {
	lr *lineReader
}

// NewGeneParser opens a gene table (plain or gzipped, "-" for stdin).
func NewGeneParser(path string) (*GeneParser, error) {
	lr, err := openLineReader(path)
	if err != nil {
		return nil, err
	}
	return &GeneParser{lr: lr}, nil
}

// NewGeneParserFromReader creates a parser reading from r.
func NewGeneParserFromReader(r io.Reader) *GeneParser {
	return &GeneParser{lr: newLineReader(r)}
}

// Next reads the next gene.
// Returns nil, nil when there are no more genes.
func (p *GeneParser) Next() (*cluster.Gene, error) {
	for {
		line, err := p.lr.next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		fields := strings.Split(line, "\t")
		if len(fields) >= 3 && strings.EqualFold(fields[2], "start") {
			continue // header row
		}
		if len(fields) < 5 {
			return nil, p.errorf("expected 5 columns, found %d", len(fields))
		}

		g := &cluster.Gene{RepliconID: fields[0], ID: fields[1]}
		if g.Start, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return nil, p.errorf("invalid start: %s", fields[2])
		}
		if g.Stop, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
			return nil, p.errorf("invalid stop: %s", fields[3])
		}
		if g.Strand, err = cluster.ParseStrand(fields[4]); err != nil {
			return nil, p.errorf("%v", err)
		}
		return g, nil
	}
}

func (p *GeneParser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.lr.lineNumber, Message: fmt.Sprintf(format, args...)}
}

// LineNumber returns the current line number being processed.
func (p *GeneParser) LineNumber() int {
	return p.lr.lineNumber
}

// Close closes the parser and underlying file.
func (p *GeneParser) Close() error {
	return p.lr.close()
}

// ReadReplicons reads all genes and groups them by replicon, in order of
// first appearance. Replicon length and topology come from info when present;
// replicons missing from info get defaultCircular and no length.
func ReadReplicons(p *GeneParser, info map[string]RepliconInfo, defaultCircular bool) ([]*cluster.Replicon, error) {
	var replicons []*cluster.Replicon
	index := make(map[string]*cluster.Replicon)
	for {
		g, err := p.Next()
		if err != nil {
			return nil, err
		}
		if g == nil {
			return replicons, nil
		}
		r, ok := index[g.RepliconID]
		if !ok {
			r = &cluster.Replicon{ID: g.RepliconID, Circular: defaultCircular}
			if ri, ok := info[g.RepliconID]; ok {
				r.Length = ri.Length
				r.Circular = ri.Circular
			}
			index[g.RepliconID] = r
			replicons = append(replicons, r)
		}
		r.Genes = append(r.Genes, g)
	}
}

// RepliconInfo is a row of a replicon table: replicon_id, length, topology.
type RepliconInfo struct {
	ID       string
	Length   int64
	Circular bool
}

// ReadRepliconTable reads a replicon table (plain or gzipped, "-" for stdin).
func ReadRepliconTable(path string) (map[string]RepliconInfo, error) {
	lr, err := openLineReader(path)
	if err != nil {
		return nil, err
	}
	defer lr.close()
	return readRepliconTable(lr)
}

func readRepliconTable(lr *lineReader) (map[string]RepliconInfo, error) {
	out := make(map[string]RepliconInfo)
	for {
		line, err := lr.next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		fields := strings.Split(line, "\t")
		if len(fields) >= 2 && strings.EqualFold(fields[1], "length") {
			continue // header row
		}
		if len(fields) < 3 {
			return nil, &ParseError{Line: lr.lineNumber, Message: fmt.Sprintf("expected 3 columns, found %d", len(fields))}
		}

		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || length < 1 {
			return nil, &ParseError{Line: lr.lineNumber, Message: fmt.Sprintf("invalid length: %s", fields[1])}
		}

		var circular bool
		switch strings.ToLower(fields[2]) {
		case "circular", "c":
			circular = true
		case "linear", "l":
		default:
			return nil, &ParseError{Line: lr.lineNumber, Message: fmt.Sprintf("invalid topology: %s", fields[2])}
		}

		out[fields[0]] = RepliconInfo{ID: fields[0], Length: length, Circular: circular}
	}
}
