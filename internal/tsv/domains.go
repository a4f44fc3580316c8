package tsv

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mist-regions/internal/domains"
)

// DomainFormat selects the layout of a domain prediction file.
type DomainFormat string

// Supported domain formats.
const (
	// FormatTSV is protein_id, name, start, stop, score, evalue.
	FormatTSV DomainFormat = "tsv"
	// FormatDomtblout is HMMER3 hmmscan --domtblout output.
	FormatDomtblout DomainFormat = "domtblout"
)

// ParseDomainFormat validates a format name.
func ParseDomainFormat(s string) (DomainFormat, error) {
	switch f := DomainFormat(strings.ToLower(s)); f {
	case FormatTSV, FormatDomtblout:
		return f, nil
	default:
		return "", fmt.Errorf("unknown domain format %q (want tsv or domtblout)", s)
	}
}

// DomainParser reads domain predictions.
type DomainParser struct {
	lr     *lineReader
	format DomainFormat
}

// NewDomainParser opens a domain prediction file (plain or gzipped, "-" for stdin).
func NewDomainParser(path string, format DomainFormat) (*DomainParser, error) {
	lr, err := openLineReader(path)
	if err != nil {
		return nil, err
	}
	return &DomainParser{lr: lr, format: format}, nil
}

// NewDomainParserFromReader creates a parser reading from r.
func NewDomainParserFromReader(r io.Reader, format DomainFormat) *DomainParser {
	return &DomainParser{lr: newLineReader(r), format: format}
}

// Next reads the next domain.
// Returns nil, nil when there are no more domains.
func (p *DomainParser) Next() (*domains.Domain, error) {
	for {
		line, err := p.lr.next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if p.format == FormatDomtblout {
			return p.parseDomtblout(line)
		}
		fields := strings.Split(line, "\t")
		if len(fields) >= 3 && strings.EqualFold(fields[2], "start") {
			continue // header row
		}
		return p.parseTSV(fields)
	}
}

func (p *DomainParser) parseTSV(fields []string) (*domains.Domain, error) {
	if len(fields) < 6 {
		return nil, p.errorf("expected 6 columns, found %d", len(fields))
	}
	d := &domains.Domain{ProteinID: fields[0], Name: fields[1]}
	if err := p.parseSpan(fields[2], fields[3], d); err != nil {
		return nil, err
	}
	if err := p.parseStats(fields[4], fields[5], d); err != nil {
		return nil, err
	}
	return d, nil
}

// hmmscan domtblout columns (0-based): target (model) name 0, query
// (protein) name 3, i-Evalue 12, domain score 13, envelope from/to 19/20.
func (p *DomainParser) parseDomtblout(line string) (*domains.Domain, error) {
	fields := strings.Fields(line)
	if len(fields) < 22 {
		return nil, p.errorf("expected at least 22 domtblout columns, found %d", len(fields))
	}
	d := &domains.Domain{ProteinID: fields[3], Name: fields[0]}
	if err := p.parseSpan(fields[19], fields[20], d); err != nil {
		return nil, err
	}
	if err := p.parseStats(fields[13], fields[12], d); err != nil {
		return nil, err
	}
	return d, nil
}

func (p *DomainParser) parseSpan(start, stop string, d *domains.Domain) error {
	var err error
	if d.Start, err = strconv.Atoi(start); err != nil {
		return p.errorf("invalid start: %s", start)
	}
	if d.Stop, err = strconv.Atoi(stop); err != nil {
		return p.errorf("invalid stop: %s", stop)
	}
	return nil
}

func (p *DomainParser) parseStats(score, evalue string, d *domains.Domain) error {
	var err error
	if d.Score, err = strconv.ParseFloat(score, 64); err != nil {
		return p.errorf("invalid score: %s", score)
	}
	if d.Evalue, err = strconv.ParseFloat(evalue, 64); err != nil {
		return p.errorf("invalid evalue: %s", evalue)
	}
	return nil
}

func (p *DomainParser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.lr.lineNumber, Message: fmt.Sprintf(format, args...)}
}

// LineNumber returns the current line number being processed.
func (p *DomainParser) LineNumber() int {
	return p.lr.lineNumber
}

// Close closes the parser and underlying file.
func (p *DomainParser) Close() error {
	return p.lr.close()
}

// Protein is the set of domain predictions for one query sequence.
type Protein struct {
	ID      string
	Domains []*domains.Domain
}

// ReadProteins reads all domains and groups them by protein, in order of
// first appearance.
func ReadProteins(p *DomainParser) ([]*Protein, error) {
	var proteins []*Protein
	index := make(map[string]*Protein)
	for {
		d, err := p.Next()
		if err != nil {
			return nil, err
		}
		if d == nil {
			return proteins, nil
		}
		prot, ok := index[d.ProteinID]
		if !ok {
			prot = &Protein{ID: d.ProteinID}
			index[d.ProteinID] = prot
			proteins = append(proteins, prot)
		}
		prot.Domains = append(prot.Domains, d)
	}
}
