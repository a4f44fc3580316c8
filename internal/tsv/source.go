// Package tsv reads domain predictions and gene tables from tab-delimited files.
package tsv

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// lineReader wraps a plain or gzipped input and tracks line numbers.
type lineReader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// openLineReader opens path for reading. Gzipped files are detected by their
// magic bytes. A path of "-" reads stdin.
func openLineReader(path string) (*lineReader, error) {
	if path == "-" {
		return newLineReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	lr := &lineReader{file: file}
	br := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		lr.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		lr.reader = bufio.NewReader(lr.gzipReader)
	} else {
		lr.reader = br
	}

	return lr, nil
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

// next returns the next non-empty, non-comment line with the trailing newline
// removed. Returns io.EOF when the input is exhausted.
func (lr *lineReader) next() (string, error) {
	for {
		line, err := lr.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return "", io.EOF
			}
			return "", fmt.Errorf("read line %d: %w", lr.lineNumber+1, err)
		}
		lr.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, nil
	}
}

func (lr *lineReader) close() error {
	if lr.gzipReader != nil {
		lr.gzipReader.Close()
	}
	if lr.file != nil {
		return lr.file.Close()
	}
	return nil
}

// ParseError represents an error during parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}
