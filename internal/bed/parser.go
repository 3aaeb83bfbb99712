package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// NumFields is the number of tab-separated columns in a BED12 line.
const NumFields = 12

// Parser reads BED12 records from a file or stream.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	path       string
	lineNumber int
}

// NewParser creates a parser for the given file.
// Supports both plain and gzipped BED files. Use "-" for stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}

	p := &Parser{file: file, path: path}
	br := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read bed line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if isHeader(line) {
			continue
		}
		return p.parseLine(line)
	}
}

// ReadAll reads every remaining record. On a malformed line nothing is
// returned besides the error.
func (p *Parser) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		records = append(records, r)
	}
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadFile parses every record from path.
func ReadFile(path string) ([]*Record, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.ReadAll()
}

func isHeader(line string) bool {
	return line == "" ||
		strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser")
}

func (p *Parser) errorf(format string, args ...any) *FormatError {
	return &FormatError{
		Path:    p.path,
		Line:    p.lineNumber,
		Message: fmt.Sprintf(format, args...),
	}
}

// parseLine parses a single BED12 line into a Record.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != NumFields {
		return nil, p.errorf("expected %d columns, found %d", NumFields, len(fields))
	}

	var ints [5]int64
	for i, col := range []int{1, 2, 6, 7, 9} {
		v, err := strconv.ParseInt(fields[col], 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer in column %d: %q", col+1, fields[col])
		}
		ints[i] = v
	}
	blockCount := ints[4]

	sizes, err := parseIntList(fields[10])
	if err != nil {
		return nil, p.errorf("invalid block sizes %q: %v", fields[10], err)
	}
	starts, err := parseIntList(fields[11])
	if err != nil {
		return nil, p.errorf("invalid block starts %q: %v", fields[11], err)
	}
	if int64(len(sizes)) != blockCount || int64(len(starts)) != blockCount {
		return nil, p.errorf("block count %d disagrees with %d sizes and %d starts",
			blockCount, len(sizes), len(starts))
	}

	r := &Record{
		Chrom:       fields[0],
		Start:       ints[0],
		End:         ints[1],
		Name:        fields[3],
		Score:       fields[4],
		Strand:      fields[5],
		CodingStart: ints[2],
		CodingEnd:   ints[3],
		RGB:         fields[8],
		Blocks:      make([]Block, blockCount),
		Line:        p.lineNumber,
	}
	for i := range r.Blocks {
		r.Blocks[i] = Block{Offset: starts[i], Size: sizes[i]}
	}

	if err := r.Validate(); err != nil {
		return nil, p.errorf("%s: %v", r.Name, err)
	}
	return r, nil
}

// parseIntList parses a comma-separated integer list with optional trailing comma.
func parseIntList(s string) ([]int64, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
