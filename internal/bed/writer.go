package bed

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Writer writes records as BED12 lines.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new BED12 writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single record.
func (bw *Writer) Write(r *Record) error {
	_, err := bw.w.WriteString(Format(r) + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (bw *Writer) Flush() error {
	return bw.w.Flush()
}

// Format returns the BED12 line for a record, without newline.
// Block lists carry a trailing comma, as UCSC tools emit them.
func Format(r *Record) string {
	var sizes, starts strings.Builder
	for _, b := range r.Blocks {
		sizes.WriteString(strconv.FormatInt(b.Size, 10))
		sizes.WriteByte(',')
		starts.WriteString(strconv.FormatInt(b.Offset, 10))
		starts.WriteByte(',')
	}

	values := []string{
		r.Chrom,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Name,
		r.Score,
		r.Strand,
		strconv.FormatInt(r.CodingStart, 10),
		strconv.FormatInt(r.CodingEnd, 10),
		r.RGB,
		strconv.Itoa(len(r.Blocks)),
		sizes.String(),
		starts.String(),
	}
	return strings.Join(values, "\t")
}
