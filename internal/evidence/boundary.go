// Package evidence indexes transcript-assembly evidence by exon boundaries.
package evidence

import (
	"fmt"

	"github.com/inodb/vibe-utr/internal/bed"
)

// Mode selects which boundaries are used to match transcripts.
type Mode int

const (
	// ModeIntron matches on intron coordinates (default).
	ModeIntron Mode = iota
	// ModeCoding matches on trimmed terminal coding exons. Use it when the
	// evidence already carries coding/noncoding distinction.
	ModeCoding
)

func (m Mode) String() string {
	if m == ModeCoding {
		return "coding"
	}
	return "intron"
}

// Key identifies an intron or a trimmed coding exon. Two transcripts share a
// boundary iff their keys are equal.
type Key struct {
	Chrom string
	Pos1  int64
	Pos2  int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d-%d", k.Chrom, k.Pos1, k.Pos2)
}

// DegenerateCoordinateError reports a coding interval that cannot be mapped
// onto the record's exon blocks.
type DegenerateCoordinateError struct {
	Name        string
	Line        int
	CodingStart int64
	CodingEnd   int64
	Reason      string
}

func (e *DegenerateCoordinateError) Error() string {
	return fmt.Sprintf("degenerate coding interval %d-%d for %s (line %d): %s",
		e.CodingStart, e.CodingEnd, e.Name, e.Line, e.Reason)
}

func degenerate(r *bed.Record, reason string) *DegenerateCoordinateError {
	return &DegenerateCoordinateError{
		Name:        r.Name,
		Line:        r.Line,
		CodingStart: r.CodingStart,
		CodingEnd:   r.CodingEnd,
		Reason:      reason,
	}
}

// Introns returns one key per intron, in transcript order. Zero-length gaps
// between adjacent blocks are not introns and are skipped.
func Introns(r *bed.Record) []Key {
	var keys []Key
	for i := 0; i+1 < len(r.Blocks); i++ {
		left, right := r.BlockEnd(i), r.BlockStart(i+1)
		if left < right {
			keys = append(keys, Key{Chrom: r.Chrom, Pos1: left, Pos2: right})
		}
	}
	return keys
}

// CodingExons returns the first and last coding exon of r, trimmed to the
// coding interval. A record with a single coding exon yields one key.
// Records without UTRs, and noncoding records, use their exon blocks as is.
func CodingExons(r *bed.Record) ([]Key, error) {
	blocks := r.AbsBlocks()
	if (r.HasUTR5() || r.HasUTR3()) && !r.IsNoncoding() {
		var err error
		if blocks, err = CodingBlocks(r); err != nil {
			return nil, err
		}
	}

	if len(blocks) > 1 {
		blocks = []bed.AbsBlock{blocks[0], blocks[len(blocks)-1]}
	}
	keys := make([]Key, len(blocks))
	for i, b := range blocks {
		keys[i] = Key{Chrom: r.Chrom, Pos1: b.Start, Pos2: b.End()}
	}
	return keys, nil
}

// CodingBlocks restricts the exon blocks of r to those overlapping
// [CodingStart, CodingEnd) and clips the outer two to the coding interval.
// A coding end that coincides with a block start is rolled back to the end
// of the preceding block.
func CodingBlocks(r *bed.Record) ([]bed.AbsBlock, error) {
	if r.IsNoncoding() {
		return nil, degenerate(r, "empty coding interval")
	}
	blocks := r.AbsBlocks()

	cs, ce := r.CodingStart, r.CodingEnd
	for i, b := range blocks {
		if b.Start != ce {
			continue
		}
		if i == 0 {
			return nil, degenerate(r, "coding end coincides with the first block start")
		}
		ce = blocks[i-1].End()
		break
	}
	if ce <= cs {
		return nil, degenerate(r, "coding interval lies within an intron")
	}

	first, last := -1, -1
	for i, b := range blocks {
		if b.End() > cs && b.Start < ce {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil, degenerate(r, "no exon block overlaps the coding interval")
	}

	out := append([]bed.AbsBlock(nil), blocks[first:last+1]...)
	if head := &out[0]; head.Start < cs {
		head.Size -= cs - head.Start
		head.Start = cs
	}
	if tail := &out[len(out)-1]; tail.End() > ce {
		tail.Size = ce - tail.Start
	}
	return out, nil
}

// Boundaries returns the boundary keys of r for the given mode.
func Boundaries(r *bed.Record, mode Mode) ([]Key, error) {
	if mode == ModeCoding {
		return CodingExons(r)
	}
	return Introns(r), nil
}

// Terminal returns the first and last boundary key of r. ok is false when r
// has no boundary in this mode (a single-exon record in intron mode).
func Terminal(r *bed.Record, mode Mode) (first, last Key, ok bool, err error) {
	keys, err := Boundaries(r, mode)
	if err != nil || len(keys) == 0 {
		return Key{}, Key{}, false, err
	}
	return keys[0], keys[len(keys)-1], true, nil
}
