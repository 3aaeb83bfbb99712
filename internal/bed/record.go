// Package bed provides BED12 transcript record parsing and formatting.
package bed

import "fmt"

// Record is a single BED12 transcript line. Coordinates are 0-based half-open.
type Record struct {
	Chrom       string
	Start       int64
	End         int64
	Name        string
	Score       string // kept verbatim
	Strand      string
	CodingStart int64 // thickStart
	CodingEnd   int64 // thickEnd
	RGB         string
	Blocks      []Block // ordered exon blocks
	Line        int     // source line number, 0 if synthesized
}

// Block is an exon block relative to the record start.
type Block struct {
	Offset int64
	Size   int64
}

// AbsBlock is an exon block in absolute genomic coordinates.
type AbsBlock struct {
	Start int64
	Size  int64
}

// End returns the exclusive end of the block.
func (b AbsBlock) End() int64 {
	return b.Start + b.Size
}

// ExonCount returns the number of exon blocks.
func (r *Record) ExonCount() int {
	return len(r.Blocks)
}

// BlockStart returns the absolute start of block i.
func (r *Record) BlockStart(i int) int64 {
	return r.Start + r.Blocks[i].Offset
}

// BlockEnd returns the absolute exclusive end of block i.
func (r *Record) BlockEnd(i int) int64 {
	return r.Start + r.Blocks[i].Offset + r.Blocks[i].Size
}

// AbsBlocks returns the exon blocks in absolute coordinates.
func (r *Record) AbsBlocks() []AbsBlock {
	out := make([]AbsBlock, len(r.Blocks))
	for i, b := range r.Blocks {
		out[i] = AbsBlock{Start: r.Start + b.Offset, Size: b.Size}
	}
	return out
}

// IsNoncoding returns true if the record declares an empty coding interval.
func (r *Record) IsNoncoding() bool {
	return r.CodingStart == r.CodingEnd
}

// HasUTR5 returns true if there is transcript extent before the coding start.
func (r *Record) HasUTR5() bool {
	return r.CodingStart != r.Start
}

// HasUTR3 returns true if there is transcript extent after the coding end.
func (r *Record) HasUTR3() bool {
	return r.CodingEnd != r.End
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Blocks = append([]Block(nil), r.Blocks...)
	return &c
}

// String returns a short locus description used in log and error messages.
func (r *Record) String() string {
	return fmt.Sprintf("%s %s:%d-%d", r.Name, r.Chrom, r.Start, r.End)
}

// Validate checks the structural invariants of a record: the coding interval
// lies within the extent, and the blocks are sorted, non-overlapping and
// cover exactly [Start, End) when joined by introns.
func (r *Record) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("start %d greater than end %d", r.Start, r.End)
	}
	if r.CodingStart > r.CodingEnd {
		return fmt.Errorf("coding start %d greater than coding end %d", r.CodingStart, r.CodingEnd)
	}
	if r.CodingStart < r.Start || r.CodingEnd > r.End {
		return fmt.Errorf("coding interval %d-%d outside transcript %d-%d",
			r.CodingStart, r.CodingEnd, r.Start, r.End)
	}
	if len(r.Blocks) == 0 {
		return fmt.Errorf("no exon blocks")
	}
	if r.Blocks[0].Offset != 0 {
		return fmt.Errorf("first block starts at offset %d, expected 0", r.Blocks[0].Offset)
	}
	var prevEnd int64
	for i, b := range r.Blocks {
		if b.Size <= 0 {
			return fmt.Errorf("block %d has non-positive size %d", i, b.Size)
		}
		if i > 0 && b.Offset < prevEnd {
			return fmt.Errorf("block %d at offset %d overlaps previous block ending at %d", i, b.Offset, prevEnd)
		}
		prevEnd = b.Offset + b.Size
	}
	if prevEnd != r.End-r.Start {
		return fmt.Errorf("last block ends at offset %d, expected %d", prevEnd, r.End-r.Start)
	}
	return nil
}
