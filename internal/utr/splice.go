package utr

import (
	"slices"

	"github.com/inodb/vibe-utr/internal/bed"
)

// Flank is the noncoding part taken from an evidence transcript on one side
// of an annotation.
//
// Blocks are whole noncoding exons, separated from the annotation's terminal
// exon by an intron. Join is the number of noncoding bases merged directly
// onto the terminal exon. The zero Flank adds nothing.
type Flank struct {
	Blocks []bed.AbsBlock
	Join   int64
}

// Empty returns true if the flank adds no bases.
func (f Flank) Empty() bool {
	return len(f.Blocks) == 0 && f.Join == 0
}

// Len returns the number of noncoding bases in the flank.
func (f Flank) Len() int64 {
	n := f.Join
	for _, b := range f.Blocks {
		n += b.Size
	}
	return n
}

// LeadingFlank returns the part of ev upstream of cut. Whole blocks ending
// before cut are kept; a block straddling cut is truncated to end at cut and
// becomes the join. An evidence transcript that never reaches cut yields an
// empty flank.
func LeadingFlank(ev *bed.Record, cut int64) Flank {
	var f Flank
	for _, b := range ev.AbsBlocks() {
		if b.End() < cut {
			f.Blocks = append(f.Blocks, b)
			continue
		}
		if b.Start < cut {
			f.Join = cut - b.Start
		}
		return f
	}
	return Flank{}
}

// TrailingFlank returns the part of ev downstream of cut, walking from the
// 3' end. A block straddling cut is truncated to start at cut.
func TrailingFlank(ev *bed.Record, cut int64) Flank {
	var f Flank
	blocks := ev.AbsBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		if b.Start > cut {
			f.Blocks = append(f.Blocks, b)
			continue
		}
		if b.End() > cut {
			f.Join = b.End() - cut
		}
		slices.Reverse(f.Blocks)
		return f
	}
	return Flank{}
}

// Splice merges the leading and trailing flanks into r's exon blocks. The
// joins extend r's first and last exon (the same exon for a single-exon
// record); the coding interval and all other fields are unchanged.
func Splice(r *bed.Record, lead, trail Flank) (*bed.Record, error) {
	if lead.Join < 0 || trail.Join < 0 {
		return nil, bed.RecordError(r, "negative utr join (5' %d, 3' %d)", lead.Join, trail.Join)
	}

	exons := r.AbsBlocks()
	n := len(exons)
	if n == 0 {
		return nil, bed.RecordError(r, "no exon blocks")
	}

	blocks := make([]bed.AbsBlock, 0, len(lead.Blocks)+n+len(trail.Blocks))
	blocks = append(blocks, lead.Blocks...)

	head := bed.AbsBlock{Start: exons[0].Start - lead.Join, Size: exons[0].Size + lead.Join}
	if n == 1 {
		head.Size += trail.Join
		blocks = append(blocks, head)
	} else {
		blocks = append(blocks, head)
		blocks = append(blocks, exons[1:n-1]...)
		tail := exons[n-1]
		tail.Size += trail.Join
		blocks = append(blocks, tail)
	}
	blocks = append(blocks, trail.Blocks...)

	out := r.Clone()
	out.Start = blocks[0].Start
	out.End = blocks[len(blocks)-1].End()
	out.Blocks = make([]bed.Block, len(blocks))
	for i, b := range blocks {
		out.Blocks[i] = bed.Block{Offset: b.Start - out.Start, Size: b.Size}
	}

	if err := out.Validate(); err != nil {
		return nil, bed.RecordError(r, "splice utr blocks: %v", err)
	}
	return out, nil
}
