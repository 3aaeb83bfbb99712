package utr

import (
	"github.com/inodb/vibe-utr/internal/bed"
	"github.com/inodb/vibe-utr/internal/evidence"
)

// StripUTRs clips r to its coding interval, dropping noncoding exons and
// trimming the terminal coding exons. Records without UTRs and noncoding
// records are returned unchanged.
func StripUTRs(r *bed.Record) (*bed.Record, error) {
	if r.IsNoncoding() || (!r.HasUTR5() && !r.HasUTR3()) {
		return r.Clone(), nil
	}

	blocks, err := evidence.CodingBlocks(r)
	if err != nil {
		return nil, err
	}

	out := r.Clone()
	out.Start = blocks[0].Start
	out.End = blocks[len(blocks)-1].End()
	out.CodingStart, out.CodingEnd = out.Start, out.End
	out.Blocks = make([]bed.Block, len(blocks))
	for i, b := range blocks {
		out.Blocks[i] = bed.Block{Offset: b.Start - out.Start, Size: b.Size}
	}
	if err := out.Validate(); err != nil {
		return nil, bed.RecordError(r, "strip utr blocks: %v", err)
	}
	return out, nil
}
