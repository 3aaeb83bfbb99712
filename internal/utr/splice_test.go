package utr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-utr/internal/bed"
)

// newRecord builds a chr1 record from absolute [start, end) exon pairs.
func newRecord(name string, cs, ce int64, exons ...[2]int64) *bed.Record {
	start := exons[0][0]
	r := &bed.Record{
		Chrom: "chr1", Start: start, End: exons[len(exons)-1][1],
		Name: name, Score: "0", Strand: "+", RGB: "0",
		CodingStart: cs, CodingEnd: ce,
	}
	for _, e := range exons {
		r.Blocks = append(r.Blocks, bed.Block{Offset: e[0] - start, Size: e[1] - e[0]})
	}
	return r
}

// exonsOf returns the absolute [start, end) exon pairs of r.
func exonsOf(r *bed.Record) [][2]int64 {
	var out [][2]int64
	for _, b := range r.AbsBlocks() {
		out = append(out, [2]int64{b.Start, b.End()})
	}
	return out
}

func TestLeadingFlank(t *testing.T) {
	ev := newRecord("ev", 0, 0, [2]int64{500, 600}, [2]int64{900, 1200}, [2]int64{1700, 2500})

	tests := []struct {
		name string
		cut  int64
		want Flank
	}{
		{
			name: "straddling block becomes join",
			cut:  1000,
			want: Flank{Blocks: []bed.AbsBlock{{Start: 500, Size: 100}}, Join: 100},
		},
		{
			name: "cut inside first block",
			cut:  550,
			want: Flank{Join: 50},
		},
		{
			name: "cut in intron keeps whole blocks only",
			cut:  800,
			want: Flank{Blocks: []bed.AbsBlock{{Start: 500, Size: 100}}},
		},
		{
			name: "block ending exactly at cut is joined",
			cut:  600,
			want: Flank{Join: 100},
		},
		{
			name: "cut at evidence start",
			cut:  500,
			want: Flank{},
		},
		{
			name: "evidence never reaches cut",
			cut:  3000,
			want: Flank{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeadingFlank(ev, tt.cut))
		})
	}
}

func TestTrailingFlank(t *testing.T) {
	ev := newRecord("ev", 0, 0, [2]int64{500, 600}, [2]int64{900, 1200}, [2]int64{1700, 1800}, [2]int64{1900, 2500})

	tests := []struct {
		name string
		cut  int64
		want Flank
	}{
		{
			name: "blocks kept in ascending order",
			cut:  1000,
			want: Flank{
				Blocks: []bed.AbsBlock{{Start: 1700, Size: 100}, {Start: 1900, Size: 600}},
				Join:   200,
			},
		},
		{
			name: "cut inside last block",
			cut:  2400,
			want: Flank{Join: 100},
		},
		{
			name: "cut in intron",
			cut:  1850,
			want: Flank{Blocks: []bed.AbsBlock{{Start: 1900, Size: 600}}},
		},
		{
			name: "block starting exactly at cut is joined",
			cut:  1900,
			want: Flank{Join: 600},
		},
		{
			name: "evidence never reaches cut",
			cut:  100,
			want: Flank{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrailingFlank(ev, tt.cut))
		})
	}
}

func TestFlank_EmptyAndLen(t *testing.T) {
	assert.True(t, Flank{}.Empty())
	f := Flank{Blocks: []bed.AbsBlock{{Start: 1, Size: 10}}, Join: 5}
	assert.False(t, f.Empty())
	assert.Equal(t, int64(15), f.Len())
}

func TestSplice_MultiExon(t *testing.T) {
	r := newRecord("tx", 1000, 2000, [2]int64{1000, 1200}, [2]int64{1400, 1500}, [2]int64{1700, 2000})
	lead := Flank{Blocks: []bed.AbsBlock{{Start: 500, Size: 100}}, Join: 100}
	trail := Flank{Blocks: []bed.AbsBlock{{Start: 2300, Size: 200}}, Join: 50}

	out, err := Splice(r, lead, trail)
	require.NoError(t, err)

	assert.Equal(t, int64(500), out.Start)
	assert.Equal(t, int64(2500), out.End)
	assert.Equal(t, [][2]int64{{500, 600}, {900, 1200}, {1400, 1500}, {1700, 2050}, {2300, 2500}}, exonsOf(out))
	assert.Equal(t, int64(1000), out.CodingStart, "coding boundaries do not move")
	assert.Equal(t, int64(2000), out.CodingEnd)
	assert.Equal(t, r.Name, out.Name)
	assert.Equal(t, r.Strand, out.Strand)
	assert.Equal(t, int64(1000), r.Start, "input is not modified")
}

func TestSplice_SingleExonMergesBothSides(t *testing.T) {
	r := newRecord("single", 1000, 2000, [2]int64{1000, 2000})

	out, err := Splice(r, Flank{Join: 200}, Flank{Join: 300})
	require.NoError(t, err)
	assert.Equal(t, [][2]int64{{800, 2300}}, exonsOf(out))
	assert.Equal(t, 1, out.ExonCount())
}

func TestSplice_SingleExonWithSeparateUTRExons(t *testing.T) {
	r := newRecord("single", 1000, 2000, [2]int64{1000, 2000})
	lead := Flank{Blocks: []bed.AbsBlock{{Start: 400, Size: 100}}, Join: 50}
	trail := Flank{Blocks: []bed.AbsBlock{{Start: 2500, Size: 100}}}

	out, err := Splice(r, lead, trail)
	require.NoError(t, err)
	assert.Equal(t, [][2]int64{{400, 500}, {950, 2000}, {2500, 2600}}, exonsOf(out))
}

func TestSplice_EmptyFlanksPassThrough(t *testing.T) {
	r := newRecord("tx", 1000, 2000, [2]int64{1000, 1200}, [2]int64{1700, 2000})
	out, err := Splice(r, Flank{}, Flank{})
	require.NoError(t, err)
	assert.Equal(t, bed.Format(r), bed.Format(out))
}

func TestSplice_Errors(t *testing.T) {
	r := newRecord("tx", 1000, 2000, [2]int64{1000, 1200}, [2]int64{1700, 2000})
	r.Line = 3

	tests := []struct {
		name  string
		lead  Flank
		trail Flank
		msg   string
	}{
		{
			name: "negative join",
			lead: Flank{Join: -5},
			msg:  "negative utr join",
		},
		{
			name: "leading block overlaps first exon",
			lead: Flank{Blocks: []bed.AbsBlock{{Start: 950, Size: 100}}},
			msg:  "overlaps previous block",
		},
		{
			name:  "trailing block overlaps last exon",
			trail: Flank{Blocks: []bed.AbsBlock{{Start: 1900, Size: 300}}},
			msg:   "overlaps previous block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Splice(r, tt.lead, tt.trail)
			var fe *bed.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, 3, fe.Line)
			assert.Contains(t, fe.Message, tt.msg)
		})
	}
}
