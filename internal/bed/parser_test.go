package bed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoExonLine = "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0,0,0\t2\t200,300,\t0,700,"

func TestParser_TwoExonRecord(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(twoExonLine + "\n"))

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "chr1", r.Chrom)
	assert.Equal(t, int64(1000), r.Start)
	assert.Equal(t, int64(2000), r.End)
	assert.Equal(t, "tx1", r.Name)
	assert.Equal(t, "0", r.Score)
	assert.Equal(t, "+", r.Strand)
	assert.Equal(t, int64(1000), r.CodingStart)
	assert.Equal(t, int64(2000), r.CodingEnd)
	assert.Equal(t, "0,0,0", r.RGB)
	assert.Equal(t, []Block{{Offset: 0, Size: 200}, {Offset: 700, Size: 300}}, r.Blocks)
	assert.Equal(t, 1, r.Line)

	assert.Equal(t, int64(1200), r.BlockEnd(0))
	assert.Equal(t, int64(1700), r.BlockStart(1))

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParser_SkipsHeadersAndBlankLines(t *testing.T) {
	input := "track name=test\n# comment\n\nbrowser position chr1\n" + twoExonLine + "\n"
	p := NewParserFromReader(strings.NewReader(input))

	records, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].Line)
}

func TestParser_NoTrailingNewline(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(twoExonLine))
	records, err := p.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParser_BlockListWithoutTrailingComma(t *testing.T) {
	line := "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,300\t0,700"
	records, err := NewParserFromReader(strings.NewReader(line)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Len(t, records[0].Blocks, 2)
}

func TestParser_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		message string
	}{
		{
			name:    "eleven fields",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,300,",
			message: "expected 12 columns, found 11",
		},
		{
			name:    "bad start",
			line:    "chr1\tabc\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,300,\t0,700,",
			message: "invalid integer in column 2",
		},
		{
			name:    "block count disagrees",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t3\t200,300,\t0,700,",
			message: "block count 3 disagrees",
		},
		{
			name:    "bad block size",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,x,\t0,700,",
			message: "invalid block sizes",
		},
		{
			name:    "coding outside extent",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t900\t2000\t0\t2\t200,300,\t0,700,",
			message: "coding interval 900-2000 outside transcript",
		},
		{
			name:    "blocks do not cover extent",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,200,\t0,700,",
			message: "last block ends at offset 900",
		},
		{
			name:    "overlapping blocks",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t800,300,\t0,700,",
			message: "overlaps previous block",
		},
		{
			name:    "first block offset",
			line:    "chr1\t1000\t2000\ttx1\t0\t+\t1000\t2000\t0\t2\t200,300,\t10,700,",
			message: "first block starts at offset 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := twoExonLine + "\n" + tt.line + "\n"
			records, err := NewParserFromReader(strings.NewReader(input)).ReadAll()
			require.Error(t, err)
			assert.Nil(t, records, "no partial output on error")

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, 2, fe.Line)
			assert.Contains(t, fe.Message, tt.message)
		})
	}
}

func TestParser_FileErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.bed")
	require.NoError(t, os.WriteFile(path, []byte("chr1\t1\t2\n"), 0644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":1")
}

func TestParser_Gzip(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "anno.bed")
	gz := filepath.Join(dir, "anno.bed.gz")
	content := twoExonLine + "\n" + strings.Replace(twoExonLine, "tx1", "tx2", 1) + "\n"
	require.NoError(t, os.WriteFile(plain, []byte(content), 0644))

	f, err := os.Create(gz)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	want, err := ReadFile(plain)
	require.NoError(t, err)
	got, err := ReadFile(gz)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "missing.bed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
