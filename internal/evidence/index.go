package evidence

import (
	"fmt"

	"github.com/inodb/vibe-utr/internal/bed"
)

// Index maps boundary keys to every evidence transcript producing that key.
// Buckets keep evidence file order. An Index is read-only once built and
// safe for concurrent lookups.
type Index struct {
	mode    Mode
	buckets map[Key][]*bed.Record
	keys    []Key // first-insertion order
	records int
}

// Build indexes records by their boundary keys. Redundant evidence is kept:
// a key maps to every record that produced it.
func Build(records []*bed.Record, mode Mode) (*Index, error) {
	idx := &Index{
		mode:    mode,
		buckets: make(map[Key][]*bed.Record),
	}
	for _, r := range records {
		keys, err := Boundaries(r, mode)
		if err != nil {
			return nil, fmt.Errorf("index evidence %s: %w", r.Name, err)
		}
		for _, k := range keys {
			if _, ok := idx.buckets[k]; !ok {
				idx.keys = append(idx.keys, k)
			}
			idx.buckets[k] = append(idx.buckets[k], r)
		}
		idx.records++
	}
	return idx, nil
}

// Load reads an evidence BED12 file and indexes it.
func Load(path string, mode Mode) (*Index, error) {
	records, err := bed.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(records, mode)
}

// Lookup returns the evidence records sharing key k, or nil if none do.
func (idx *Index) Lookup(k Key) []*bed.Record {
	return idx.buckets[k]
}

// Mode returns the boundary mode the index was built with.
func (idx *Index) Mode() Mode {
	return idx.mode
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	return len(idx.keys)
}

// Records returns the number of indexed evidence records.
func (idx *Index) Records() int {
	return idx.records
}

// Keys returns the keys in first-insertion order.
func (idx *Index) Keys() []Key {
	return idx.keys
}
