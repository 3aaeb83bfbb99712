// Package utr adds untranslated regions to coding-only transcripts using
// transcript-assembly evidence.
package utr

import (
	"github.com/inodb/vibe-utr/internal/bed"
	"github.com/inodb/vibe-utr/internal/evidence"
)

// Candidates holds the evidence matched at an annotation's terminal boundaries.
type Candidates struct {
	Record *bed.Record
	UTR5   []*bed.Record // evidence starting upstream of Record.Start
	UTR3   []*bed.Record // evidence ending downstream of Record.End
	// NoBoundary is set when the record has no boundary to match on
	// (a single-exon record in intron mode).
	NoBoundary bool
}

// Matcher looks up annotation transcripts in an evidence index.
type Matcher struct {
	index *evidence.Index
}

// NewMatcher creates a matcher. Boundaries are extracted with the index's mode.
func NewMatcher(idx *evidence.Index) *Matcher {
	return &Matcher{index: idx}
}

// Match returns the evidence sharing r's first boundary and extending past
// its start, and the evidence sharing r's last boundary and extending past
// its end.
func (m *Matcher) Match(r *bed.Record) (*Candidates, error) {
	c := &Candidates{Record: r}

	first, last, ok, err := evidence.Terminal(r, m.index.Mode())
	if err != nil {
		return nil, err
	}
	if !ok {
		c.NoBoundary = true
		return c, nil
	}

	for _, e := range m.index.Lookup(first) {
		if e.Start < r.Start {
			c.UTR5 = append(c.UTR5, e)
		}
	}
	for _, e := range m.index.Lookup(last) {
		if e.End > r.End {
			c.UTR3 = append(c.UTR3, e)
		}
	}
	return c, nil
}

// GroupByName groups records by name. Groups are ordered by the first
// appearance of each name and keep their records in input order.
func GroupByName(records []*bed.Record) [][]*bed.Record {
	pos := make(map[string]int)
	var groups [][]*bed.Record
	for _, r := range records {
		i, ok := pos[r.Name]
		if !ok {
			i = len(groups)
			pos[r.Name] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}
