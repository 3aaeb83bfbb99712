package utr

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-utr/internal/bed"
	"github.com/inodb/vibe-utr/internal/evidence"
)

// Status describes what happened on one side of a transcript.
type Status string

const (
	StatusExtended   Status = "extended"
	StatusNoEvidence Status = "no_evidence"
	StatusHasUTR     Status = "has_utr"
	StatusNoBoundary Status = "no_boundary"
)

// SideDecision records the consensus outcome for one side.
type SideDecision struct {
	Status     Status
	Candidates int    // evidence transcripts extending past the boundary
	Support    int    // votes for the chosen coordinate
	Coordinate int64  // chosen evidence start (5') or end (3'); 0 unless extended
	Evidence   string // name of the evidence transcript spliced in
	Bases      int64  // noncoding bases added
}

// Result is the outcome of extending one annotation transcript.
type Result struct {
	Seq    int
	Input  *bed.Record
	Output *bed.Record
	UTR5   SideDecision
	UTR3   SideDecision
}

// Config holds the immutable settings of an extension run.
type Config struct {
	Workers int // 0 means runtime.NumCPU()
}

// RecordWriter receives the updated records in output order.
type RecordWriter interface {
	Write(r *bed.Record) error
	Flush() error
}

// Extender adds UTRs to annotation transcripts from a shared evidence index.
type Extender struct {
	matcher *Matcher
	cfg     Config
	logger  *zap.Logger
}

// NewExtender creates an extender over a built evidence index.
func NewExtender(idx *evidence.Index, cfg Config) *Extender {
	return &Extender{
		matcher: NewMatcher(idx),
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and debug messages.
func (e *Extender) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Extend adds UTRs to a single transcript. A side is only extended if the
// transcript has no UTR there yet. Transcripts without usable evidence are
// returned unchanged.
func (e *Extender) Extend(r *bed.Record) (*Result, error) {
	c, err := e.matcher.Match(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Input: r}
	lead, trail := Flank{}, Flank{}

	switch {
	case c.NoBoundary:
		res.UTR5.Status = StatusNoBoundary
	case r.HasUTR5():
		res.UTR5 = SideDecision{Status: StatusHasUTR, Candidates: len(c.UTR5)}
	default:
		res.UTR5, lead = e.chooseLeading(r, c.UTR5)
	}

	switch {
	case c.NoBoundary:
		res.UTR3.Status = StatusNoBoundary
	case r.HasUTR3():
		res.UTR3 = SideDecision{Status: StatusHasUTR, Candidates: len(c.UTR3)}
	default:
		res.UTR3, trail = e.chooseTrailing(r, c.UTR3)
	}

	if res.Output, err = Splice(r, lead, trail); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Extender) chooseLeading(r *bed.Record, cands []*bed.Record) (SideDecision, Flank) {
	d := SideDecision{Status: StatusNoEvidence, Candidates: len(cands)}
	start, votes, ok := SelectStart(starts(cands))
	if !ok {
		return d, Flank{}
	}
	ev := firstWith(cands, func(x *bed.Record) int64 { return x.Start }, start)
	f := LeadingFlank(ev, r.Start)
	if f.Empty() {
		e.logger.Debug("evidence does not reach coding start",
			zap.String("transcript", r.Name), zap.String("evidence", ev.Name))
		return d, Flank{}
	}
	d.Status = StatusExtended
	d.Support = votes
	d.Coordinate = start
	d.Evidence = ev.Name
	d.Bases = f.Len()
	return d, f
}

func (e *Extender) chooseTrailing(r *bed.Record, cands []*bed.Record) (SideDecision, Flank) {
	d := SideDecision{Status: StatusNoEvidence, Candidates: len(cands)}
	end, votes, ok := SelectEnd(ends(cands))
	if !ok {
		return d, Flank{}
	}
	ev := firstWith(cands, func(x *bed.Record) int64 { return x.End }, end)
	f := TrailingFlank(ev, r.End)
	if f.Empty() {
		e.logger.Debug("evidence does not reach coding end",
			zap.String("transcript", r.Name), zap.String("evidence", ev.Name))
		return d, Flank{}
	}
	d.Status = StatusExtended
	d.Support = votes
	d.Coordinate = end
	d.Evidence = ev.Name
	d.Bases = f.Len()
	return d, f
}

// ExtendAll extends every record and writes the updated records in
// deterministic order: names in order of first appearance, with records
// sharing a name emitted together in input order. Nothing is written if any
// transcript fails.
func (e *Extender) ExtendAll(records []*bed.Record, writer RecordWriter) ([]*Result, error) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan WorkItem, 2*workers)
	go func() {
		defer close(items)
		seq := 0
		for _, group := range GroupByName(records) {
			for _, r := range group {
				items <- WorkItem{Seq: seq, Record: r}
				seq++
			}
		}
	}()

	results := make([]*Result, 0, len(records))
	err := OrderedCollect(e.ParallelExtend(items, workers), func(wr WorkResult) error {
		if wr.Err != nil {
			return fmt.Errorf("extend %s: %w", wr.Record.Name, wr.Err)
		}
		wr.Result.Seq = wr.Seq
		results = append(results, wr.Result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var utr5, utr3 int
	for _, res := range results {
		if err := writer.Write(res.Output); err != nil {
			return nil, fmt.Errorf("write record: %w", err)
		}
		if res.UTR5.Status == StatusExtended {
			utr5++
		}
		if res.UTR3.Status == StatusExtended {
			utr3++
		}
	}

	if len(results) == 0 {
		e.logger.Info("0 transcripts processed")
	} else {
		e.logger.Info("extended transcripts",
			zap.Int("transcripts", len(results)),
			zap.Int("utr5_added", utr5),
			zap.Int("utr3_added", utr3))
	}

	return results, writer.Flush()
}
