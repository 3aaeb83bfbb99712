package utr

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-utr/internal/bed"
)

// WorkItem is an annotation record queued for extension. Seq is its position
// in the output.
type WorkItem struct {
	Seq    int
	Record *bed.Record
}

// WorkResult is the outcome of extending one WorkItem.
type WorkResult struct {
	Seq    int
	Record *bed.Record
	Result *Result
	Err    error
}

// ParallelExtend fans items out to a pool of workers that share the read-only
// evidence index. Results arrive in completion order; pass the channel to
// OrderedCollect to restore Seq order. Non-positive workers means
// runtime.NumCPU().
func (e *Extender) ParallelExtend(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for it := range items {
				res, err := e.Extend(it.Record)
				out <- WorkResult{Seq: it.Seq, Record: it.Record, Result: res, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// OrderedCollect hands results to fn in Seq order, holding back any that
// arrive early. The first error from fn stops delivery; the channel is still
// drained so workers can exit.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0

	var err error
	for r := range results {
		if err != nil {
			continue
		}
		held[r.Seq] = r
		for err == nil {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			err = fn(ready)
		}
	}
	return err
}
