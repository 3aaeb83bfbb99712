package utr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-utr/internal/evidence"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := 0; i < n; i++ {
		start := int64(1000 * (i + 1))
		ch <- WorkItem{
			Seq:    i,
			Record: newRecord(fmt.Sprintf("tx%d", i), start, start+500, [2]int64{start, start + 500}),
		}
	}
	close(ch)
	return ch
}

func emptyExtender(t *testing.T) *Extender {
	t.Helper()
	return NewExtender(buildIndex(t, evidence.ModeIntron), Config{})
}

func TestParallelExtend_OrderPreservation(t *testing.T) {
	ext := emptyExtender(t)

	results := ext.ParallelExtend(makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelExtend_SingleWorker(t *testing.T) {
	ext := emptyExtender(t)

	results := ext.ParallelExtend(makeItems(50), 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestParallelExtend_RecordPreserved(t *testing.T) {
	ext := emptyExtender(t)

	err := OrderedCollect(ext.ParallelExtend(makeItems(10), 4), func(r WorkResult) error {
		assert.Equal(t, fmt.Sprintf("tx%d", r.Seq), r.Record.Name)
		assert.Same(t, r.Record, r.Result.Input)
		return nil
	})
	require.NoError(t, err)
}

func TestParallelExtend_EmptyInput(t *testing.T) {
	ext := emptyExtender(t)

	ch := make(chan WorkItem)
	close(ch)

	count := 0
	err := OrderedCollect(ext.ParallelExtend(ch, 4), func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	ext := emptyExtender(t)

	count := 0
	err := OrderedCollect(ext.ParallelExtend(makeItems(100), 4), func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestParallelExtend_DefaultWorkers(t *testing.T) {
	ext := emptyExtender(t)

	count := 0
	err := OrderedCollect(ext.ParallelExtend(makeItems(20), 0), func(r WorkResult) error {
		require.NoError(t, r.Err)
		assert.Equal(t, StatusNoBoundary, r.Result.UTR5.Status)
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 20, count)
}
