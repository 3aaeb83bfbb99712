package utr

import "github.com/inodb/vibe-utr/internal/bed"

// SelectStart returns the most frequent 5' start. Ties go to the smallest
// start, i.e. the longest UTR. votes is the winning frequency; ok is false
// for empty input.
func SelectStart(values []int64) (value int64, votes int, ok bool) {
	return mostCommon(values, func(a, b int64) bool { return a < b })
}

// SelectEnd returns the most frequent 3' end. Ties go to the largest end.
func SelectEnd(values []int64) (value int64, votes int, ok bool) {
	return mostCommon(values, func(a, b int64) bool { return a > b })
}

// mostCommon returns the value with the highest count; among equally
// frequent values the one for which better(value, other) holds wins.
func mostCommon(values []int64, better func(a, b int64) bool) (int64, int, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}

	counts := make(map[int64]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := values[0], counts[values[0]]
	for v, n := range counts {
		if n > bestCount || (n == bestCount && better(v, best)) {
			best, bestCount = v, n
		}
	}
	return best, bestCount, true
}

func starts(records []*bed.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.Start
	}
	return out
}

func ends(records []*bed.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.End
	}
	return out
}

// firstWith returns the first record whose coordinate equals value.
func firstWith(records []*bed.Record, coord func(*bed.Record) int64, value int64) *bed.Record {
	for _, r := range records {
		if coord(r) == value {
			return r
		}
	}
	return nil
}
