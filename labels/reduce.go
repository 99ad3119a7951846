// Package labels propagates per-element integer labels (e.g. entity tags) across the transformations
// described by the edit package, forward (original -> transformed) and backward (transformed -> original).
//
// Labels are never modified in place: every function returns a new slice.
package labels

import "github.com/gomlx/go-textalign/api"

// ReduceFunc maps the labels of a replaced span to the labels of its replacement, which has size elements.
// It must return a slice of exactly size labels. labels may be empty (pure insertions).
type ReduceFunc func(labels []int, size int) []int

// mostCommon returns the most frequent label in labels, ignoring api.NotEntity if skipNotEntity is set.
// Ties go to the smallest label value. It returns api.NotEntity if there is nothing to count.
func mostCommon(labels []int, skipNotEntity bool) int {
	counts := make(map[int]int, len(labels))
	best, bestCount := api.NotEntity, 0
	for _, l := range labels {
		if skipNotEntity && l == api.NotEntity {
			continue
		}
		counts[l]++
		c := counts[l]
		if c > bestCount || (c == bestCount && l < best) {
			best, bestCount = l, c
		}
	}
	return best
}

func fill(label, size int) []int {
	out := make([]int, size)
	if label != 0 {
		for ii := range out {
			out[ii] = label
		}
	}
	return out
}

// MostCommon fills the replacement with the most common label of the span (smallest label on ties,
// api.NotEntity for an empty span).
func MostCommon(labels []int, size int) []int {
	return fill(mostCommon(labels, false), size)
}

// MostCommonEntity is like MostCommon, but ignores api.NotEntity: a span with any entity label
// keeps it.
func MostCommonEntity(labels []int, size int) []int {
	return fill(mostCommon(labels, true), size)
}

// NotEntity fills the replacement with api.NotEntity, whatever the span labels.
func NotEntity(_ []int, size int) []int {
	return make([]int, size)
}

// Preserving keeps the labels unchanged when the replacement is as long as the span (e.g. lowercasing),
// and falls back to reduce otherwise.
func Preserving(reduce ReduceFunc) ReduceFunc {
	return func(labels []int, size int) []int {
		if len(labels) == size {
			out := make([]int, size)
			copy(out, labels)
			return out
		}
		return reduce(labels, size)
	}
}
