// Package placement implements the write-batch placement engine (spec
// §4.1): ordering a batch of incoming objects, picking a group from
// the precomputed group plan for each, and committing best-fit cell
// assignments across all three replicas.
package placement

import "sort"

// Request is one incoming write, not yet placed.
type Request struct {
	ObjectID int
	Size     int
	Tag      int
}

// orderBatch sorts reqs by (size, read_frequency[tag][timeBlock], tag)
// ascending (spec §4.1 step 1). freqAt resolves the read-frequency term
// for the caller's chosen time block so this package does not need to
// know about cmn.Config directly.
func orderBatch(reqs []Request, freqAt func(tag int) int) []Request {
	out := make([]Request, len(reqs))
	copy(out, reqs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		fa, fb := freqAt(a.Tag), freqAt(b.Tag)
		if fa != fb {
			return fa < fb
		}
		return a.Tag < b.Tag
	})
	return out
}
