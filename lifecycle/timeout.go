// Package lifecycle owns the request life cycle (spec §4.5):
// registration, the timeout oracle, abandonment, and the
// pre-admission filter. It sits above store/catalog/gain, gluing
// their per-request bookkeeping together the way aistore's xaction
// layer glues storage + metadata + stats together for one operation.
package lifecycle

import (
	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/cmn"
	"github.com/coralstore/diskctl/head"
	"github.com/coralstore/diskctl/store"
)

// finishCost[size] is the sum of `size` READ costs starting from a
// fresh READ (spec §4.5: "finish_cost is the sum of S READ costs
// starting from a fresh READ (size-indexed table; size ≤ 5)").
var finishCost = buildFinishCost(5)

func buildFinishCost(maxSize int) []int {
	out := make([]int, maxSize+1)
	sum := 0
	for s := 1; s <= maxSize; s++ {
		sum += head.CostAt(s - 1)
		out[s] = sum
	}
	return out
}

// FinishCost returns finish_cost(size), defined for size in [1, 5]
// per spec; sizes beyond the table extend the last cost per
// additional block (§9 Open Questions: object size is bounded by 5 in
// the contest's scoring inputs, but the formula should degrade
// gracefully rather than panic if a future input relaxes that).
func FinishCost(size int) int {
	if size <= 0 {
		return 0
	}
	if size < len(finishCost) {
		return finishCost[size]
	}
	extra := size - (len(finishCost) - 1)
	return finishCost[len(finishCost)-1] + extra*head.CostAt(len(head.DecaySchedule)-1)
}

// ETS computes the estimated time-to-serve for obj at the given tick
// and effective budget (spec §4.5).
func ETS(disks []*store.Disk, obj *catalog.Object, tick, gEff int) int {
	best := -1
	for _, rep := range obj.Replicas {
		d := disks[rep.Disk]
		sl := &d.Slices[rep.Slice]
		var v int
		if headInSlice(d, sl.Start, sl.End) {
			v = 0
		} else {
			fc := FinishCost(obj.Size)
			v = 1 + ceilDiv(fc+gEff-1+(rep.MaxPos-sl.Start), gEff)
		}
		if best < 0 || v < best {
			best = v
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func headInSlice(d *store.Disk, start, end int) bool {
	for i := 0; i < 2; i++ {
		p := d.Heads[i].Position
		if p >= start && p <= end {
			return true
		}
	}
	return false
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// ShouldAbandon implements spec §4.5's abandonment predicate:
// deadline projection or tag abandonment pressure.
func ShouldAbandon(ets, age int, tag int, stats *TagStats) bool {
	const targetLifetime = cmn.Horizon
	if (targetLifetime - ets) < age {
		return true
	}
	const tau = 0.015 // spec §9: tuned empirically, τ ≈ 0.01-0.02
	return stats.Rate(tag) > tau
}
