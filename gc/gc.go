// Package gc implements the periodic intra-disk block compaction pass
// (spec §4.6). It runs synchronously, inline within the tick that
// triggers it — never as a background goroutine — per the
// single-threaded cooperative execution model (spec §5). It borrows
// its vocabulary (Run, a bounded per-invocation swap budget) from
// aistore's xaction convention without adopting xaction's async
// lifecycle: there is no Abort, no WaitGroup, nothing to wait on.
package gc

import (
	"sort"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// candidate is one potential empty/occupied cell swap within a slice.
type candidate struct {
	emptyPos, occPos int
	gain             float64
}

// Swap is one executed block move, reported in the order performed
// (spec §6: "`<swap_count>` then that many lines `<pos_from> <pos_to>`").
type Swap struct {
	From, To int
}

// Run executes one GC pass over every disk (spec §4.6): for each
// slice with any occupancy and no head currently positioned on it,
// pair the i-th empty cell from the start with the i-th occupied cell
// from the end (only when empty-position < occupied-position), rank
// candidates by descending slice gain (ties by position), and take up
// to k swaps per disk. Returns the swaps executed, indexed by disk id
// (result[0] unused).
func Run(disks []*store.Disk, table *catalog.Table, gm *gain.Model, k int) [][]Swap {
	out := make([][]Swap, len(disks))
	for di := 1; di < len(disks); di++ {
		out[di] = runDisk(disks[di], table, gm, k)
	}
	return out
}

func runDisk(d *store.Disk, table *catalog.Table, gm *gain.Model, k int) []Swap {
	var cands []candidate
	for s := 1; s <= d.SliceCount(); s++ {
		sl := &d.Slices[s]
		if sl.EmptyCount == 0 || sl.EmptyCount == sl.Len() {
			continue // fully occupied or fully empty, nothing to compact
		}
		if headOnSlice(d, sl.Start, sl.End) {
			continue
		}
		g := gm.Gain(d.ID, s)
		cands = append(cands, pairCandidates(d, sl.Start, sl.End, g)...)
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].gain != cands[j].gain {
			return cands[i].gain > cands[j].gain
		}
		return cands[i].emptyPos < cands[j].emptyPos
	})

	if k >= 0 && len(cands) > k {
		cands = cands[:k]
	}

	swaps := make([]Swap, 0, len(cands))
	touched := make(map[int]bool)
	for _, c := range cands {
		touched[d.Cells[c.occPos].ObjectID] = true
		swap(d, c.emptyPos, c.occPos, table)
		swaps = append(swaps, Swap{From: c.occPos, To: c.emptyPos})
	}
	for objID := range touched {
		recomputeMaxPos(table.Get(objID))
	}
	return swaps
}

func headOnSlice(d *store.Disk, start, end int) bool {
	for i := 0; i < 2; i++ {
		p := d.Heads[i].Position
		if p >= start && p <= end {
			return true
		}
	}
	return false
}

// pairCandidates pairs the i-th empty cell from start with the i-th
// occupied cell from end, only while empty-position < occupied-
// position (spec §4.6).
func pairCandidates(d *store.Disk, start, end int, g float64) []candidate {
	var empties, occs []int
	for p := start; p <= end; p++ {
		if d.Cells[p].Empty() {
			empties = append(empties, p)
		}
	}
	for p := end; p >= start; p-- {
		if !d.Cells[p].Empty() {
			occs = append(occs, p)
		}
	}
	n := len(empties)
	if len(occs) < n {
		n = len(occs)
	}
	out := make([]candidate, 0, n)
	for i := 0; i < n; i++ {
		if empties[i] < occs[i] {
			out = append(out, candidate{emptyPos: empties[i], occPos: occs[i], gain: g})
		}
	}
	return out
}

// swap moves the occupied cell's object-block into the empty cell,
// updates the object's replica position record, and adjusts slice
// counters on both ends (spec §4.6).
func swap(d *store.Disk, emptyPos, occPos int, table *catalog.Table) {
	occ := d.Cells[occPos]
	d.FreeCell(occPos)
	d.Occupy(emptyPos, occ.ObjectID, occ.ObjectSize, occ.Tag, occ.BlockIndex)
	d.Cells[emptyPos].Pending = occ.Pending
	d.Slices[d.SliceOf(emptyPos)].Pending += occ.Pending

	obj := table.Get(occ.ObjectID)
	if obj == nil {
		return
	}
	for i := range obj.Replicas {
		rep := &obj.Replicas[i]
		if rep.Disk != d.ID {
			continue
		}
		for blk, p := range rep.Positions {
			if p == occPos {
				rep.Positions[blk] = emptyPos
			}
		}
	}
}

// recomputeMaxPos recomputes every replica's max_position after GC
// moved cells around (spec §4.6: "After GC, recompute each object's
// per-replica max_position").
func recomputeMaxPos(obj *catalog.Object) {
	if obj == nil {
		return
	}
	for i := range obj.Replicas {
		rep := &obj.Replicas[i]
		max := 0
		for _, p := range rep.Positions {
			if p > max {
				max = p
			}
		}
		rep.MaxPos = max
	}
}
