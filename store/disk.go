package store

import (
	"github.com/coralstore/diskctl/cmn"
	"github.com/coralstore/diskctl/cmn/cos"
	"github.com/coralstore/diskctl/cmn/debug"
)

// HeadState is the per-head state that must survive across ticks: its
// position and where it sits in the READ-cost decay schedule (spec
// §4.3: "State carries across ticks"). The decay schedule itself
// (the cost table, the DP that picks actions) belongs to package head;
// Disk only carries the state head needs to resume it.
type HeadState struct {
	Position      int
	ReadStepIndex int // index into the decay schedule; meaningless if LastWasRead is false
	LastWasRead   bool
	ForceJump     bool // set when the previous tick's plan contained no READ (spec §4.3 step 4)
}

// Disk is a fixed-capacity circular array of cells (spec §3 Disk row),
// partitioned into equal-sized slices (tail slice may be shorter), with
// two independently scheduled heads.
type Disk struct {
	ID    int
	V     int
	Cells []Cell // 1-indexed, len V+1; Cells[0] unused
	sliceOf []int  // sliceOf[pos] = slice id, 1-indexed parallel to Cells

	Slices []Slice // 1-indexed, len SliceCount+1
	Heads  [2]HeadState

	m int // tag cardinality, for TagCount sizing
}

// NewDisk builds an empty disk with the given capacity, slice count,
// and tag cardinality (for per-slice tag-count arrays).
func NewDisk(id, v, sliceCount, m int) *Disk {
	d := &Disk{
		ID:      id,
		V:       v,
		Cells:   make([]Cell, v+1),
		sliceOf: make([]int, v+1),
		Slices:  make([]Slice, sliceCount+1),
		m:       m,
	}
	sliceSize := (v + sliceCount - 1) / sliceCount
	for i := 1; i <= sliceCount; i++ {
		start := (i-1)*sliceSize + 1
		end := i * sliceSize
		if end > v {
			end = v
		}
		if start > v {
			start = v + 1
			end = v
		}
		d.Slices[i] = Slice{
			Start:      start,
			End:        end,
			EmptyCount: end - start + 1,
			TagBitmap:  cos.NewTagSet(m),
			TagCount:   make([]int, m+1),
		}
		for p := start; p <= end; p++ {
			d.sliceOf[p] = i
		}
	}
	d.Heads[0] = HeadState{Position: 1}
	d.Heads[1] = HeadState{Position: 1}
	return d
}

// SliceCount returns the number of slices on this disk.
func (d *Disk) SliceCount() int { return len(d.Slices) - 1 }

// SliceOf returns the slice id owning cell position pos.
func (d *Disk) SliceOf(pos int) int { return d.sliceOf[pos] }

// Occupy writes an object block into cell pos, updating the owning
// slice's aggregates. pos must currently be empty (spec §3 invariant:
// "each cell owned by at most one object replica").
func (d *Disk) Occupy(pos, objectID, objectSize, tag, blockIndex int) {
	c := &d.Cells[pos]
	if !c.Empty() {
		panic(cmn.NewErrInvariantViolation("disk %d: write over live cell %d (held by object %d)", d.ID, pos, c.ObjectID))
	}
	*c = Cell{ObjectID: objectID, ObjectSize: objectSize, Tag: tag, BlockIndex: blockIndex}

	sl := &d.Slices[d.sliceOf[pos]]
	sl.EmptyCount--
	if sl.EmptyCount < 0 {
		panic(cmn.NewErrInvariantViolation("disk %d slice %d: empty count went negative", d.ID, d.sliceOf[pos]))
	}
	if sl.TagCount[tag] == 0 {
		sl.TagBitmap.Set(tag)
	}
	sl.TagCount[tag]++
}

// FreeCell clears cell pos (object deletion or GC relocation source),
// updating the owning slice's aggregates.
func (d *Disk) FreeCell(pos int) {
	c := &d.Cells[pos]
	if c.Empty() {
		return
	}
	tag := c.Tag
	sl := &d.Slices[d.sliceOf[pos]]
	sl.Pending -= c.Pending
	sl.TagCount[tag]--
	if sl.TagCount[tag] == 0 {
		sl.TagBitmap.Clear(tag)
	}
	sl.EmptyCount++
	c.Clear()
}

// SetPending adjusts cell pos's outstanding-request count and
// propagates the delta to the owning slice's aggregate (spec §3:
// "outstanding-request count = sum of per-cell pending counts").
func (d *Disk) SetPending(pos, delta int) {
	c := &d.Cells[pos]
	c.Pending += delta
	if c.Pending < 0 {
		panic(cmn.NewErrInvariantViolation("disk %d cell %d: pending count went negative", d.ID, pos))
	}
	d.Slices[d.sliceOf[pos]].Pending += delta
}

// ZeroPending clears cell pos's outstanding-request count entirely,
// used when a READ satisfies every request still waiting on that
// block regardless of how many there were (spec §4.3 execution
// side-effects: a single physical READ serves every pending request
// for that block, not just one).
func (d *Disk) ZeroPending(pos int) {
	c := &d.Cells[pos]
	if c.Pending == 0 {
		return
	}
	d.Slices[d.sliceOf[pos]].Pending -= c.Pending
	c.Pending = 0
}

// Pending returns the disk-wide outstanding-request count, the sum of
// every slice's Pending (spec §3 invariant).
func (d *Disk) Pending() int {
	total := 0
	for i := 1; i < len(d.Slices); i++ {
		total += d.Slices[i].Pending
	}
	return total
}

// EmptyCount returns the disk-wide empty-cell count.
func (d *Disk) EmptyCount() int {
	total := 0
	for i := 1; i < len(d.Slices); i++ {
		total += d.Slices[i].EmptyCount
	}
	return total
}

// debugAssertConsistent recomputes every aggregate from scratch and
// panics on mismatch when debug assertions are enabled (spec §8
// quantified invariants). No code path or test calls it at present.
func (d *Disk) debugAssertConsistent() {
	if !debug.Enabled {
		return
	}
	for i := 1; i < len(d.Slices); i++ {
		sl := &d.Slices[i]
		empties, pend := 0, 0
		tagCount := make([]int, d.m+1)
		for p := sl.Start; p <= sl.End; p++ {
			c := &d.Cells[p]
			if c.Empty() {
				empties++
				continue
			}
			tagCount[c.Tag]++
			pend += c.Pending
		}
		debug.Assert(empties == sl.EmptyCount, "empty count drifted")
		debug.Assert(pend == sl.Pending, "pending count drifted")
		for t := 0; t <= d.m; t++ {
			debug.Assert(tagCount[t] == sl.TagCount[t], "tag count drifted")
			debug.Assert((tagCount[t] > 0) == sl.TagBitmap.Has(t), "tag bitmap drifted")
		}
	}
}
