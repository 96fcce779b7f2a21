package lifecycle

import (
	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// Executor carries the shared state READ execution, completion,
// abandonment, and deletion all need to touch together.
type Executor struct {
	Disks []*store.Disk // 1-indexed
	Table *catalog.Table
	Gain  *gain.Model
	Stats *TagStats
}

// ExecuteRead applies spec §4.3's READ side-effects for one cell on
// one disk: if the cell is empty, it is a free no-op (the caller
// already charged the READ cost and advances the head). Otherwise it
// marks the block read for every request still waiting on it across
// all three replicas, and returns the ids of requests that are now
// fully served (all S blocks read), already removed from all tracked
// state.
func (e *Executor) ExecuteRead(diskID, pos, tick int) (completed []int) {
	d := e.Disks[diskID]
	c := &d.Cells[pos]
	if c.Empty() {
		return nil
	}
	c.LastQueryTick = tick
	objID, blk := c.ObjectID, c.BlockIndex
	obj := e.Table.Get(objID)
	if obj == nil {
		// Tolerated request-race (spec §7): object deleted same tick
		// after this cell's read was already scheduled.
		return nil
	}

	done := obj.MarkBlockRead(blk)
	for _, rep := range obj.Replicas {
		e.Disks[rep.Disk].ZeroPending(rep.Positions[blk])
	}
	for _, id := range done {
		if e.Stats != nil {
			e.Stats.Observe(obj.Tag, false)
		}
		e.finishRequest(obj, id, false)
	}
	return done
}

// Abandon terminates reqID on obj as an abandonment: same counter
// cleanup as completion, but the caller is responsible for placing
// reqID into the busy/abandoned output list. It records the
// abandonment against the tag's recent-rate stat itself, so its caller
// (the timeout oracle) must not record it again. Pre-admission
// rejections do not pass through here; Registrar.Register records
// those itself.
func (e *Executor) Abandon(obj *catalog.Object, reqID int) {
	if e.Stats != nil {
		e.Stats.Observe(obj.Tag, true)
	}
	e.finishRequest(obj, reqID, true)
}

// Delete terminates reqID because its parent object is being deleted
// (spec §3: ReadRequest lives until "deleted with object"). Not
// folded into the abandonment-rate stat: losing the backing object is
// not a service failure.
func (e *Executor) Delete(obj *catalog.Object, reqID int) {
	e.finishRequest(obj, reqID, true)
}

// finishRequest removes reqID from every piece of tracked state:
// decrements the still-outstanding per-block pending counts on all
// three replicas (for abandonment/deletion, where the request may not
// have read every block yet — completion has none left to decrement),
// removes it from the gain model's per-slice buckets, the request
// index, and the object's pending set.
func (e *Executor) finishRequest(obj *catalog.Object, reqID int, cancelled bool) {
	pr := obj.Pending[reqID]
	if pr == nil {
		return
	}
	if cancelled {
		for blk := 1; blk <= obj.Size; blk++ {
			if pr.Read[blk] {
				continue
			}
			obj.PerBlockPending[blk]--
			for _, rep := range obj.Replicas {
				e.Disks[rep.Disk].SetPending(rep.Positions[blk], -1)
			}
		}
	}
	for _, rep := range obj.Replicas {
		e.Gain.RemoveRequest(rep.Disk, rep.Slice, reqID, pr.Arrival, obj.Size)
	}
	obj.RemoveRequest(reqID)
	e.Table.UnindexRequest(reqID)
}
