package lifecycle

import (
	"math/rand"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// Registrar wires request registration across catalog, store, and
// gain together, and runs the pre-admission filter ahead of it (spec
// §4.5).
type Registrar struct {
	Disks []*store.Disk // 1-indexed
	Table *catalog.Table
	Gain  *gain.Model
	Stats *TagStats
	RNG   *rand.Rand
}

// Register handles one incoming read (object-id, request-id, arrival
// tick). It runs the pre-admission filter first; a rejected request
// is reported as busy (abandoned without ever being registered) and
// never touches per-cell or gain state. top is this tick's
// precomputed top-gain set (ComputeTopGain).
func (r *Registrar) Register(objectID, reqID, arrival int, top TopGain) (admitted bool) {
	obj := r.Table.Get(objectID)
	if obj == nil {
		return false
	}
	if !PreAdmit(obj, top, r.Stats, r.RNG) {
		r.Stats.Observe(obj.Tag, true)
		return false
	}

	obj.AddRequest(reqID, arrival)
	r.Table.IndexRequest(reqID, objectID)
	for _, rep := range obj.Replicas {
		d := r.Disks[rep.Disk]
		for blk := 1; blk <= obj.Size; blk++ {
			d.SetPending(rep.Positions[blk], 1)
		}
		r.Gain.AddRequest(rep.Disk, rep.Slice, reqID, obj.Size)
	}
	return true
}
