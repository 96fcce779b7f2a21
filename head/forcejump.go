package head

import (
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// ForceJumpTarget implements spec §4.3 strategy step 1: pick the
// slice with the maximum current gain score, then the first cell in
// that slice (scanning forward from its start) with an
// outstanding-request count > 0. Ties in gain are broken by lower
// slice id, for reproducibility. ok is false if the disk has no cell
// with any outstanding request at all, in which case the caller should
// leave the force-jump flag set and emit nothing this tick.
func ForceJumpTarget(disk *store.Disk, gm *gain.Model) (pos int, ok bool) {
	type ranked struct {
		slice int
		g     float64
	}
	order := make([]ranked, 0, disk.SliceCount())
	for s := 1; s <= disk.SliceCount(); s++ {
		order = append(order, ranked{slice: s, g: gm.Gain(disk.ID, s)})
	}
	for i := 0; i < len(order); i++ {
		best := i
		for j := i + 1; j < len(order); j++ {
			if order[j].g > order[best].g || (order[j].g == order[best].g && order[j].slice < order[best].slice) {
				best = j
			}
		}
		order[i], order[best] = order[best], order[i]
	}

	for _, r := range order {
		sl := &disk.Slices[r.slice]
		for p := sl.Start; p <= sl.End; p++ {
			if disk.Cells[p].Pending > 0 {
				return p, true
			}
		}
	}
	return 0, false
}
