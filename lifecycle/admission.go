package lifecycle

import (
	"math/rand"
	"sort"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// TopGain is the set of (disk, slice) pairs ranked in the top-N by
// current gain, recomputed once per tick and shared across every
// pre-admission check that tick (spec §4.5: "ranked worse than the
// top-2 by current gain").
type TopGain map[[2]int]bool

// ComputeTopGain ranks every (disk, slice) pair on disks by current
// gain and returns the top n as a membership set.
func ComputeTopGain(disks []*store.Disk, gm *gain.Model, n int) TopGain {
	type entry struct {
		key [2]int
		g   float64
	}
	var all []entry
	for di := 1; di < len(disks); di++ {
		d := disks[di]
		for s := 1; s <= d.SliceCount(); s++ {
			all = append(all, entry{key: [2]int{d.ID, s}, g: gm.Gain(d.ID, s)})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].g > all[j].g })
	if n > len(all) {
		n = len(all)
	}
	top := make(TopGain, n)
	for i := 0; i < n; i++ {
		top[all[i].key] = true
	}
	return top
}

// PreAdmit implements spec §4.5's pre-admission filter. It admits the
// request outright unless the object's three replica slices are all
// outside top AND the tag's recent abandonment rate exceeds 0.02; in
// that case it admits with probability 1/rate (capped at 1). Since a
// TagStats rate never exceeds 1, that probability is always 1, so
// PreAdmit admits every request.
func PreAdmit(obj *catalog.Object, top TopGain, stats *TagStats, rng *rand.Rand) bool {
	allOutsideTop2 := true
	for _, rep := range obj.Replicas {
		if top[[2]int{rep.Disk, rep.Slice}] {
			allOutsideTop2 = false
			break
		}
	}
	if !allOutsideTop2 {
		return true
	}
	rate := stats.Rate(obj.Tag)
	if rate <= 0.02 {
		return true
	}
	p := 1.0 / rate
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}
