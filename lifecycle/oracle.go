package lifecycle

import (
	"sort"

	"github.com/coralstore/diskctl/catalog"
)

// Oracle runs the per-tick timeout scan (spec §4.5, §5 "timeout
// oracle + emit abandonments" phase): for every pending request,
// compute ETS and decide whether to abandon it proactively.
type Oracle struct {
	Exec  *Executor
	Stats *TagStats
	GEff  func(tick int) int
}

// Run scans every live object's pending requests at tick and abandons
// the ones the deadline projection or tag pressure condemns,
// returning their ids sorted ascending (deterministic emit order,
// spec §9).
func (o *Oracle) Run(tick int) []int {
	var abandoned []int
	gEff := o.GEff(tick)
	o.Exec.Table.ForEach(func(obj *catalog.Object) {
		for _, pr := range obj.PendingByArrival() {
			age := tick - pr.Arrival
			ets := ETS(o.Exec.Disks, obj, tick, gEff)
			if ShouldAbandon(ets, age, obj.Tag, o.Stats) {
				o.Exec.Abandon(obj, pr.ReqID)
				abandoned = append(abandoned, pr.ReqID)
			}
		}
	})
	sort.Ints(abandoned)
	return abandoned
}
