package head

import (
	"sort"

	"github.com/coralstore/diskctl/cmn"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

// TickPlan is one head's final action list for the tick, ready for
// execution.
type TickPlan struct {
	DiskID int
	Head   int
	Actions []Action
}

// PlanAll runs spec §4.3's full per-tick strategy selection across
// every head on every disk, including the cross-head load-balancing
// pass and its mandated deterministic ordering (spec §5: "ascending
// failure to read → force-jump prep → descending tentative READ
// count → sequential emit"). disks is 1-indexed (disks[0] unused).
func PlanAll(disks []*store.Disk, cfg *cmn.Config, gm *gain.Model, tick int) []TickPlan {
	budget := cfg.EffectiveBudget(tick)

	type headRef struct {
		diskIdx int
		head    int
	}
	type candidate struct {
		ref            headRef
		forceJump      bool
		newlyFlagged   bool
		tentativeReads int
	}

	var cands []candidate
	for di := 1; di < len(disks); di++ {
		d := disks[di]
		for h := 0; h < 2; h++ {
			hs := &d.Heads[h]
			ref := headRef{diskIdx: di, head: h}
			if hs.ForceJump {
				cands = append(cands, candidate{ref: ref, forceJump: true})
				continue
			}
			k0 := 0
			if hs.LastWasRead {
				k0 = hs.ReadStepIndex
			}
			actions, _, _, _, hadRead := Plan(hs.Position, budget, k0, d.V, func(p int) bool {
				return d.Cells[p].Pending > 0
			})
			reads := countReads(actions)
			if !hadRead || reads == 0 {
				cands = append(cands, candidate{ref: ref, forceJump: true, newlyFlagged: true})
			} else {
				cands = append(cands, candidate{ref: ref, tentativeReads: reads})
			}
		}
	}

	// Force-jump prep: set the flag now so a later recompute (this
	// pass or a future tick, if this disk has no pending cell at all)
	// observes it. For heads newly flagged this tick (their tentative
	// plan came back empty), also clear the gain contribution of the
	// slice they currently sit on, so other heads can target those
	// cells instead (spec §4.3).
	for _, c := range cands {
		if c.forceJump {
			disks[c.ref.diskIdx].Heads[c.ref.head].ForceJump = true
		}
		if c.newlyFlagged {
			d := disks[c.ref.diskIdx]
			hs := &d.Heads[c.ref.head]
			gm.Dampen(d.ID, d.SliceOf(hs.Position))
		}
	}

	// Force-jump-flagged heads sort first (ascending failure to read
	// is vacuous among themselves — they already failed), then the
	// rest by descending tentative READ count.
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.forceJump != b.forceJump {
			return a.forceJump
		}
		return a.tentativeReads > b.tentativeReads
	})

	plans := make([]TickPlan, 0, len(cands))
	for _, c := range cands {
		d := disks[c.ref.diskIdx]
		hs := &d.Heads[c.ref.head]

		if hs.ForceJump {
			pos, ok := ForceJumpTarget(d, gm)
			if !ok {
				plans = append(plans, TickPlan{DiskID: d.ID, Head: c.ref.head})
				continue
			}
			hs.ForceJump = false
			hs.Position = pos
			hs.LastWasRead = false
			hs.ReadStepIndex = 0
			gm.Dampen(d.ID, d.SliceOf(pos))
			plans = append(plans, TickPlan{DiskID: d.ID, Head: c.ref.head, Actions: []Action{{Kind: Jump, Pos: pos}}})
			continue
		}

		k0 := 0
		if hs.LastWasRead {
			k0 = hs.ReadStepIndex
		}
		actions, newPos, newK, lastWasRead, hadRead := Plan(hs.Position, budget, k0, d.V, func(p int) bool {
			return d.Cells[p].Pending > 0
		})
		if !hadRead {
			hs.ForceJump = true
			plans = append(plans, TickPlan{DiskID: d.ID, Head: c.ref.head})
			continue
		}
		hs.Position = newPos
		hs.ReadStepIndex = newK
		hs.LastWasRead = lastWasRead
		plans = append(plans, TickPlan{DiskID: d.ID, Head: c.ref.head, Actions: actions})
	}
	return plans
}

func countReads(actions []Action) int {
	n := 0
	for _, a := range actions {
		if a.Kind == Read {
			n++
		}
	}
	return n
}
