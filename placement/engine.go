package placement

import (
	"sort"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/cmn"
	"github.com/coralstore/diskctl/group"
	"github.com/coralstore/diskctl/store"
)

// Engine places write batches against a fixed set of disks and a
// precomputed group plan (spec §4.1).
type Engine struct {
	disks []*store.Disk // disks[id], 1-indexed; disks[0] unused
	plan  *group.Plan
	table *catalog.Table
}

// NewEngine builds a placement Engine over disks (1-indexed slice),
// the init-time group plan, and the shared object table.
func NewEngine(disks []*store.Disk, plan *group.Plan, table *catalog.Table) *Engine {
	return &Engine{disks: disks, plan: plan, table: table}
}

// Result is one request's outcome: the object id and its three
// committed replicas, in the same order as store.Disk/catalog.Replica.
type Result struct {
	ObjectID int
	Replicas [3]catalog.Replica
}

// PlaceBatch orders reqs (spec §4.1 step 1) and places each in turn,
// committing it before moving to the next so later requests in the
// same batch see the updated occupancy. freqAt resolves
// read_frequency[tag][current_time_block] for the ordering key.
func (e *Engine) PlaceBatch(reqs []Request, freqAt func(tag int) int) ([]Result, error) {
	ordered := orderBatch(reqs, freqAt)
	out := make([]Result, 0, len(ordered))
	for _, r := range ordered {
		res, err := e.placeOne(r)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// placeOne implements spec §4.1 steps 2-5 for a single request.
func (e *Engine) placeOne(r Request) (Result, error) {
	eligible := e.eligibleGroups(r.Size)
	if len(eligible) == 0 {
		return Result{}, cmn.NewErrCapacityExhausted(r.ObjectID, r.Size)
	}

	best := e.rankGroups(eligible, r.Tag)

	var replicas [3]catalog.Replica
	for i, ent := range best.Entries {
		disk := e.disks[ent.Disk]
		sl := &disk.Slices[ent.Slice]
		dir := 1
		if disk.ID%2 == 0 {
			dir = -1
		}
		positions, ok := sl.BestFit(disk.Cells, r.Size, dir)
		if !ok {
			return Result{}, cmn.NewErrCapacityExhausted(r.ObjectID, r.Size)
		}
		for blk, pos := range positions {
			disk.Occupy(pos, r.ObjectID, r.Size, r.Tag, blk+1)
		}
		maxPos := 0
		for _, p := range positions {
			if p > maxPos {
				maxPos = p
			}
		}
		replicas[i] = catalog.Replica{
			Disk:      ent.Disk,
			Slice:     ent.Slice,
			Positions: append([]int{0}, positions...),
			MaxPos:    maxPos,
		}
	}

	obj := catalog.NewObject(r.ObjectID, r.Size, r.Tag, replicas)
	e.table.Put(obj)
	return Result{ObjectID: r.ObjectID, Replicas: replicas}, nil
}

// eligibleGroups returns groups whose first (disk, slice) has
// empty-count >= size (spec §4.1 step 2).
func (e *Engine) eligibleGroups(size int) []group.Group {
	var out []group.Group
	for _, g := range e.plan.Groups {
		first := g.Entries[0]
		sl := &e.disks[first.Disk].Slices[first.Slice]
		if sl.EmptyCount >= size {
			out = append(out, g)
		}
	}
	return out
}

type rankKey struct {
	tagAbsent  bool // 0 = present, 1 = absent — present sorts first
	secondary  int  // meaning depends on tagAbsent, smaller is better
	tertiary   int
	quaternary int
}

func (k rankKey) less(o rankKey) bool {
	if k.tagAbsent != o.tagAbsent {
		return !k.tagAbsent // present (false) before absent (true)
	}
	if k.secondary != o.secondary {
		return k.secondary < o.secondary
	}
	if k.tertiary != o.tertiary {
		return k.tertiary < o.tertiary
	}
	return k.quaternary < o.quaternary
}

// rankGroups picks the best-ranked group by the layered key of spec
// §4.1 step 3, evaluated against each group's reference (first) slice.
func (e *Engine) rankGroups(groups []group.Group, tag int) group.Group {
	keys := make([]rankKey, len(groups))
	for i, g := range groups {
		keys[i] = e.rankKeyFor(g, tag)
	}
	idx := make([]int, len(groups))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].less(keys[idx[b]])
	})
	return groups[idx[0]]
}

func (e *Engine) rankKeyFor(g group.Group, tag int) rankKey {
	ref := g.Entries[0]
	disk := e.disks[ref.Disk]
	sl := &disk.Slices[ref.Slice]

	if sl.HasTag(tag) {
		if sl.TagIsDominant(tag) {
			// pack dense: prefer fewer empty cells.
			return rankKey{secondary: sl.DistinctTags(), tertiary: sl.EmptyCount}
		}
		// prefer fewer distinct tags, then more empty cells.
		return rankKey{secondary: sl.DistinctTags(), tertiary: -sl.EmptyCount}
	}

	// tag absent: prefer empty slices, then disks with fewer slices
	// already carrying this tag, then more empty slices in the group.
	emptyRank := 1
	if sl.Empty() {
		emptyRank = 0
	}
	diskTagCount := 0
	for i := range disk.Slices {
		if i == 0 {
			continue
		}
		if disk.Slices[i].HasTag(tag) {
			diskTagCount++
		}
	}
	groupEmptySlices := 0
	for _, ent := range g.Entries {
		if e.disks[ent.Disk].Slices[ent.Slice].Empty() {
			groupEmptySlices++
		}
	}
	return rankKey{
		tagAbsent:  true,
		secondary:  emptyRank,
		tertiary:   diskTagCount,
		quaternary: -groupEmptySlices,
	}
}
