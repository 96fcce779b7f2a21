// Package gain implements the per-slice gain/priority model (spec
// §4.4): a time-decayed scalar measuring the value of a slice's
// outstanding read requests, used only to pick JUMP targets and to
// rank heads — never to change READ semantics.
package gain

import "github.com/coralstore/diskctl/cmn/cos"

// Bucket aggregates the requests that arrived in one tick, scoped to
// one (disk, slice) — one replica's worth of a request's three
// slice-buckets.
type Bucket struct {
	Tick     int
	Requests map[int]struct{}
	SumSize  int
	SumCount int
}

func newBucket(tick int) Bucket {
	return Bucket{Tick: tick, Requests: make(map[int]struct{})}
}

// weight[k] is bucket_weight(k): 2.0 at k=0, decreasing by 0.005 per
// tick of age up to k=10, then by 0.01 per tick of age thereafter,
// floored at 0 (spec §4.4).
func buildWeights(horizon int) []float64 {
	w := make([]float64, horizon+2)
	w[0] = 2.0
	for k := 1; k < len(w); k++ {
		step := 0.01
		if k <= 10 {
			step = 0.005
		}
		v := w[k-1] - step
		if v < 0 {
			v = 0
		}
		w[k] = v
	}
	return w
}

// Model owns one time-bucket deque per (disk, slice).
type Model struct {
	horizon int
	weight  []float64
	cur     int // current tick
	rings   [][]*cos.Ring[Bucket] // rings[disk][slice]

	// damped marks slices whose gain contribution has been zeroed for
	// the remainder of the current planning pass (spec §4.3 cross-head
	// balancing: "reducing the slice-gain of cells covered by emitted
	// JUMP-to so later heads do not chase the same cells"). It is a
	// planning-pass-scoped view, not a mutation of the underlying
	// bucket aggregates, and is cleared on the next Advance.
	damped map[[2]int]bool
}

// NewModel allocates a Model for n disks of sliceCount slices each.
// Disks and slices are 1-indexed, matching package store.
func NewModel(n, sliceCount, horizon int) *Model {
	m := &Model{horizon: horizon, weight: buildWeights(horizon)}
	m.rings = make([][]*cos.Ring[Bucket], n+1)
	for d := 1; d <= n; d++ {
		m.rings[d] = make([]*cos.Ring[Bucket], sliceCount+1)
		for s := 1; s <= sliceCount; s++ {
			r := cos.NewRing[Bucket](horizon + 2)
			r.PushFront(newBucket(0))
			m.rings[d][s] = r
		}
	}
	return m
}

// Advance pushes a fresh empty bucket to the front of every slice's
// deque for the new current tick, then prunes buckets whose age now
// exceeds the horizon (spec §3 Lifecycle, §4.4: "old buckets (age >
// 105) are pruned each tick advance").
func (m *Model) Advance(tick int) {
	m.cur = tick
	m.damped = nil
	for d := 1; d < len(m.rings); d++ {
		for s := 1; s < len(m.rings[d]); s++ {
			r := m.rings[d][s]
			r.PushFront(newBucket(tick))
			for r.Len() > 0 {
				back := r.Back()
				if back == nil || tick-back.Tick <= m.horizon {
					break
				}
				r.PopBack()
			}
		}
	}
}

// AddRequest adds reqID (arriving now, contributing objSize and one
// request count) to the current-tick bucket of (disk, slice).
func (m *Model) AddRequest(disk, slice, reqID, objSize int) {
	b := m.rings[disk][slice].Front()
	if b == nil {
		return
	}
	if _, ok := b.Requests[reqID]; !ok {
		b.Requests[reqID] = struct{}{}
		b.SumSize += objSize
		b.SumCount++
	}
}

// RemoveRequest removes reqID from the bucket it arrived in on
// (disk, slice), identified by arrivalTick. A miss (already pruned, or
// never added) is tolerated silently per spec §7.
func (m *Model) RemoveRequest(disk, slice, reqID, arrivalTick, objSize int) {
	age := m.cur - arrivalTick
	b := m.rings[disk][slice].At(age)
	if b == nil {
		return
	}
	if _, ok := b.Requests[reqID]; ok {
		delete(b.Requests, reqID)
		b.SumSize -= objSize
		b.SumCount--
	}
}

// Dampen zeroes (disk, slice)'s gain contribution for the rest of the
// current planning pass, without touching its real bucket aggregates.
func (m *Model) Dampen(disk, slice int) {
	if m.damped == nil {
		m.damped = make(map[[2]int]bool)
	}
	m.damped[[2]int{disk, slice}] = true
}

// Gain returns the current gain score for (disk, slice) (spec §4.4).
func (m *Model) Gain(disk, slice int) float64 {
	if m.damped[[2]int{disk, slice}] {
		return 0
	}
	r := m.rings[disk][slice]
	total := 0.0
	for i := 0; i < r.Len(); i++ {
		b := r.At(i)
		if b == nil || i >= len(m.weight) {
			continue
		}
		total += m.weight[i] * float64(b.SumSize+b.SumCount)
	}
	return total
}

// Reset zeroes out a slice's deque entirely (GC/erase fast path is
// not expected to call this; it exists for tests that want a clean
// slate without rebuilding the whole Model).
func (m *Model) Reset(disk, slice int) {
	r := cos.NewRing[Bucket](m.horizon + 2)
	r.PushFront(newBucket(m.cur))
	m.rings[disk][slice] = r
}
