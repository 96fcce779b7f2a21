package store

// BestFit finds the shortest contiguous (cyclic, wrapping at the
// slice's own boundary) window holding at least `size` empty cells,
// then returns the first `size` empty cell positions inside that
// window in scan order (spec §4.1 step 4). When several windows share
// the shortest length, the one starting nearest the slice start wins,
// whatever dir is. dir selects the scan direction inside that window:
// +1 scans forward from its start, -1 scans backward from its end (the
// forward/backward parity supplement, SPEC_FULL.md §C; the placement
// engine passes -1 for every even-numbered disk).
//
// Returns ok=false if the slice does not hold `size` empty cells at
// all (the caller treats that as capacity exhaustion, spec §7).
func (sl *Slice) BestFit(cells []Cell, size, dir int) (positions []int, ok bool) {
	n := sl.Len()
	if size <= 0 || sl.EmptyCount < size {
		return nil, false
	}
	// isEmpty(i) for i in [0, n) cyclic offset from sl.Start.
	isEmpty := func(off int) bool {
		return cells[sl.Start+off%n].Empty()
	}

	bestLen := n + 1
	bestStart := 0
	// Two-pointer minimal window with at least `size` empties, over a
	// doubled index space to account for cyclic wrap. For each left
	// edge l we track the smallest r such that [l, r) contains
	// `size` empties; r is non-decreasing as l increases, so the
	// whole scan is O(n).
	count := 0
	r := 0
	for l := 0; l < n; l++ {
		if r < l {
			r = l
		}
		for count < size && r < l+n {
			if isEmpty(r % n) {
				count++
			}
			r++
		}
		if count >= size {
			length := r - l
			if length < bestLen {
				bestLen = length
				bestStart = l
			}
		}
		if isEmpty(l % n) {
			count--
		}
	}
	if bestLen > n {
		return nil, false
	}

	positions = make([]int, 0, size)
	if dir >= 0 {
		for off := bestStart; len(positions) < size; off++ {
			p := sl.Start + off%n
			if cells[p].Empty() {
				positions = append(positions, p)
			}
		}
	} else {
		end := bestStart + bestLen - 1
		for off := end; len(positions) < size; off-- {
			o := off
			for o < 0 {
				o += n
			}
			p := sl.Start + o%n
			if cells[p].Empty() {
				positions = append(positions, p)
			}
		}
	}
	return positions, true
}
