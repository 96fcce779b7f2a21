// Package group builds the init-time group plan: a set of (disk,
// slice) triples spanning three distinct disks each, used by package
// placement as the sole destination set for new objects (spec §4.2).
package group

import (
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/coralstore/diskctl/cmn/logx"
)

// Entry is one (disk, slice) destination within a Group.
type Entry struct {
	Disk  int
	Slice int
}

// Group is a pre-chosen triple of (disk, slice) pairs over three
// distinct disks (spec §3 Group row).
type Group struct {
	Entries [3]Entry
}

// Plan is the immutable, init-time-computed set of groups placement
// draws from.
type Plan struct {
	Groups []Group
}

// Build constructs the group plan for n disks of sliceCount slices
// each, following spec §4.2: enumerate 3-subsets of disks, greedily
// pick triples to equalize per-disk appearance (capped at sliceCount)
// while minimizing variance of pairwise co-occurrence, round-robin
// assign slice ids per disk appearance, then shuffle the result with a
// deterministically-seeded RNG so later placement sees no ordering
// bias from how groups were constructed.
func Build(n, sliceCount int, seed int64) *Plan {
	if n < 3 {
		logx.Warnf("group: only %d disks, no 3-distinct-disk group is possible", n)
		return &Plan{}
	}
	triples := allTriples(n)
	cap_ := sliceCount
	target := (n * sliceCount) / 3

	appearance := make([]int, n+1)
	cooc := make([][]int, n+1)
	for i := range cooc {
		cooc[i] = make([]int, n+1)
	}

	chosen := make([][3]int, 0, target)
	for len(chosen) < target {
		t, ok := pickBest(triples, appearance, cooc, cap_)
		if !ok {
			logx.Warnf("group: could not reach target group count %d, stopped at %d", target, len(chosen))
			break
		}
		chosen = append(chosen, t)
		for i := 0; i < 3; i++ {
			appearance[t[i]]++
		}
		for i := 0; i < 3; i++ {
			for j := i + 1; j < 3; j++ {
				cooc[t[i]][t[j]]++
				cooc[t[j]][t[i]]++
			}
		}
	}

	nextSlice := make([]int, n+1)
	for i := range nextSlice {
		nextSlice[i] = 1
	}
	groups := make([]Group, 0, len(chosen))
	for _, t := range chosen {
		var g Group
		for i := 0; i < 3; i++ {
			d := t[i]
			s := nextSlice[d]
			if s > sliceCount {
				s = sliceCount // defensive clamp; cap_ should prevent overflow
			} else {
				nextSlice[d]++
			}
			g.Entries[i] = Entry{Disk: d, Slice: s}
		}
		groups = append(groups, g)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(groups), func(i, j int) { groups[i], groups[j] = groups[j], groups[i] })

	return &Plan{Groups: groups}
}

// allTriples enumerates every 3-subset of {1..n}.
func allTriples(n int) [][3]int {
	out := make([][3]int, 0, n*(n-1)*(n-2)/6)
	for a := 1; a <= n; a++ {
		for b := a + 1; b <= n; b++ {
			for c := b + 1; c <= n; c++ {
				out = append(out, [3]int{a, b, c})
			}
		}
	}
	return out
}

// pickBest scans candidate triples (in parallel via errgroup — this
// runs once at init, before any tick, so the cooperative single-thread
// rule of spec §5 does not apply here) and returns the one whose
// addition would minimize the variance of the pairwise co-occurrence
// matrix, among triples whose three disks are all still under cap.
// If none improve on the current variance, any still-under-cap triple
// is returned (spec §4.2: "if a step cannot improve variance, pick any
// triple still under the appearance cap").
func pickBest(triples [][3]int, appearance []int, cooc [][]int, cap_ int) ([3]int, bool) {
	type scored struct {
		t     [3]int
		score float64
		idx   int
	}

	eligible := make([]int, 0, len(triples))
	for i, t := range triples {
		if appearance[t[0]] < cap_ && appearance[t[1]] < cap_ && appearance[t[2]] < cap_ {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return [3]int{}, false
	}

	results := make([]scored, len(eligible))
	var eg errgroup.Group
	const workers = 8
	chunk := (len(eligible) + workers - 1) / workers
	for w := 0; w < len(eligible); w += chunk {
		w := w
		end := w + chunk
		if end > len(eligible) {
			end = len(eligible)
		}
		eg.Go(func() error {
			for k := w; k < end; k++ {
				idx := eligible[k]
				t := triples[idx]
				results[k] = scored{t: t, idx: idx, score: hypotheticalVariance(t, cooc)}
			}
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		return results[i].idx < results[j].idx
	})
	return results[0].t, true
}

// hypotheticalVariance computes the variance of the pairwise
// co-occurrence matrix as if t's three pairs were each incremented,
// without mutating cooc.
func hypotheticalVariance(t [3]int, cooc [][]int) float64 {
	n := len(cooc) - 1
	if n < 2 {
		return 0
	}
	delta := map[[2]int]int{}
	pairs := [][2]int{{t[0], t[1]}, {t[0], t[2]}, {t[1], t[2]}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if a > b {
			a, b = b, a
		}
		delta[[2]int{a, b}]++
	}

	sum, sumSq, count := 0.0, 0.0, 0.0
	for a := 1; a <= n; a++ {
		for b := a + 1; b <= n; b++ {
			v := float64(cooc[a][b])
			if d, ok := delta[[2]int{a, b}]; ok {
				v += float64(d)
			}
			sum += v
			sumSq += v * v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := sum / count
	return sumSq/count - mean*mean
}
