package lifecycle

import (
	"testing"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/head"
	"github.com/coralstore/diskctl/store"
)

func TestFinishCostMatchesCumulativeReadCosts(t *testing.T) {
	want := 0
	for s := 1; s <= 5; s++ {
		want += head.CostAt(s - 1)
		if got := FinishCost(s); got != want {
			t.Fatalf("FinishCost(%d) = %d, want %d", s, got, want)
		}
	}
}

func TestFinishCostExtrapolatesPastTable(t *testing.T) {
	base := FinishCost(5)
	got := FinishCost(6)
	floor := head.CostAt(len(head.DecaySchedule) - 1)
	if got != base+floor {
		t.Fatalf("FinishCost(6) = %d, want %d", got, base+floor)
	}
}

func TestETSIsZeroWhenAHeadAlreadyOccupiesTheReplicaSlice(t *testing.T) {
	disks := make([]*store.Disk, 2)
	d := store.NewDisk(1, 20, 2, 4)
	disks[1] = d
	d.Heads[0].Position = d.Slices[1].Start

	obj := catalog.NewObject(1, 2, 1, [3]catalog.Replica{
		{Disk: 1, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
		{Disk: 1, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
		{Disk: 1, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
	})

	if got := ETS(disks, obj, 1, 64); got != 0 {
		t.Fatalf("ETS = %d, want 0 when a head is already on the replica's slice", got)
	}
}

func TestShouldAbandonOnDeadlineProjection(t *testing.T) {
	stats := NewTagStats(4)
	// ets so large that targetLifetime - ets < age triggers regardless
	// of tag pressure.
	if !ShouldAbandon(200, 10, 1, stats) {
		t.Fatalf("expected abandonment when ets exceeds the deadline budget")
	}
}

func TestShouldAbandonOnTagPressureEvenWithGoodETS(t *testing.T) {
	stats := NewTagStats(4)
	for i := 0; i < 200; i++ {
		stats.Observe(1, true)
	}
	if !ShouldAbandon(0, 0, 1, stats) {
		t.Fatalf("expected abandonment once tag abandonment rate exceeds tau")
	}
}

func TestShouldAbandonFalseOnHealthyRequest(t *testing.T) {
	stats := NewTagStats(4)
	if ShouldAbandon(1, 0, 1, stats) {
		t.Fatalf("expected no abandonment for a healthy, on-track request")
	}
}
