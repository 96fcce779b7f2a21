package lifecycle

import (
	"math/rand"
	"testing"

	"github.com/coralstore/diskctl/catalog"
	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

func buildFixture(t *testing.T) ([]*store.Disk, *catalog.Table, *gain.Model) {
	t.Helper()
	disks := make([]*store.Disk, 4)
	for i := 1; i <= 3; i++ {
		disks[i] = store.NewDisk(i, 20, 2, 4)
	}
	for i := 1; i <= 3; i++ {
		disks[i].Occupy(1, 1, 2, 1, 1)
		disks[i].Occupy(2, 1, 2, 1, 2)
	}
	table := catalog.NewTable()
	obj := catalog.NewObject(1, 2, 1, [3]catalog.Replica{
		{Disk: 1, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
		{Disk: 2, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
		{Disk: 3, Slice: 1, Positions: []int{0, 1, 2}, MaxPos: 2},
	})
	table.Put(obj)
	gm := gain.NewModel(3, 2, 105)
	return disks, table, gm
}

func TestRegisterAndExecuteReadCompletesARequest(t *testing.T) {
	disks, table, gm := buildFixture(t)
	stats := NewTagStats(4)
	reg := &Registrar{Disks: disks, Table: table, Gain: gm, Stats: stats, RNG: rand.New(rand.NewSource(1))}
	exec := &Executor{Disks: disks, Table: table, Gain: gm, Stats: stats}

	top := ComputeTopGain(disks, gm, 0) // nothing in top-2 yet -> filter is a no-op
	if !reg.Register(1, 100, 1, top) {
		t.Fatalf("expected registration to be admitted")
	}

	for _, d := range []int{1} {
		if disks[d].Cells[1].Pending != 1 {
			t.Fatalf("expected pending count 1 on disk %d block 1, got %d", d, disks[d].Cells[1].Pending)
		}
	}

	if done := exec.ExecuteRead(1, 1, 2); len(done) != 0 {
		t.Fatalf("expected no completion after only block 1 is read, got %v", done)
	}
	done := exec.ExecuteRead(1, 2, 2)
	if len(done) != 1 || done[0] != 100 {
		t.Fatalf("expected request 100 to complete, got %v", done)
	}

	for i := 1; i <= 3; i++ {
		if disks[i].Cells[1].Pending != 0 || disks[i].Cells[2].Pending != 0 {
			t.Fatalf("expected pending cleared on all replicas after completion, disk %d", i)
		}
	}
	obj := table.Get(1)
	if _, ok := obj.Pending[100]; ok {
		t.Fatalf("expected request removed from the object's pending set")
	}
	if table.ObjectOf(100) != 0 {
		t.Fatalf("expected request unindexed after completion")
	}
}

func TestRegisterRejectedByUnknownObjectIsNotAdmitted(t *testing.T) {
	disks, table, gm := buildFixture(t)
	stats := NewTagStats(4)
	reg := &Registrar{Disks: disks, Table: table, Gain: gm, Stats: stats, RNG: rand.New(rand.NewSource(1))}
	if reg.Register(999, 1, 1, ComputeTopGain(disks, gm, 0)) {
		t.Fatalf("expected registration against an unknown object to be rejected")
	}
}

func TestOracleAbandonsRequestsPastDeadline(t *testing.T) {
	disks, table, gm := buildFixture(t)
	stats := NewTagStats(4)
	reg := &Registrar{Disks: disks, Table: table, Gain: gm, Stats: stats, RNG: rand.New(rand.NewSource(1))}
	exec := &Executor{Disks: disks, Table: table, Gain: gm, Stats: stats}
	oracle := &Oracle{Exec: exec, Stats: stats, GEff: func(int) int { return 64 }}

	reg.Register(1, 55, 1, ComputeTopGain(disks, gm, 0))

	// 300 ticks later the request is far past any reasonable deadline
	// projection for a tiny 2-block object.
	abandoned := oracle.Run(301)
	found := false
	for _, id := range abandoned {
		if id == 55 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected request 55 to be abandoned by tick 301, got %v", abandoned)
	}
	obj := table.Get(1)
	if _, ok := obj.Pending[55]; ok {
		t.Fatalf("expected abandoned request removed from pending set")
	}
}

func TestDeleteObjectFreesCellsAndCancelsRequests(t *testing.T) {
	disks, table, gm := buildFixture(t)
	stats := NewTagStats(4)
	reg := &Registrar{Disks: disks, Table: table, Gain: gm, Stats: stats, RNG: rand.New(rand.NewSource(1))}
	exec := &Executor{Disks: disks, Table: table, Gain: gm, Stats: stats}

	reg.Register(1, 1, 1, ComputeTopGain(disks, gm, 0))
	cancelled := exec.DeleteObject(1)
	if len(cancelled) != 1 || cancelled[0] != 1 {
		t.Fatalf("expected request 1 cancelled by delete, got %v", cancelled)
	}
	if !disks[1].Cells[1].Empty() {
		t.Fatalf("expected replica cell freed after delete")
	}
	if table.Get(1) != nil {
		t.Fatalf("expected object removed from the table after delete")
	}
}
