package store

import (
	"testing"

	"github.com/coralstore/diskctl/cmn/cos"
)

func newTestDisk(v, sliceCount, m int) *Disk {
	return NewDisk(1, v, sliceCount, m)
}

func TestBestFitFindsContiguousWindow(t *testing.T) {
	d := newTestDisk(10, 1, 2)
	sl := &d.Slices[1]
	// occupy 1,2,3,5,7 leaving 4,6,8,9,10 empty
	for _, p := range []int{1, 2, 3, 5, 7} {
		d.Occupy(p, 100, 1, 1, 1)
	}
	positions, ok := sl.BestFit(d.Cells, 2, 1)
	if !ok {
		t.Fatalf("expected a fit")
	}
	for _, p := range positions {
		if !d.Cells[p].Empty() {
			t.Fatalf("BestFit returned occupied position %d", p)
		}
	}
}

func TestBestFitFailsWhenNotEnoughRoom(t *testing.T) {
	d := newTestDisk(3, 1, 2)
	sl := &d.Slices[1]
	d.Occupy(1, 1, 1, 1, 1)
	d.Occupy(2, 2, 1, 1, 1)
	if _, ok := sl.BestFit(d.Cells, 2, 1); ok {
		t.Fatalf("expected no fit with only one empty cell")
	}
}

func TestBestFitDirectionAffectsFillOrder(t *testing.T) {
	d := newTestDisk(6, 1, 2)
	sl := &d.Slices[1]
	d.Occupy(3, 1, 1, 1, 1)
	fwd, ok := sl.BestFit(d.Cells, 2, 1)
	if !ok {
		t.Fatalf("expected forward fit")
	}
	d2 := newTestDisk(6, 1, 2)
	sl2 := &d2.Slices[1]
	d2.Occupy(3, 1, 1, 1, 1)
	back, ok := sl2.BestFit(d2.Cells, 2, -1)
	if !ok {
		t.Fatalf("expected backward fit")
	}
	if fwd[0] == back[0] && fwd[1] == back[1] {
		t.Fatalf("expected forward/backward scans to differ in fill order: fwd=%v back=%v", fwd, back)
	}
}

func TestOccupyPanicsOnLiveCell(t *testing.T) {
	d := newTestDisk(4, 1, 2)
	d.Occupy(1, 1, 1, 1, 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic writing over a live cell")
		}
	}()
	d.Occupy(1, 2, 1, 1, 1)
}

func TestDiskAggregatesTrackOccupancy(t *testing.T) {
	d := newTestDisk(4, 1, 2)
	if d.EmptyCount() != 4 {
		t.Fatalf("expected 4 empty cells, got %d", d.EmptyCount())
	}
	d.Occupy(1, 1, 1, 1, 1)
	if d.EmptyCount() != 3 {
		t.Fatalf("expected 3 empty cells after occupy, got %d", d.EmptyCount())
	}
	d.FreeCell(1)
	if d.EmptyCount() != 4 {
		t.Fatalf("expected 4 empty cells after free, got %d", d.EmptyCount())
	}
}

func TestTagSetBasic(t *testing.T) {
	ts := cos.NewTagSet(8)
	ts.Set(3)
	ts.Set(5)
	if !ts.Has(3) || !ts.Has(5) {
		t.Fatalf("expected tags 3 and 5 set")
	}
	if ts.Has(4) {
		t.Fatalf("tag 4 should not be set")
	}
	if ts.Count() != 2 {
		t.Fatalf("expected count 2, got %d", ts.Count())
	}
	ts.Clear(3)
	if ts.Has(3) || ts.Count() != 1 {
		t.Fatalf("expected tag 3 cleared")
	}
}
