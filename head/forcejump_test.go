package head

import (
	"testing"

	"github.com/coralstore/diskctl/gain"
	"github.com/coralstore/diskctl/store"
)

func TestForceJumpTargetPicksHighestGainSliceWithPendingCell(t *testing.T) {
	d := store.NewDisk(1, 10, 2, 4)
	gm := gain.NewModel(1, 2, 105)

	// slice 2 has higher gain but no pending cell; slice 1 has a
	// pending cell and lower gain -> ForceJumpTarget must still pick
	// the occupied-and-pending cell, scanning slices by descending gain
	// and skipping ones with nothing to serve.
	gm.AddRequest(1, 2, 100, 50)
	d.Occupy(3, 1, 1, 1, 1)
	d.SetPending(3, 1)

	target, found := ForceJumpTarget(d, gm)
	if !found {
		t.Fatalf("expected a force-jump target")
	}
	if target != 3 {
		t.Fatalf("target = %d, want 3 (the only cell with pending requests)", target)
	}
}

func TestForceJumpTargetFailsWithNoPendingAnywhere(t *testing.T) {
	d := store.NewDisk(1, 10, 2, 4)
	gm := gain.NewModel(1, 2, 105)
	if _, ok := ForceJumpTarget(d, gm); ok {
		t.Fatalf("expected no force-jump target on an idle disk")
	}
}
