package head

import "testing"

func noPending(int) bool { return false }

func TestPlanWithNoPendingStaysWithinBudget(t *testing.T) {
	actions, newPos, newK, lastWasRead, hadRead := Plan(1, 100, 0, 20, noPending)
	if !hadRead {
		t.Fatalf("expected at least one READ to be scheduled")
	}
	cost := 0
	k := 0
	sawRead := false
	for _, a := range actions {
		if a.Kind == Read {
			cost += CostAt(k)
			k = NextStep(k)
			sawRead = true
		} else {
			cost++
		}
	}
	if !sawRead {
		t.Fatalf("expected actions to contain a READ: %v", actions)
	}
	if cost > 100 {
		t.Fatalf("plan overspends budget: cost=%d actions=%v", cost, actions)
	}
	if actions[len(actions)-1].Kind == Pass {
		t.Fatalf("expected trailing PASSes to be trimmed: %v", actions)
	}
	wantLastRead := actions[len(actions)-1].Kind == Read
	if lastWasRead != wantLastRead {
		t.Fatalf("lastWasRead=%v does not match actual last action", lastWasRead)
	}
	wantPos := ((actions[len(actions)-1].Pos) % 20) + 1
	if newPos != wantPos {
		t.Fatalf("newPos=%d, want %d", newPos, wantPos)
	}
	_ = newK
}

func TestPlanForcesReadWhenStartCellIsBusy(t *testing.T) {
	busyAtStart := func(p int) bool { return p == 1 }
	actions, newPos, newK, lastWasRead, hadRead := Plan(1, 64, 0, 5, busyAtStart)
	if !hadRead {
		t.Fatalf("expected a READ to be forced on the busy starting cell")
	}
	if len(actions) != 1 || actions[0].Kind != Read || actions[0].Pos != 1 {
		t.Fatalf("expected a single READ@1, got %v", actions)
	}
	if newPos != 2 {
		t.Fatalf("newPos = %d, want 2", newPos)
	}
	if !lastWasRead {
		t.Fatalf("expected lastWasRead=true")
	}
	if newK != 1 {
		t.Fatalf("newK = %d, want 1 (NextStep(0))", newK)
	}
}

func TestPlanFailsWhenBudgetCannotCoverAnyRead(t *testing.T) {
	busyAtStart := func(p int) bool { return p == 1 }
	actions, newPos, newK, lastWasRead, hadRead := Plan(1, 10, 0, 5, busyAtStart)
	if hadRead {
		t.Fatalf("expected no feasible plan, got %v", actions)
	}
	if actions != nil {
		t.Fatalf("expected nil actions, got %v", actions)
	}
	if newPos != 1 {
		t.Fatalf("newPos should stay at start, got %d", newPos)
	}
	if newK != 0 {
		t.Fatalf("newK should stay at k0, got %d", newK)
	}
	if lastWasRead {
		t.Fatalf("lastWasRead should be false")
	}
}

func TestPlanRespectsInFlightReadStepState(t *testing.T) {
	busyAtStart := func(p int) bool { return p == 1 }
	// k0=7 is already at the schedule's floor (cost 16); a single READ
	// should cost 16, not restart the decay from 64.
	actions, _, newK, _, hadRead := Plan(1, 16, len(DecaySchedule)-1, 5, busyAtStart)
	if !hadRead {
		t.Fatalf("expected the floor-cost READ to fit in budget 16")
	}
	if len(actions) != 1 || actions[0].Kind != Read {
		t.Fatalf("expected a single READ, got %v", actions)
	}
	if newK != len(DecaySchedule)-1 {
		t.Fatalf("newK should stay clamped at the schedule end, got %d", newK)
	}
}

func TestPlanReturnsZeroValueOnNonPositiveBudget(t *testing.T) {
	actions, newPos, newK, lastWasRead, hadRead := Plan(3, 0, 2, 10, noPending)
	if actions != nil || newPos != 3 || newK != 2 || lastWasRead || hadRead {
		t.Fatalf("expected a no-op zero value, got actions=%v newPos=%d newK=%d lastWasRead=%v hadRead=%v",
			actions, newPos, newK, lastWasRead, hadRead)
	}
}
