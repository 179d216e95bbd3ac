package storyline

import (
	"testing"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/flags"
	"github.com/jwebster45206/world-engine/pkg/relationship"
)

func newTestTracker(b *bus.Bus) (*Tracker, *flags.Store) {
	fs := flags.NewStore(b, nil)
	t := NewTracker(fs, b, nil)
	t.LoadPhases(map[string][]Phase{
		"mill_fire": {
			{Name: "rumors", AdvanceConditions: []AdvanceCondition{
				{Flag: "asked_about_fire"},
			}},
			{Name: "investigation", AdvanceConditions: []AdvanceCondition{
				{Flag: "ledger_deciphered"},
				{CharacterID: "edric", Dimension: relationship.Trust, Threshold: 30},
			}},
			{Name: "confrontation"},
		},
	})
	t.RegisterClue(Clue{ID: "scorched_ledger", Storyline: "mill_fire", Weight: 2})
	t.RegisterClue(Clue{ID: "millers_key", Storyline: "mill_fire", Weight: 1})
	return t, fs
}

func TestAdvanceIsMonotonic(t *testing.T) {
	b := bus.New(nil)
	var advances []Advanced
	b.Subscribe(bus.StorylineAdvanced, func(e bus.Event) {
		advances = append(advances, e.Payload.(Advanced))
	}, bus.PriorityNormal)

	tr, _ := newTestTracker(b)

	if !tr.Advance("mill_fire", 1) {
		t.Fatal("forward advance failed")
	}
	if tr.Advance("mill_fire", 1) {
		t.Error("advancing to the current phase should be a no-op")
	}
	if tr.Advance("mill_fire", 0) {
		t.Error("advancing backward should be a no-op")
	}
	if tr.Phase("mill_fire") != 1 {
		t.Errorf("phase = %d, want 1", tr.Phase("mill_fire"))
	}

	if len(advances) != 1 {
		t.Fatalf("published %d advances, want 1", len(advances))
	}
	if advances[0].OldPhase != 0 || advances[0].NewPhase != 1 {
		t.Errorf("unexpected payload: %+v", advances[0])
	}
}

func TestAdvanceNext(t *testing.T) {
	tr, _ := newTestTracker(nil)
	tr.AdvanceNext("mill_fire")
	tr.AdvanceNext("mill_fire")
	if tr.Phase("mill_fire") != 2 {
		t.Errorf("phase = %d, want 2", tr.Phase("mill_fire"))
	}
}

func TestDiscoverClueIsIdempotent(t *testing.T) {
	b := bus.New(nil)
	discovered := 0
	b.Subscribe(bus.ClueDiscovered, func(e bus.Event) { discovered++ }, bus.PriorityNormal)

	tr, _ := newTestTracker(b)

	if !tr.DiscoverClue("scorched_ledger", 5) {
		t.Fatal("first discovery failed")
	}
	if tr.DiscoverClue("scorched_ledger", 6) {
		t.Error("rediscovery should report false")
	}
	if tr.DiscoverClue("unknown_clue", 5) {
		t.Error("unknown clue should report false")
	}

	if tr.ClueCount("mill_fire") != 1 {
		t.Errorf("clue count = %d, want 1", tr.ClueCount("mill_fire"))
	}
	if tr.ClueWeight("mill_fire") != 2 {
		t.Errorf("clue weight = %d, want 2", tr.ClueWeight("mill_fire"))
	}
	if discovered != 1 {
		t.Errorf("published %d discoveries, want 1", discovered)
	}
}

func TestClueWeightAccumulates(t *testing.T) {
	tr, _ := newTestTracker(nil)
	tr.DiscoverClue("scorched_ledger", 1)
	tr.DiscoverClue("millers_key", 2)

	if got := tr.ClueWeight("mill_fire"); got != 3 {
		t.Errorf("clue weight = %d, want 3", got)
	}

	found := tr.DiscoveredClues("mill_fire")
	if len(found) != 2 {
		t.Errorf("DiscoveredClues = %d entries, want 2", len(found))
	}
}

func TestCheckPhaseAdvanceFlagCondition(t *testing.T) {
	tr, fs := newTestTracker(nil)
	ledger := relationship.NewLedger(nil, nil)

	if tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("no condition holds yet")
	}

	fs.Set("asked_about_fire", "test")
	if !tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("flag condition should unlock phase 0")
	}

	// The check looks only at the current phase: phase 1's conditions
	// do not matter while at phase 0.
	fs.Clear("asked_about_fire", "test")
	fs.Set("ledger_deciphered", "test")
	if tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("phase 1 conditions must not unlock phase 0")
	}
}

func TestCheckPhaseAdvanceConditionsAreAlternatives(t *testing.T) {
	tr, _ := newTestTracker(nil)
	ledger := relationship.NewLedger(nil, nil)
	tr.Advance("mill_fire", 1)

	// Neither alternative holds.
	if tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("no alternative holds yet")
	}

	// The relationship alternative alone suffices.
	ledger.Init("edric", map[relationship.Dimension]int{relationship.Trust: 30})
	if !tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("relationship alternative should unlock phase 1")
	}
}

func TestCheckPhaseAdvanceAtFinalPhase(t *testing.T) {
	tr, fs := newTestTracker(nil)
	ledger := relationship.NewLedger(nil, nil)
	tr.Advance("mill_fire", 2)

	fs.Set("asked_about_fire", "test")
	if tr.CheckPhaseAdvance("mill_fire", ledger) {
		t.Error("final phase has nothing to advance to")
	}
	if tr.CheckPhaseAdvance("unknown_arc", ledger) {
		t.Error("unknown arc should not advance")
	}
}

func TestSnapshotRestore(t *testing.T) {
	tr, _ := newTestTracker(nil)
	tr.Advance("mill_fire", 1)
	tr.DiscoverClue("scorched_ledger", 4)

	snap := tr.Snapshot()

	tr2, _ := newTestTracker(nil)
	tr2.Restore(snap)

	if tr2.Phase("mill_fire") != 1 {
		t.Errorf("phase = %d, want 1", tr2.Phase("mill_fire"))
	}
	if tr2.ClueWeight("mill_fire") != 2 {
		t.Errorf("clue weight = %d, want 2", tr2.ClueWeight("mill_fire"))
	}
	if tr2.DiscoverClue("scorched_ledger", 9) {
		t.Error("restored clue should already be discovered")
	}
	if !tr2.DiscoverClue("millers_key", 9) {
		t.Error("undiscovered clue should still be discoverable")
	}
}
