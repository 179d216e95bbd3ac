package schedule

import (
	"testing"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/character"
)

func testRoster() *character.Roster {
	return character.NewRoster([]*character.Character{
		{
			ID:           "mara",
			HomeLocation: "tavern",
			Schedule: character.Schedule{
				calendar.Morning:   {Location: "market", Activity: "buying stores", Interruptible: true},
				calendar.Afternoon: {Location: "tavern", Activity: "working the bar", Interruptible: true},
				calendar.Evening:   {Location: "tavern", Activity: "working the bar"},
			},
		},
		{
			ID:           "sal",
			HomeLocation: "forest_edge",
			Schedule: character.Schedule{
				calendar.Morning: {Location: "forest_edge", Activity: "checking snares", Interruptible: true},
			},
		},
		{ID: "drifter", HomeLocation: "village_square"},
	})
}

func TestExecuteSlotMovesCharacters(t *testing.T) {
	roster := testRoster()
	e := NewEngine(roster, nil, nil)

	results := e.ExecuteSlot(calendar.Morning)

	// The drifter has no schedule and is skipped.
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	mara := roster.Get("mara")
	if mara.CurrentLocation != "market" || mara.CurrentActivity != "buying stores" {
		t.Errorf("mara at %s doing %q", mara.CurrentLocation, mara.CurrentActivity)
	}
}

func TestExecuteSlotSkipsDead(t *testing.T) {
	roster := testRoster()
	roster.SetAlive("mara", false)
	e := NewEngine(roster, nil, nil)

	results := e.ExecuteSlot(calendar.Morning)

	if len(results) != 1 || results[0].CharacterID != "sal" {
		t.Errorf("results = %+v, want only sal", results)
	}
	if roster.Get("mara").CurrentLocation != "tavern" {
		t.Error("dead character must not move")
	}
}

func TestExecuteCharacterNoEntry(t *testing.T) {
	e := NewEngine(testRoster(), nil, nil)

	if _, ok := e.ExecuteCharacter("sal", calendar.Night); ok {
		t.Error("slot without an entry should not execute")
	}
	if _, ok := e.ExecuteCharacter("nobody", calendar.Morning); ok {
		t.Error("unknown character should not execute")
	}
}

func TestLocationChangePublishes(t *testing.T) {
	b := bus.New(nil)
	var executed, moved int
	b.Subscribe(bus.NPCScheduleExecuted, func(e bus.Event) { executed++ }, bus.PriorityNormal)
	b.Subscribe(bus.NPCLocationChanged, func(e bus.Event) { moved++ }, bus.PriorityNormal)

	roster := testRoster()
	e := NewEngine(roster, b, nil)

	// Morning: mara tavern -> market (moved), sal stays at forest_edge.
	e.ExecuteSlot(calendar.Morning)

	if executed != 2 {
		t.Errorf("npc_schedule_executed published %d times, want 2", executed)
	}
	if moved != 1 {
		t.Errorf("npc_location_changed published %d times, want 1", moved)
	}
}

func TestResultFields(t *testing.T) {
	e := NewEngine(testRoster(), nil, nil)

	result, ok := e.ExecuteCharacter("mara", calendar.Morning)
	if !ok {
		t.Fatal("execution should succeed")
	}
	if result.OldLocation != "tavern" || result.NewLocation != "market" {
		t.Errorf("unexpected result: %+v", result)
	}
	if !result.LocationChanged {
		t.Error("LocationChanged should be true")
	}

	// Same slot again: already at market, no change.
	result, _ = e.ExecuteCharacter("mara", calendar.Morning)
	if result.LocationChanged {
		t.Error("second execution in place should not report a change")
	}
}

func TestInterruptible(t *testing.T) {
	e := NewEngine(testRoster(), nil, nil)

	if !e.Interruptible("mara", calendar.Morning) {
		t.Error("marked interruptible entry should be interruptible")
	}
	if e.Interruptible("mara", calendar.Evening) {
		t.Error("evening entry is not interruptible")
	}
	// No entry defaults to interruptible.
	if !e.Interruptible("drifter", calendar.Morning) {
		t.Error("characters without schedules default to interruptible")
	}
}

func TestCharactersAt(t *testing.T) {
	e := NewEngine(testRoster(), nil, nil)

	at := e.CharactersAt("market", calendar.Morning)
	if len(at) != 1 || at[0].ID != "mara" {
		t.Errorf("CharactersAt(market, morning) = %v", at)
	}
	if got := e.CharactersAt("market", calendar.Night); len(got) != 0 {
		t.Errorf("CharactersAt(market, night) = %v, want none", got)
	}
}
