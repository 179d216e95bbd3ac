package character

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/world-engine/pkg/calendar"
)

func TestScheduleEntryDefaultsInterruptible(t *testing.T) {
	doc := `
morning:
  location: market
  activity: shopping
evening:
  location: tavern
  activity: working
  interruptible: false
`
	var s Schedule
	if err := yaml.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	morning, ok := s.Entry(calendar.Morning)
	if !ok {
		t.Fatal("morning entry missing")
	}
	if !morning.Interruptible {
		t.Error("unmarked entry should default to interruptible")
	}

	evening, _ := s.Entry(calendar.Evening)
	if evening.Interruptible {
		t.Error("explicit interruptible: false was not honored")
	}

	if _, ok := s.Entry(calendar.Night); ok {
		t.Error("absent slot should report no entry")
	}
}

func TestDisplayName(t *testing.T) {
	c := &Character{Name: "Mara Tiller", Nickname: "Mara"}
	if got := c.DisplayName(); got != "Mara" {
		t.Errorf("DisplayName() = %s, want nickname", got)
	}
	c.Nickname = ""
	if got := c.DisplayName(); got != "Mara Tiller" {
		t.Errorf("DisplayName() = %s, want full name", got)
	}
}

func TestRosterDefaults(t *testing.T) {
	r := NewRoster([]*Character{
		{ID: "mara", HomeLocation: "tavern"},
	})

	c := r.Get("mara")
	if c.CurrentLocation != "tavern" {
		t.Errorf("location = %s, want home location", c.CurrentLocation)
	}
	if c.CurrentActivity != "idle" {
		t.Errorf("activity = %s, want idle", c.CurrentActivity)
	}
	if !c.Alive {
		t.Error("characters should start alive")
	}
}

func TestRosterLookups(t *testing.T) {
	r := NewRoster([]*Character{
		{ID: "mara", Name: "Mara Tiller", Nickname: "Mara", HomeLocation: "tavern"},
		{ID: "sal", Name: "Old Sal", HomeLocation: "forest_edge"},
	})

	if r.Get("nobody") != nil {
		t.Error("unknown id should return nil")
	}
	if c := r.ByName("Mara"); c == nil || c.ID != "mara" {
		t.Error("nickname lookup failed")
	}
	if c := r.ByName("Old Sal"); c == nil || c.ID != "sal" {
		t.Error("name lookup failed")
	}

	at := r.AtLocation("tavern")
	if len(at) != 1 || at[0].ID != "mara" {
		t.Errorf("AtLocation(tavern) = %v", at)
	}
}

func TestRosterDeadCharactersExcluded(t *testing.T) {
	r := NewRoster([]*Character{
		{ID: "mara", HomeLocation: "tavern"},
		{ID: "sal", HomeLocation: "tavern"},
	})
	r.SetAlive("sal", false)

	if len(r.AtLocation("tavern")) != 1 {
		t.Error("dead character should not appear at locations")
	}
	if _, ok := r.Locations()["sal"]; ok {
		t.Error("dead character should not appear in Locations()")
	}
}

func TestRosterSnapshotRestore(t *testing.T) {
	build := func() *Roster {
		return NewRoster([]*Character{
			{ID: "mara", HomeLocation: "tavern"},
			{ID: "sal", HomeLocation: "forest_edge"},
		})
	}

	r := build()
	r.SetLocation("mara", "market")
	r.SetAlive("sal", false)

	snap := r.Snapshot()
	snap["ghost"] = RuntimeState{CurrentLocation: "nowhere"}

	r2 := build()
	r2.Restore(snap)

	if r2.Get("mara").CurrentLocation != "market" {
		t.Error("location not restored")
	}
	if r2.Get("sal").Alive {
		t.Error("alive state not restored")
	}
	if r2.Get("ghost") != nil {
		t.Error("unknown snapshot entries must be ignored")
	}
}
