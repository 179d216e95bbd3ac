// Package schedule moves characters through their fixed daily routines
// when the clock crosses a slot boundary.
package schedule

import (
	"log/slog"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/character"
)

// Result describes one character's schedule execution for a slot.
type Result struct {
	CharacterID     string            `json:"character_id"`
	Slot            calendar.TimeSlot `json:"slot"`
	OldLocation     string            `json:"old_location"`
	NewLocation     string            `json:"new_location"`
	Activity        string            `json:"activity"`
	Description     string            `json:"description,omitempty"`
	LocationChanged bool              `json:"location_changed"`
}

// Engine applies routines to the roster. It is stateless: all state
// lives in the roster's runtime fields.
type Engine struct {
	roster *character.Roster
	bus    *bus.Bus
	logger *slog.Logger
}

// NewEngine creates a schedule engine. The bus may be nil.
func NewEngine(roster *character.Roster, b *bus.Bus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{roster: roster, bus: b, logger: logger}
}

// ExecuteSlot runs the routine for every living character that has an
// entry for the slot. Characters without a schedule, without an entry
// for this slot, or dead are silently skipped.
func (e *Engine) ExecuteSlot(slot calendar.TimeSlot) []Result {
	var results []Result
	for _, c := range e.roster.All() {
		if !c.Alive {
			continue
		}
		if result, ok := e.ExecuteCharacter(c.ID, slot); ok {
			results = append(results, result)
		}
	}
	return results
}

// ExecuteCharacter runs one character's routine for a slot. The new
// location is written unconditionally: routine relocation is an
// intentional teleport that bypasses the location graph entirely.
// Routines are authoritative lore, not simulated travel; do not "fix"
// this into pathed movement.
func (e *Engine) ExecuteCharacter(id string, slot calendar.TimeSlot) (Result, bool) {
	c := e.roster.Get(id)
	if c == nil || !c.Alive {
		return Result{}, false
	}
	entry, ok := c.Schedule.Entry(slot)
	if !ok {
		return Result{}, false
	}

	oldLocation := c.CurrentLocation
	c.CurrentLocation = entry.Location
	c.CurrentActivity = entry.Activity

	result := Result{
		CharacterID:     id,
		Slot:            slot,
		OldLocation:     oldLocation,
		NewLocation:     entry.Location,
		Activity:        entry.Activity,
		Description:     entry.Description,
		LocationChanged: oldLocation != entry.Location,
	}

	e.publish(result)

	e.logger.Debug("schedule executed",
		"character", id,
		"slot", slot,
		"location", entry.Location,
		"activity", entry.Activity)

	return result, true
}

func (e *Engine) publish(result Result) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(bus.NPCScheduleExecuted, result, "schedule", 0)
	if result.LocationChanged {
		e.bus.Publish(bus.NPCLocationChanged, result, "schedule", 0)
	}
}

// EntryAt returns a character's routine entry for a slot, if defined.
func (e *Engine) EntryAt(id string, slot calendar.TimeSlot) (character.ScheduleEntry, bool) {
	c := e.roster.Get(id)
	if c == nil {
		return character.ScheduleEntry{}, false
	}
	return c.Schedule.Entry(slot)
}

// Interruptible reports whether a character can be interrupted during a
// slot. Characters without a schedule or without an entry default to
// interruptible.
func (e *Engine) Interruptible(id string, slot calendar.TimeSlot) bool {
	entry, ok := e.EntryAt(id, slot)
	if !ok {
		return true
	}
	return entry.Interruptible
}

// CharactersAt returns the characters whose routine places them at a
// location during a slot, regardless of where they currently are.
func (e *Engine) CharactersAt(locationID string, slot calendar.TimeSlot) []*character.Character {
	var out []*character.Character
	for _, c := range e.roster.All() {
		if !c.Alive {
			continue
		}
		if entry, ok := c.Schedule.Entry(slot); ok && entry.Location == locationID {
			out = append(out, c)
		}
	}
	return out
}
