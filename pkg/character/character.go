// Package character holds the NPC roster: static identity and daily
// routines owned by the content loader, plus the three runtime fields
// the simulation mutates (location, activity, alive).
package character

import (
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/world-engine/pkg/calendar"
)

// ScheduleEntry is one slot of a character's fixed daily routine.
type ScheduleEntry struct {
	Location      string `yaml:"location" json:"location"`
	Activity      string `yaml:"activity" json:"activity"`
	Description   string `yaml:"description" json:"description,omitempty"`
	Interruptible bool   `yaml:"interruptible" json:"interruptible"`
}

// UnmarshalYAML defaults Interruptible to true: routine authors only
// mark the slots that must not be disturbed.
func (e *ScheduleEntry) UnmarshalYAML(value *yaml.Node) error {
	type raw ScheduleEntry
	r := raw{Interruptible: true}
	if err := value.Decode(&r); err != nil {
		return err
	}
	*e = ScheduleEntry(r)
	return nil
}

// Schedule is a weekly-independent daily routine, one entry per slot.
// Slots without an entry are simply skipped by the schedule engine.
type Schedule map[calendar.TimeSlot]ScheduleEntry

// Entry returns the routine entry for a slot, if one is defined.
func (s Schedule) Entry(slot calendar.TimeSlot) (ScheduleEntry, bool) {
	if s == nil {
		return ScheduleEntry{}, false
	}
	entry, ok := s[slot]
	return entry, ok
}

// Character is one NPC. Everything above the runtime block is static
// content and must not be mutated after load.
type Character struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Nickname     string `yaml:"nickname" json:"nickname,omitempty"`
	Role         string `yaml:"role" json:"role,omitempty"`
	Faction      string `yaml:"faction" json:"faction,omitempty"`
	HomeLocation string `yaml:"home_location" json:"home_location"`

	Schedule Schedule `yaml:"schedule" json:"schedule,omitempty"`

	// InitialRelationship seeds the ledger at world creation.
	InitialRelationship map[string]int `yaml:"initial_relationship" json:"initial_relationship,omitempty"`

	// Runtime state. Only the schedule engine and effect application
	// write these.
	CurrentLocation string `json:"current_location"`
	CurrentActivity string `json:"current_activity"`
	Alive           bool   `json:"alive"`
}

// DisplayName prefers the nickname when one is set.
func (c *Character) DisplayName() string {
	if c.Nickname != "" {
		return c.Nickname
	}
	return c.Name
}
