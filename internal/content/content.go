// Package content loads the static game content the simulation runs
// on: the location graph, the character roster, and the scripted event
// pool. Content errors are fatal at load and surfaced to the operator;
// the simulation never starts on malformed content.
package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/character"
	"github.com/jwebster45206/world-engine/pkg/event"
	"github.com/jwebster45206/world-engine/pkg/relationship"
	"github.com/jwebster45206/world-engine/pkg/storyline"
	"github.com/jwebster45206/world-engine/pkg/world"
)

// Content is everything loaded from a data directory.
type Content struct {
	Map        *world.Map
	Characters []*character.Character
	Events     []*event.ScriptedEvent
	Phases     map[string][]storyline.Phase
	Clues      []storyline.Clue
}

// Load reads world.yaml, npcs.yaml, and events.yaml from dataDir and
// cross-validates references between them.
func Load(dataDir string) (*Content, error) {
	m, err := loadWorld(filepath.Join(dataDir, "world.yaml"))
	if err != nil {
		return nil, err
	}
	chars, err := loadCharacters(filepath.Join(dataDir, "npcs.yaml"), m)
	if err != nil {
		return nil, err
	}
	events, phases, clues, err := loadEvents(filepath.Join(dataDir, "events.yaml"), m, chars)
	if err != nil {
		return nil, err
	}
	return &Content{
		Map:        m,
		Characters: chars,
		Events:     events,
		Phases:     phases,
		Clues:      clues,
	}, nil
}

type worldFile struct {
	StartLocation   string                    `yaml:"start_location"`
	TravelModifiers map[string]float64        `yaml:"travel_modifiers"`
	Locations       map[string]world.Location `yaml:"locations"`
	Connections     []world.Connection        `yaml:"connections"`
}

func loadWorld(path string) (*world.Map, error) {
	var doc worldFile
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}

	locations := make([]world.Location, 0, len(doc.Locations))
	for id, loc := range doc.Locations {
		if loc.ID == "" {
			loc.ID = id
		}
		locations = append(locations, loc)
	}

	m, err := world.NewMap(locations, doc.Connections)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(doc.TravelModifiers) > 0 {
		m.TravelModifiers = doc.TravelModifiers
	}
	if doc.StartLocation != "" {
		if !m.Has(doc.StartLocation) {
			return nil, fmt.Errorf("%s: start_location %q is not a known location", path, doc.StartLocation)
		}
		m.StartLocation = doc.StartLocation
	}
	return m, nil
}

type npcsFile struct {
	NPCs map[string]*character.Character `yaml:"npcs"`
}

func loadCharacters(path string, m *world.Map) ([]*character.Character, error) {
	var doc npcsFile
	if err := readYAML(path, &doc); err != nil {
		return nil, err
	}

	chars := make([]*character.Character, 0, len(doc.NPCs))
	for id, c := range doc.NPCs {
		if c.ID == "" {
			c.ID = id
		}
		if c.Name == "" {
			c.Name = id
		}
		if c.HomeLocation == "" {
			return nil, fmt.Errorf("%s: character %q has no home_location", path, id)
		}
		if !m.Has(c.HomeLocation) {
			return nil, fmt.Errorf("%s: character %q home_location %q is not a known location", path, id, c.HomeLocation)
		}
		for slot, entry := range c.Schedule {
			if _, err := calendar.ParseSlot(string(slot)); err != nil {
				return nil, fmt.Errorf("%s: character %q schedule: %w", path, id, err)
			}
			if !m.Has(entry.Location) {
				return nil, fmt.Errorf("%s: character %q %s routine location %q is not a known location", path, id, slot, entry.Location)
			}
		}
		for dim := range c.InitialRelationship {
			if !validDimension(dim) {
				return nil, fmt.Errorf("%s: character %q initial_relationship has unknown dimension %q", path, id, dim)
			}
		}
		chars = append(chars, c)
	}
	return chars, nil
}

type eventsFile struct {
	Events map[string]*event.ScriptedEvent      `yaml:"events"`
	Phases map[string][]storyline.Phase         `yaml:"story_phases"`
	Clues  map[string]map[string]storyline.Clue `yaml:"clues"`
}

func loadEvents(path string, m *world.Map, chars []*character.Character) ([]*event.ScriptedEvent, map[string][]storyline.Phase, []storyline.Clue, error) {
	var doc eventsFile
	if err := readYAML(path, &doc); err != nil {
		return nil, nil, nil, err
	}

	known := make(map[string]bool, len(chars))
	for _, c := range chars {
		known[c.ID] = true
	}

	clueIDs := make(map[string]bool)
	var clues []storyline.Clue
	for arc, arcClues := range doc.Clues {
		for id, clue := range arcClues {
			if clue.ID == "" {
				clue.ID = id
			}
			if clue.Name == "" {
				clue.Name = id
			}
			clue.Storyline = arc
			if clue.Weight == 0 {
				clue.Weight = 1
			}
			clueIDs[clue.ID] = true
			clues = append(clues, clue)
		}
	}

	events := make([]*event.ScriptedEvent, 0, len(doc.Events))
	for id, ev := range doc.Events {
		if ev.ID == "" {
			ev.ID = id
		}
		if ev.Name == "" {
			ev.Name = id
		}
		if ev.Tier == "" {
			ev.Tier = event.TierDaily
		}
		if err := validateEvent(ev, m, known, clueIDs); err != nil {
			return nil, nil, nil, fmt.Errorf("%s: event %q: %w", path, id, err)
		}
		events = append(events, ev)
	}

	// Follow-up targets must exist in the pool.
	ids := make(map[string]bool, len(events))
	for _, ev := range events {
		ids[ev.ID] = true
	}
	for _, ev := range events {
		for _, eff := range eventEffects(ev) {
			if eff.FollowUp != nil && !ids[eff.FollowUp.EventID] {
				return nil, nil, nil, fmt.Errorf("%s: event %q schedules unknown follow-up event %q", path, ev.ID, eff.FollowUp.EventID)
			}
		}
	}

	for arc, phases := range doc.Phases {
		for i, phase := range phases {
			for _, cond := range phase.AdvanceConditions {
				if cond.CharacterID != "" && !known[cond.CharacterID] {
					return nil, nil, nil, fmt.Errorf("%s: storyline %q phase %d references unknown character %q", path, arc, i, cond.CharacterID)
				}
				if cond.Dimension != "" && !validDimension(string(cond.Dimension)) {
					return nil, nil, nil, fmt.Errorf("%s: storyline %q phase %d has unknown dimension %q", path, arc, i, cond.Dimension)
				}
			}
		}
	}

	return events, doc.Phases, clues, nil
}

func validateEvent(ev *event.ScriptedEvent, m *world.Map, knownChars, knownClues map[string]bool) error {
	if _, err := event.ParseTier(string(ev.Tier)); err != nil {
		return err
	}
	for _, slot := range ev.Window.TimeSlots {
		if _, err := calendar.ParseSlot(string(slot)); err != nil {
			return err
		}
	}
	for _, loc := range ev.Window.Locations {
		if !m.Has(loc) {
			return fmt.Errorf("window references unknown location %q", loc)
		}
	}
	for npcID, loc := range ev.Conditions.NPCAtLocation {
		if !knownChars[npcID] {
			return fmt.Errorf("npc_at_location references unknown character %q", npcID)
		}
		if loc != event.SameAsPlayer && !m.Has(loc) {
			return fmt.Errorf("npc_at_location references unknown location %q", loc)
		}
	}
	for npcID := range ev.Conditions.Relationship {
		if !knownChars[npcID] {
			return fmt.Errorf("relationship condition references unknown character %q", npcID)
		}
	}
	if chance := ev.Conditions.RandomChance; chance != nil && (*chance < 0 || *chance > 1) {
		return fmt.Errorf("random_chance %v is outside [0, 1]", *chance)
	}
	for _, eff := range eventEffects(ev) {
		for charID := range eff.Relationships {
			if !knownChars[charID] {
				return fmt.Errorf("effect targets unknown character %q", charID)
			}
		}
		if eff.Clue != nil && !knownClues[eff.Clue.ID] {
			return fmt.Errorf("effect adds unknown clue %q", eff.Clue.ID)
		}
	}
	return nil
}

// eventEffects returns the event's own effect plus each choice's.
func eventEffects(ev *event.ScriptedEvent) []event.Effect {
	out := []event.Effect{ev.Effect}
	for _, c := range ev.Choices {
		out = append(out, c.Effect)
	}
	return out
}

func validDimension(s string) bool {
	switch relationship.Dimension(s) {
	case relationship.Trust, relationship.Affection, relationship.Respect, relationship.Fear:
		return true
	}
	return false
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
