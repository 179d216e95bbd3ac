// Package world holds the static location graph: places, their
// adjacency, and travel costs. The graph is read-only content; the
// schedule engine deliberately ignores it when relocating characters.
package world

import (
	"fmt"
	"sort"
)

// Location is one place in the world.
type Location struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type,omitempty"`
	Region      string `yaml:"region" json:"region,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	DangerLevel string `yaml:"danger_level" json:"danger_level,omitempty"`
	CanRest     bool   `yaml:"can_rest" json:"can_rest,omitempty"`
}

// Connection links two locations with a travel time in ticks.
type Connection struct {
	From          string `yaml:"from" json:"from"`
	To            string `yaml:"to" json:"to"`
	TravelTime    int    `yaml:"travel_time" json:"travel_time"`
	Bidirectional bool   `yaml:"bidirectional" json:"bidirectional"`
}

// Map is the assembled location graph.
type Map struct {
	locations map[string]*Location
	edges     map[string]map[string]int

	// TravelModifiers scale travel time by mode ("walk", "fly", ...).
	TravelModifiers map[string]float64

	// StartLocation is where a new player begins.
	StartLocation string
}

// NewMap assembles a graph and validates that every connection
// references a known location. A dangling reference is a configuration
// error, fatal at load.
func NewMap(locations []Location, connections []Connection) (*Map, error) {
	m := &Map{
		locations:       make(map[string]*Location, len(locations)),
		edges:           make(map[string]map[string]int),
		TravelModifiers: map[string]float64{"walk": 1.0},
	}
	for i := range locations {
		loc := locations[i]
		if _, dup := m.locations[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location id %q", loc.ID)
		}
		m.locations[loc.ID] = &loc
	}
	for _, conn := range connections {
		if m.locations[conn.From] == nil {
			return nil, fmt.Errorf("connection references unknown location %q", conn.From)
		}
		if m.locations[conn.To] == nil {
			return nil, fmt.Errorf("connection references unknown location %q", conn.To)
		}
		m.addEdge(conn.From, conn.To, conn.TravelTime)
		if conn.Bidirectional {
			m.addEdge(conn.To, conn.From, conn.TravelTime)
		}
	}
	return m, nil
}

func (m *Map) addEdge(from, to string, travelTime int) {
	if travelTime < 1 {
		travelTime = 1
	}
	if m.edges[from] == nil {
		m.edges[from] = make(map[string]int)
	}
	m.edges[from][to] = travelTime
}

// Get returns a location by id, or nil if unknown.
func (m *Map) Get(id string) *Location {
	return m.locations[id]
}

// Has reports whether a location id exists.
func (m *Map) Has(id string) bool {
	return m.locations[id] != nil
}

// IDs returns every location id, sorted.
func (m *Map) IDs() []string {
	out := make([]string, 0, len(m.locations))
	for id := range m.locations {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Neighbors returns the locations directly reachable from one, sorted.
func (m *Map) Neighbors(id string) []string {
	out := make([]string, 0, len(m.edges[id]))
	for to := range m.edges[id] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// Reachable reports whether to is directly connected from from.
func (m *Map) Reachable(from, to string) bool {
	_, ok := m.edges[from][to]
	return ok
}

// TravelTime returns the tick cost of traveling between adjacent
// locations for a mode, applying the mode's modifier (minimum 1 tick
// unless the modifier is zero). The second return is false for
// non-adjacent pairs.
func (m *Map) TravelTime(from, to, mode string) (int, bool) {
	base, ok := m.edges[from][to]
	if !ok {
		return 0, false
	}
	modifier, known := m.TravelModifiers[mode]
	if !known {
		modifier = 1.0
	}
	if modifier == 0 {
		return 0, true
	}
	cost := int(float64(base) * modifier)
	if cost < 1 {
		cost = 1
	}
	return cost, true
}
