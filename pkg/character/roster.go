package character

import "sort"

// Roster holds every character in the world, keyed by id. The roster is
// populated once at content load; afterwards only the runtime fields of
// its characters change.
type Roster struct {
	characters map[string]*Character
	order      []string
}

// NewRoster builds a roster from loaded characters. Each character's
// runtime location starts at its home location.
func NewRoster(chars []*Character) *Roster {
	r := &Roster{characters: make(map[string]*Character, len(chars))}
	for _, c := range chars {
		if c.CurrentLocation == "" {
			c.CurrentLocation = c.HomeLocation
		}
		if c.CurrentActivity == "" {
			c.CurrentActivity = "idle"
		}
		c.Alive = true
		r.characters[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	sort.Strings(r.order)
	return r
}

// Get returns a character by id, or nil if unknown. An unknown id is a
// normal negative outcome, not an error.
func (r *Roster) Get(id string) *Character {
	return r.characters[id]
}

// ByName finds a character by name or nickname.
func (r *Roster) ByName(name string) *Character {
	for _, id := range r.order {
		c := r.characters[id]
		if c.Name == name || c.Nickname == name {
			return c
		}
	}
	return nil
}

// All returns every character in stable id order.
func (r *Roster) All() []*Character {
	out := make([]*Character, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.characters[id])
	}
	return out
}

// AtLocation returns the living characters currently at a location.
func (r *Roster) AtLocation(locationID string) []*Character {
	var out []*Character
	for _, id := range r.order {
		c := r.characters[id]
		if c.Alive && c.CurrentLocation == locationID {
			out = append(out, c)
		}
	}
	return out
}

// Locations returns each living character's current location, keyed by
// id. Used by the event engine's npc_at_location checks.
func (r *Roster) Locations() map[string]string {
	out := make(map[string]string, len(r.characters))
	for id, c := range r.characters {
		if c.Alive {
			out[id] = c.CurrentLocation
		}
	}
	return out
}

// SetLocation updates a character's runtime location. It reports
// whether the character exists.
func (r *Roster) SetLocation(id, location string) bool {
	c := r.characters[id]
	if c == nil {
		return false
	}
	c.CurrentLocation = location
	return true
}

// SetAlive updates a character's alive state.
func (r *Roster) SetAlive(id string, alive bool) bool {
	c := r.characters[id]
	if c == nil {
		return false
	}
	c.Alive = alive
	return true
}

// RuntimeState is the persistence shape for one character's mutable
// fields.
type RuntimeState struct {
	CurrentLocation string `json:"current_location"`
	CurrentActivity string `json:"current_activity"`
	Alive           bool   `json:"alive"`
}

// Snapshot returns every character's runtime state keyed by id.
func (r *Roster) Snapshot() map[string]RuntimeState {
	out := make(map[string]RuntimeState, len(r.characters))
	for id, c := range r.characters {
		out[id] = RuntimeState{
			CurrentLocation: c.CurrentLocation,
			CurrentActivity: c.CurrentActivity,
			Alive:           c.Alive,
		}
	}
	return out
}

// Restore applies saved runtime state. Characters missing from the
// snapshot keep their load-time defaults; snapshot entries for unknown
// characters are ignored.
func (r *Roster) Restore(state map[string]RuntimeState) {
	for id, st := range state {
		c := r.characters[id]
		if c == nil {
			continue
		}
		c.CurrentLocation = st.CurrentLocation
		c.CurrentActivity = st.CurrentActivity
		c.Alive = st.Alive
	}
}
