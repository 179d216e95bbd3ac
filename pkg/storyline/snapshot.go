package storyline

// Snapshot is the persistence shape for the tracker: per-arc progress
// plus the ids of discovered clues.
type Snapshot struct {
	Storylines      map[string]Progress `json:"storylines"`
	DiscoveredClues []string            `json:"discovered_clues"`
}

// Snapshot returns the tracker's runtime-mutable state.
func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{Storylines: make(map[string]Progress, len(t.arcs))}
	for name, p := range t.arcs {
		cp := *p
		cp.CluesCollected = append([]string(nil), p.CluesCollected...)
		snap.Storylines[name] = cp
	}
	for _, c := range t.DiscoveredClues("") {
		snap.DiscoveredClues = append(snap.DiscoveredClues, c.ID)
	}
	return snap
}

// Restore applies saved progress. Discovered-clue entries for clues
// missing from the registry are ignored.
func (t *Tracker) Restore(snap Snapshot) {
	for _, c := range t.clues {
		c.Discovered = false
		c.DiscoveredDay = -1
	}
	t.arcs = make(map[string]*Progress, len(snap.Storylines))
	for name, p := range snap.Storylines {
		cp := p
		cp.Storyline = name
		cp.CluesCollected = append([]string(nil), p.CluesCollected...)
		t.arcs[name] = &cp
	}
	for _, id := range snap.DiscoveredClues {
		if c, ok := t.clues[id]; ok {
			c.Discovered = true
		}
	}
}
