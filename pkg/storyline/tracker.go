// Package storyline tracks narrative arcs: a monotonically advancing
// phase per arc, the clues collected toward it, and the author-declared
// conditions that allow the next phase.
package storyline

import (
	"log/slog"
	"sort"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/flags"
	"github.com/jwebster45206/world-engine/pkg/relationship"
)

// Clue is a registered piece of evidence belonging to one arc.
type Clue struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
	Storyline   string `yaml:"storyline" json:"storyline"`
	Weight      int    `yaml:"weight" json:"weight"`

	// Runtime state.
	Discovered    bool `json:"discovered"`
	DiscoveredDay int  `json:"discovered_day"`
}

// AdvanceCondition is one way a phase can unlock: a flag being present,
// or a relationship dimension at or above a threshold. Conditions on a
// phase are alternatives; any one of them satisfies the phase.
type AdvanceCondition struct {
	Flag string `yaml:"flag" json:"flag,omitempty"`

	CharacterID string                 `yaml:"character" json:"character,omitempty"`
	Dimension   relationship.Dimension `yaml:"dimension" json:"dimension,omitempty"`
	Threshold   int                    `yaml:"threshold" json:"threshold,omitempty"`
}

// Phase is one authored step of an arc.
type Phase struct {
	Name              string             `yaml:"name" json:"name"`
	Description       string             `yaml:"description" json:"description,omitempty"`
	AdvanceConditions []AdvanceCondition `yaml:"advance_conditions" json:"advance_conditions,omitempty"`
}

// Progress is the runtime state of one arc.
type Progress struct {
	Storyline       string   `json:"storyline"`
	CurrentPhase    int      `json:"current_phase"`
	CluesCollected  []string `json:"clues_collected"`
	ClueWeightTotal int      `json:"clue_weight_total"`
}

// Advanced is the payload published on storyline_advanced.
type Advanced struct {
	Storyline string `json:"storyline"`
	OldPhase  int    `json:"old_phase"`
	NewPhase  int    `json:"new_phase"`
}

// Discovered is the payload published on clue_discovered.
type Discovered struct {
	ClueID    string `json:"clue_id"`
	Storyline string `json:"storyline"`
	Weight    int    `json:"weight"`
	Day       int    `json:"day"`
}

// Tracker aggregates arc progress on top of the flag store and
// relationship ledger.
type Tracker struct {
	flags  *flags.Store
	bus    *bus.Bus
	logger *slog.Logger

	arcs   map[string]*Progress
	clues  map[string]*Clue
	phases map[string][]Phase
}

// NewTracker creates an empty tracker. The bus may be nil.
func NewTracker(fs *flags.Store, b *bus.Bus, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		flags:  fs,
		bus:    b,
		logger: logger,
		arcs:   make(map[string]*Progress),
		clues:  make(map[string]*Clue),
		phases: make(map[string][]Phase),
	}
}

// InitStoryline registers an arc at phase 0 if absent.
func (t *Tracker) InitStoryline(name string) {
	if _, ok := t.arcs[name]; !ok {
		t.arcs[name] = &Progress{Storyline: name}
	}
}

// LoadPhases installs the authored phase list for each arc and
// initializes their progress.
func (t *Tracker) LoadPhases(config map[string][]Phase) {
	for name, phases := range config {
		t.phases[name] = phases
		t.InitStoryline(name)
	}
}

// RegisterClue adds a clue to the registry.
func (t *Tracker) RegisterClue(c Clue) {
	c.DiscoveredDay = -1
	t.clues[c.ID] = &c
}

// Phase returns an arc's current phase index, 0 for unknown arcs.
func (t *Tracker) Phase(name string) int {
	if p, ok := t.arcs[name]; ok {
		return p.CurrentPhase
	}
	return 0
}

// Advance moves an arc forward to the given phase. Phases only move
// forward: a target at or below the current phase is a no-op returning
// false.
func (t *Tracker) Advance(name string, toPhase int) bool {
	t.InitStoryline(name)
	p := t.arcs[name]
	if toPhase <= p.CurrentPhase {
		return false
	}
	old := p.CurrentPhase
	p.CurrentPhase = toPhase

	if t.bus != nil {
		t.bus.Publish(bus.StorylineAdvanced, Advanced{
			Storyline: name,
			OldPhase:  old,
			NewPhase:  toPhase,
		}, "storyline", 0)
	}
	t.logger.Info("storyline advanced", "storyline", name, "from", old, "to", toPhase)
	return true
}

// AdvanceNext moves an arc forward by exactly one phase.
func (t *Tracker) AdvanceNext(name string) bool {
	t.InitStoryline(name)
	return t.Advance(name, t.arcs[name].CurrentPhase+1)
}

// DiscoverClue marks a clue found on the given day. Rediscovering an
// already-found clue returns false with no side effect. First
// discovery appends to the arc's collected list and adds the clue's
// weight to its running total.
func (t *Tracker) DiscoverClue(id string, day int) bool {
	clue := t.clues[id]
	if clue == nil {
		t.logger.Warn("unknown clue", "clue", id)
		return false
	}
	if clue.Discovered {
		return false
	}
	clue.Discovered = true
	clue.DiscoveredDay = day

	t.InitStoryline(clue.Storyline)
	p := t.arcs[clue.Storyline]
	p.CluesCollected = append(p.CluesCollected, id)
	p.ClueWeightTotal += clue.Weight

	if t.bus != nil {
		t.bus.Publish(bus.ClueDiscovered, Discovered{
			ClueID:    id,
			Storyline: clue.Storyline,
			Weight:    clue.Weight,
			Day:       day,
		}, "storyline", 0)
	}
	t.logger.Info("clue discovered", "clue", id, "storyline", clue.Storyline, "weight", clue.Weight)
	return true
}

// ClueCount returns how many clues an arc has collected.
func (t *Tracker) ClueCount(name string) int {
	if p, ok := t.arcs[name]; ok {
		return len(p.CluesCollected)
	}
	return 0
}

// ClueWeight returns an arc's cumulative clue weight.
func (t *Tracker) ClueWeight(name string) int {
	if p, ok := t.arcs[name]; ok {
		return p.ClueWeightTotal
	}
	return 0
}

// DiscoveredClues returns found clues, optionally filtered by arc.
func (t *Tracker) DiscoveredClues(storyline string) []*Clue {
	var ids []string
	for id, c := range t.clues {
		if c.Discovered && (storyline == "" || c.Storyline == storyline) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]*Clue, len(ids))
	for i, id := range ids {
		out[i] = t.clues[id]
	}
	return out
}

// CheckPhaseAdvance evaluates the current phase's declared advance
// conditions only; it never looks ahead. It reports whether any
// condition holds — conditions are alternatives, not a conjunction.
func (t *Tracker) CheckPhaseAdvance(name string, ledger *relationship.Ledger) bool {
	phases, ok := t.phases[name]
	if !ok {
		return false
	}
	p, ok := t.arcs[name]
	if !ok {
		return false
	}
	if p.CurrentPhase >= len(phases)-1 {
		// Already at the final phase.
		return false
	}
	for _, cond := range phases[p.CurrentPhase].AdvanceConditions {
		if cond.Flag != "" && t.flags.Has(cond.Flag) {
			return true
		}
		if cond.CharacterID != "" && cond.Dimension != "" {
			if ledger.Value(cond.CharacterID, cond.Dimension) >= cond.Threshold {
				return true
			}
		}
	}
	return false
}
