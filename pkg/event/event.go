// Package event owns the pool of scripted events: trigger checking,
// tier-based selection, and execution. Execution returns effects
// un-applied; the game driver funnels them into the flag store and
// relationship ledger, which keeps this package free of hard
// dependencies on the other stores.
package event

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/relationship"
)

// Tier is the priority class of a scripted event. A Critical candidate
// always pre-empts Opportunity and Daily ones in the same check.
type Tier string

const (
	TierDaily       Tier = "daily"
	TierOpportunity Tier = "opportunity"
	TierCritical    Tier = "critical"
)

// ParseTier validates a tier string. Unknown tiers are configuration
// errors, fatal at load.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierDaily, TierOpportunity, TierCritical:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown event tier: %q", s)
}

// Window restricts when and where an event may trigger. Empty slot or
// location lists mean unrestricted.
type Window struct {
	TimeSlots []calendar.TimeSlot `yaml:"time_slots" json:"time_slots,omitempty"`
	Locations []string            `yaml:"locations" json:"locations,omitempty"`
	YearMin   int                 `yaml:"year_min" json:"year_min,omitempty"`
	YearMax   int                 `yaml:"year_max" json:"year_max,omitempty"`
}

// SameAsPlayer is the sentinel location in an npc_at_location
// constraint: the named character must be wherever the player is.
const SameAsPlayer = "same_as_player"

// Threshold is a relationship requirement, ">=n" or ">n". A bare
// number in content means ">=n".
type Threshold struct {
	Strict bool `json:"strict,omitempty"`
	Value  int  `json:"value"`
}

// Met reports whether a dimension value satisfies the threshold.
func (t Threshold) Met(value int) bool {
	if t.Strict {
		return value > t.Value
	}
	return value >= t.Value
}

// ParseThreshold accepts ">=n", ">n", or a plain integer string.
func ParseThreshold(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	strict := false
	switch {
	case strings.HasPrefix(s, ">="):
		s = s[2:]
	case strings.HasPrefix(s, ">"):
		s = s[1:]
		strict = true
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid relationship threshold %q: %w", s, err)
	}
	return Threshold{Strict: strict, Value: v}, nil
}

// UnmarshalYAML accepts either an integer or a ">=n"/">n" string.
func (t *Threshold) UnmarshalYAML(value *yaml.Node) error {
	var n int
	if err := value.Decode(&n); err == nil {
		*t = Threshold{Value: n}
		return nil
	}
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid relationship threshold: %w", err)
	}
	parsed, err := ParseThreshold(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Conditions gate an event beyond its window. All declared conditions
// must hold; omitted ones are unconstrained.
type Conditions struct {
	FlagsRequired []string `yaml:"flags_required" json:"flags_required,omitempty"`
	FlagsAbsent   []string `yaml:"flags_absent" json:"flags_absent,omitempty"`

	// NPCAtLocation maps character id to a required location id, or
	// SameAsPlayer.
	NPCAtLocation map[string]string `yaml:"npc_at_location" json:"npc_at_location,omitempty"`

	// Relationship maps character id to required dimension thresholds.
	Relationship map[string]map[relationship.Dimension]Threshold `yaml:"relationship" json:"relationship,omitempty"`

	// RandomChance gates the trigger on a uniform draw in [0,1).
	// nil means unconstrained (1.0).
	RandomChance *float64 `yaml:"random_chance" json:"random_chance,omitempty"`
}

// FollowUp schedules another event a number of days out.
type FollowUp struct {
	EventID   string `yaml:"event_id" json:"event_id"`
	DaysAfter int    `yaml:"days_after" json:"days_after"`
}

// ClueRef attaches a clue discovery to an effect.
type ClueRef struct {
	ID string `yaml:"id" json:"id"`
}

// Effect is the fixed payload an event (or one of its choices) applies
// to the world. Adding a new effect kind means adding a field here, so
// the compiler keeps every consumer honest.
type Effect struct {
	SetFlags      []string                                  `yaml:"set_flags" json:"set_flags,omitempty"`
	ClearFlags    []string                                  `yaml:"clear_flags" json:"clear_flags,omitempty"`
	Relationships map[string]map[relationship.Dimension]int `yaml:"relationship" json:"relationship,omitempty"`
	FollowUp      *FollowUp                                 `yaml:"schedule_followup" json:"schedule_followup,omitempty"`
	Clue          *ClueRef                                  `yaml:"add_clue" json:"add_clue,omitempty"`

	// Hints are narrative guidance for the out-of-scope prose layer;
	// they have no effect on simulation state.
	Hints map[string]string `yaml:"narrative_hints" json:"narrative_hints,omitempty"`
}

// IsEmpty reports whether the effect changes nothing.
func (e Effect) IsEmpty() bool {
	return len(e.SetFlags) == 0 &&
		len(e.ClearFlags) == 0 &&
		len(e.Relationships) == 0 &&
		e.FollowUp == nil &&
		e.Clue == nil
}

// Choice is a player-facing option carrying its own effect.
type Choice struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description,omitempty"`
	Effect      Effect `yaml:"effects" json:"effects"`
}

// unscheduled marks an event with no pending follow-up trigger.
const unscheduled = -1

// neverTriggered keeps cooldown math simple for events that have not
// fired yet.
const neverTriggered = -999

// ScriptedEvent is one authored event. Everything above the runtime
// block is static content; Tier is immutable after load.
type ScriptedEvent struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Tier       Tier       `yaml:"tier" json:"tier"`
	Storyline  string     `yaml:"storyline" json:"storyline,omitempty"`
	Repeatable bool       `yaml:"repeatable" json:"repeatable"`
	Window     Window     `yaml:"window" json:"window"`
	Conditions Conditions `yaml:"conditions" json:"conditions"`
	Effect     Effect     `yaml:"effects" json:"effects"`
	Choices    []Choice   `yaml:"choices" json:"choices,omitempty"`

	// Cooldown is the minimum number of days between triggers.
	Cooldown int `yaml:"cooldown" json:"cooldown"`

	// Runtime state.
	TriggeredCount   int `json:"triggered_count"`
	LastTriggeredDay int `json:"last_triggered_day"`
	ScheduledDay     int `json:"scheduled_day"`
}

// Choice returns the choice with the given id, if any.
func (e *ScriptedEvent) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}
