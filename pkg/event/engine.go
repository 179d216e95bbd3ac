package event

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/relationship"
)

// WorldView is everything a trigger check reads. The caller assembles
// it from the clock, flag store, ledger, and roster; the engine never
// touches those stores directly.
type WorldView struct {
	Day            int
	Year           int
	Slot           calendar.TimeSlot
	PlayerLocation string

	// Flags is the current flag set.
	Flags map[string]bool

	// NPCLocations maps character id to current location.
	NPCLocations map[string]string

	// Relationships maps character id to dimension values.
	Relationships map[string]map[relationship.Dimension]int
}

// ExecutionResult is what Execute returns: the resolved effect payload,
// un-applied. The driver is responsible for funneling it into the flag
// store and ledger, which keeps effect application independently
// testable.
type ExecutionResult struct {
	EventID    string `json:"event_id"`
	EventName  string `json:"event_name"`
	Tier       Tier   `json:"tier"`
	Storyline  string `json:"storyline,omitempty"`
	ChoiceMade string `json:"choice_made,omitempty"`
	Effect     Effect `json:"effect"`
}

// Engine owns the event pool, partitioned by tier at load time.
type Engine struct {
	bus    *bus.Bus
	logger *slog.Logger
	rng    *rand.Rand

	events map[string]*ScriptedEvent
	order  []string

	pools map[Tier][]string
}

// NewEngine builds an engine from loaded events. The rng must not be
// nil: a seeded source keeps selection deterministic under test. The
// bus may be nil.
func NewEngine(events []*ScriptedEvent, rng *rand.Rand, b *bus.Bus, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		bus:    b,
		logger: logger,
		rng:    rng,
		events: make(map[string]*ScriptedEvent, len(events)),
		pools:  make(map[Tier][]string),
	}
	for _, ev := range events {
		if _, err := ParseTier(string(ev.Tier)); err != nil {
			return nil, fmt.Errorf("event %q: %w", ev.ID, err)
		}
		if _, dup := e.events[ev.ID]; dup {
			return nil, fmt.Errorf("duplicate event id %q", ev.ID)
		}
		ev.LastTriggeredDay = neverTriggered
		ev.ScheduledDay = unscheduled
		e.events[ev.ID] = ev
		e.order = append(e.order, ev.ID)
		e.pools[ev.Tier] = append(e.pools[ev.Tier], ev.ID)
	}
	sort.Strings(e.order)
	logger.Info("event pool loaded",
		"total", len(e.events),
		"daily", len(e.pools[TierDaily]),
		"opportunity", len(e.pools[TierOpportunity]),
		"critical", len(e.pools[TierCritical]))
	return e, nil
}

// Get returns an event by id, or nil if unknown.
func (e *Engine) Get(id string) *ScriptedEvent {
	return e.events[id]
}

// ByTier returns the events in one tier pool.
func (e *Engine) ByTier(tier Tier) []*ScriptedEvent {
	ids := e.pools[tier]
	out := make([]*ScriptedEvent, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.events[id])
	}
	return out
}

// ByStoryline returns every event belonging to a storyline.
func (e *Engine) ByStoryline(storyline string) []*ScriptedEvent {
	var out []*ScriptedEvent
	for _, id := range e.order {
		if ev := e.events[id]; ev.Storyline == storyline {
			out = append(out, ev)
		}
	}
	return out
}

// CheckTriggers evaluates every event against the view and returns the
// candidates. Checking has no side effects: candidates are not marked
// triggered. Candidate order is not meaningful; selection is random
// within a tier.
func (e *Engine) CheckTriggers(view WorldView) []*ScriptedEvent {
	var candidates []*ScriptedEvent
	for _, id := range e.order {
		ev := e.events[id]
		if e.canTrigger(ev, view) {
			candidates = append(candidates, ev)
		}
	}
	return candidates
}

// canTrigger applies the rejection chain in fixed order; the random
// gate rolls last so cheaper checks short-circuit it.
func (e *Engine) canTrigger(ev *ScriptedEvent, view WorldView) bool {
	if !ev.Repeatable && ev.TriggeredCount > 0 {
		return false
	}
	if ev.Cooldown > 0 && view.Day-ev.LastTriggeredDay < ev.Cooldown {
		return false
	}
	if ev.Window.YearMin > 0 && view.Year < ev.Window.YearMin {
		return false
	}
	if ev.Window.YearMax > 0 && view.Year > ev.Window.YearMax {
		return false
	}
	if len(ev.Window.TimeSlots) > 0 && !containsSlot(ev.Window.TimeSlots, view.Slot) {
		return false
	}
	if len(ev.Window.Locations) > 0 && !contains(ev.Window.Locations, view.PlayerLocation) {
		return false
	}
	for _, flag := range ev.Conditions.FlagsRequired {
		if !view.Flags[flag] {
			return false
		}
	}
	for _, flag := range ev.Conditions.FlagsAbsent {
		if view.Flags[flag] {
			return false
		}
	}
	for npcID, required := range ev.Conditions.NPCAtLocation {
		actual, present := view.NPCLocations[npcID]
		if !present {
			return false
		}
		if required == SameAsPlayer {
			if actual != view.PlayerLocation {
				return false
			}
		} else if actual != required {
			return false
		}
	}
	for npcID, reqs := range ev.Conditions.Relationship {
		values := view.Relationships[npcID]
		for dim, threshold := range reqs {
			if !threshold.Met(values[dim]) {
				return false
			}
		}
	}
	// Per-check coin flip: an event with chance < 1 may be rolled
	// again on every check in the same slot.
	if chance := ev.Conditions.RandomChance; chance != nil && *chance < 1.0 {
		if e.rng.Float64() > *chance {
			return false
		}
	}
	return true
}

// Select picks at most one event from the candidates: uniformly at
// random from the highest tier present. Critical beats Opportunity
// beats Daily unconditionally.
func (e *Engine) Select(candidates []*ScriptedEvent) *ScriptedEvent {
	if len(candidates) == 0 {
		return nil
	}
	for _, tier := range []Tier{TierCritical, TierOpportunity, TierDaily} {
		var pool []*ScriptedEvent
		for _, ev := range candidates {
			if ev.Tier == tier {
				pool = append(pool, ev)
			}
		}
		if len(pool) > 0 {
			return pool[e.rng.Intn(len(pool))]
		}
	}
	return nil
}

// Execute resolves the effective effect (the event's own, or the chosen
// choice's), marks the event triggered, publishes event_triggered, and
// returns the effect payload without applying it.
//
// A second Execute of a non-repeatable event is an invariant violation
// and is refused.
func (e *Engine) Execute(ev *ScriptedEvent, choiceID string, currentDay int) (ExecutionResult, error) {
	if !ev.Repeatable && ev.TriggeredCount > 0 {
		return ExecutionResult{}, fmt.Errorf("event %q is not repeatable and already triggered", ev.ID)
	}

	effect := ev.Effect
	choiceMade := ""
	if choiceID != "" {
		if choice, ok := ev.Choice(choiceID); ok {
			effect = choice.Effect
			choiceMade = choice.ID
		}
	}

	ev.TriggeredCount++
	ev.LastTriggeredDay = currentDay

	result := ExecutionResult{
		EventID:    ev.ID,
		EventName:  ev.Name,
		Tier:       ev.Tier,
		Storyline:  ev.Storyline,
		ChoiceMade: choiceMade,
		Effect:     effect,
	}

	if e.bus != nil {
		e.bus.Publish(bus.EventTriggered, result, "events", 0)
	}
	e.logger.Info("event triggered", "event", ev.ID, "name", ev.Name, "tier", ev.Tier, "choice", choiceMade)

	return result, nil
}

// Schedule arms a deferred trigger: the event fires on or after
// triggerDay via DueScheduled, independent of the normal checks. This
// is the "three days later, X happens" mechanism. It reports whether
// the event id exists.
func (e *Engine) Schedule(eventID string, triggerDay int) bool {
	ev := e.events[eventID]
	if ev == nil {
		return false
	}
	ev.ScheduledDay = triggerDay
	return true
}

// DueScheduled returns every event whose scheduled day has arrived and
// disarms each; an event is returned exactly once per scheduling.
func (e *Engine) DueScheduled(currentDay int) []*ScriptedEvent {
	var due []*ScriptedEvent
	for _, id := range e.order {
		ev := e.events[id]
		if ev.ScheduledDay != unscheduled && ev.ScheduledDay <= currentDay {
			due = append(due, ev)
			ev.ScheduledDay = unscheduled
		}
	}
	return due
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsSlot(list []calendar.TimeSlot, s calendar.TimeSlot) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
