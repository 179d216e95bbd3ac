// Package sim assembles the simulation core into one world instance:
// bus, clock, flag store, relationship ledger, roster, schedule engine,
// event engine, and storyline tracker, wired together the way the
// driver loop expects.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jwebster45206/world-engine/internal/content"
	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/calendar"
	"github.com/jwebster45206/world-engine/pkg/character"
	"github.com/jwebster45206/world-engine/pkg/clock"
	"github.com/jwebster45206/world-engine/pkg/event"
	"github.com/jwebster45206/world-engine/pkg/flags"
	"github.com/jwebster45206/world-engine/pkg/relationship"
	"github.com/jwebster45206/world-engine/pkg/schedule"
	"github.com/jwebster45206/world-engine/pkg/storyline"
	"github.com/jwebster45206/world-engine/pkg/world"
)

// World is one independent simulation instance. Construct as many as
// needed in one process; nothing here is global. The world is
// single-writer: callers exposing it to concurrent drivers must
// serialize access per instance.
type World struct {
	ID uuid.UUID

	Bus        *bus.Bus
	Clock      *clock.Clock
	Flags      *flags.Store
	Ledger     *relationship.Ledger
	Roster     *character.Roster
	Schedule   *schedule.Engine
	Events     *event.Engine
	Storylines *storyline.Tracker
	Map        *world.Map

	// PlayerLocation is where the player currently is; event windows
	// and same_as_player constraints read it.
	PlayerLocation string

	logger *slog.Logger
}

// New builds a world from loaded content. The seed drives event chance
// rolls and tier selection; equal seeds on equal content give equal
// runs.
func New(c *content.Content, seed int64, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := bus.New(logger)
	fs := flags.NewStore(b, logger)
	ledger := relationship.NewLedger(b, logger)
	roster := character.NewRoster(c.Characters)
	sched := schedule.NewEngine(roster, b, logger)

	rng := rand.New(rand.NewSource(seed))
	events, err := event.NewEngine(c.Events, rng, b, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build event engine: %w", err)
	}

	tracker := storyline.NewTracker(fs, b, logger)
	tracker.LoadPhases(c.Phases)
	for _, clue := range c.Clues {
		tracker.RegisterClue(clue)
	}

	w := &World{
		ID:             uuid.New(),
		Bus:            b,
		Clock:          clock.New(b, calendar.Start(), logger),
		Flags:          fs,
		Ledger:         ledger,
		Roster:         roster,
		Schedule:       sched,
		Events:         events,
		Storylines:     tracker,
		Map:            c.Map,
		PlayerLocation: c.Map.StartLocation,
		logger:         logger,
	}

	for _, ch := range c.Characters {
		seed := make(map[relationship.Dimension]int, len(ch.InitialRelationship))
		for dim, val := range ch.InitialRelationship {
			seed[relationship.Dimension(dim)] = val
		}
		ledger.Init(ch.ID, seed)
	}

	w.wire()
	return w, nil
}

// wire subscribes the settlement consumers. The schedule runs at high
// priority so any same-channel consumer observes characters already
// relocated; decay runs on the day and month channels, which the clock
// fires in day-before-month order within one advance.
func (w *World) wire() {
	w.Bus.Subscribe(bus.SlotChanged, func(e bus.Event) {
		te := e.Payload.(clock.TimeEvent)
		w.Schedule.ExecuteSlot(te.NewTime.Slot())
	}, bus.PriorityHigh)

	w.Bus.Subscribe(bus.DayEnded, func(bus.Event) {
		w.Ledger.ApplyDailyDecay()
	}, bus.PriorityNormal)

	w.Bus.Subscribe(bus.MonthEnded, func(bus.Event) {
		w.Ledger.ApplyMonthlyDecay()
	}, bus.PriorityNormal)
}

// Advance moves game time forward. All settlement side effects are
// applied synchronously before it returns.
func (w *World) Advance(ticks int) clock.TimeEvent {
	return w.Clock.Advance(ticks)
}

// MovePlayer relocates the player. Unknown locations are refused.
func (w *World) MovePlayer(locationID string) error {
	if !w.Map.Has(locationID) {
		return fmt.Errorf("unknown location: %q", locationID)
	}
	w.PlayerLocation = locationID
	return nil
}

// View assembles the read-only snapshot the event engine checks
// triggers against.
func (w *World) View() event.WorldView {
	now := w.Clock.Now()

	flagSet := make(map[string]bool)
	for _, f := range w.Flags.All() {
		flagSet[f] = true
	}

	rels := make(map[string]map[relationship.Dimension]int)
	for _, id := range w.Ledger.CharacterIDs() {
		rels[id] = w.Ledger.Values(id)
	}

	return event.WorldView{
		Day:            now.DayIndex(),
		Year:           now.Year,
		Slot:           now.Slot(),
		PlayerLocation: w.PlayerLocation,
		Flags:          flagSet,
		NPCLocations:   w.Roster.Locations(),
		Relationships:  rels,
	}
}

// ApplyResult funnels an executed event's effects into the stores.
// This is the driver-loop half of event execution: the event engine
// returns effects un-applied, and everything narrative-driven comes
// back through here.
func (w *World) ApplyResult(res event.ExecutionResult) {
	day := w.Clock.Now().DayIndex()
	source := "event:" + res.EventID

	for _, flag := range res.Effect.SetFlags {
		w.Flags.Set(flag, source)
	}
	for _, flag := range res.Effect.ClearFlags {
		w.Flags.Clear(flag, source)
	}
	for charID, deltas := range res.Effect.Relationships {
		w.Ledger.ApplyChanges(charID, deltas, source, day)
		w.Ledger.RecordInteraction(charID)
	}
	if clue := res.Effect.Clue; clue != nil {
		w.Storylines.DiscoverClue(clue.ID, day)
	}
	if fu := res.Effect.FollowUp; fu != nil {
		if !w.Events.Schedule(fu.EventID, day+fu.DaysAfter) {
			w.logger.Warn("follow-up event not found", "event", fu.EventID)
		}
	}
}
