// Package clock advances game time and drives settlement notifications.
//
// The clock is the only source of state transitions in the simulation:
// an external driver calls Advance with the tick cost of the action just
// taken, and the clock publishes the resulting settlement events on the
// bus, synchronously, before Advance returns.
package clock

import (
	"log/slog"

	"github.com/jwebster45206/world-engine/pkg/bus"
	"github.com/jwebster45206/world-engine/pkg/calendar"
)

// TimeEvent is the payload published on every time channel. One value
// describes the whole advance; DaysPassed etc. are totals, not per-fire
// counters.
type TimeEvent struct {
	OldTime       calendar.Calendar `json:"old_time"`
	NewTime       calendar.Calendar `json:"new_time"`
	TicksAdvanced int               `json:"ticks_advanced"`
	DaysPassed    int               `json:"days_passed"`
	MonthsPassed  int               `json:"months_passed"`
	YearsPassed   int               `json:"years_passed"`
}

// Clock wraps a Calendar and publishes settlement notifications on an
// injected bus. There is no private hook table: the bus's priority
// ordering is the only ordering between consumers of one channel.
type Clock struct {
	bus    *bus.Bus
	logger *slog.Logger
	now    calendar.Calendar
}

// New creates a clock at the given start time.
func New(b *bus.Bus, start calendar.Calendar, logger *slog.Logger) *Clock {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clock{bus: b, logger: logger, now: start}
}

// Now returns the current game time.
func (c *Clock) Now() calendar.Calendar {
	return c.now
}

// Slot returns the current time slot.
func (c *Clock) Slot() calendar.TimeSlot {
	return c.now.Slot()
}

// Advance moves time forward by n ticks and publishes, in order:
// time_advanced once, slot_changed once iff the slot differs, then
// day_ended / month_ended / year_ended once per boundary crossed. The
// boundary counts are derived by comparing day/month/year indices before
// and after, not by dividing n. Day-level consumers therefore observe
// state before any month-level settlement runs.
//
// n <= 0 is a no-op that still publishes (and returns) a zero TimeEvent,
// so driver loops can rely on receiving a notification per action.
func (c *Clock) Advance(n int) TimeEvent {
	old := c.now

	if n <= 0 {
		event := TimeEvent{OldTime: old, NewTime: old}
		c.bus.Publish(bus.TimeAdvanced, event, "clock", old.Tick())
		return event
	}

	c.now = calendar.FromTick(old.Tick() + n)

	event := TimeEvent{
		OldTime:       old,
		NewTime:       c.now,
		TicksAdvanced: n,
		DaysPassed:    c.now.DayIndex() - old.DayIndex(),
		MonthsPassed:  c.now.MonthIndex() - old.MonthIndex(),
		YearsPassed:   c.now.Year - old.Year,
	}

	tick := c.now.Tick()
	c.bus.Publish(bus.TimeAdvanced, event, "clock", tick)

	// Fires only when the derived slot differs: advancing a whole day
	// lands on the same slot and does not re-fire it.
	if old.Slot() != c.now.Slot() {
		c.bus.Publish(bus.SlotChanged, event, "clock", tick)
	}

	for i := 0; i < event.DaysPassed; i++ {
		c.bus.Publish(bus.DayEnded, event, "clock", tick)
	}
	for i := 0; i < event.MonthsPassed; i++ {
		c.bus.Publish(bus.MonthEnded, event, "clock", tick)
	}
	for i := 0; i < event.YearsPassed; i++ {
		c.bus.Publish(bus.YearEnded, event, "clock", tick)
	}

	c.logger.Debug("time advanced",
		"from", old.String(),
		"to", c.now.String(),
		"ticks", n,
		"days_passed", event.DaysPassed)

	return event
}

// SetTime overwrites the current time. Used when restoring a save; it
// publishes nothing.
func (c *Clock) SetTime(t calendar.Calendar) {
	c.now = t
}

// Snapshot returns the clock's runtime-mutable state: the absolute tick.
func (c *Clock) Snapshot() int {
	return c.now.Tick()
}

// Restore resets the clock from a snapshot.
func (c *Clock) Restore(tick int) {
	c.now = calendar.FromTick(tick)
}
