// Package calendar converts absolute tick counts to game dates and back.
//
// The smallest unit of simulation time is one tick (a "time-block").
// Two ticks make a slot, four slots make a day, thirty days a month,
// twelve months a year. The absolute tick is the sole source of truth;
// year/month/day/slot are derived views.
package calendar

import (
	"encoding/json"
	"fmt"
)

// Time constants.
const (
	TicksPerSlot  = 2
	SlotsPerDay   = 4
	TicksPerDay   = TicksPerSlot * SlotsPerDay // 8
	DaysPerMonth  = 30
	MonthsPerYear = 12
	TicksPerMonth = TicksPerDay * DaysPerMonth    // 240
	TicksPerYear  = TicksPerMonth * MonthsPerYear // 2880
)

// TimeSlot is one of the four named quarters of a day.
type TimeSlot string

const (
	Morning   TimeSlot = "morning"
	Afternoon TimeSlot = "afternoon"
	Evening   TimeSlot = "evening"
	Night     TimeSlot = "night"
)

// SlotOrder is the fixed cyclic order of slots within a day.
var SlotOrder = [SlotsPerDay]TimeSlot{Morning, Afternoon, Evening, Night}

// ParseSlot returns the TimeSlot for a slot name.
func ParseSlot(s string) (TimeSlot, error) {
	switch TimeSlot(s) {
	case Morning, Afternoon, Evening, Night:
		return TimeSlot(s), nil
	}
	return "", fmt.Errorf("unknown time slot: %q", s)
}

// Ordinal returns the slot's position within the day (0-3).
func (s TimeSlot) Ordinal() int {
	for i, slot := range SlotOrder {
		if slot == s {
			return i
		}
	}
	return 0
}

// Next returns the slot that follows, wrapping night back to morning.
func (s TimeSlot) Next() TimeSlot {
	return SlotOrder[(s.Ordinal()+1)%SlotsPerDay]
}

// Calendar is a pure value type: a game date derived from an absolute
// tick count. Year, Month and Day are 1-based; TickInDay is 0-7.
type Calendar struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Day       int `json:"day"`
	TickInDay int `json:"tick_in_day"`
}

// FromTick derives a Calendar from an absolute tick count.
// Negative ticks are clamped to zero; this is a total function.
func FromTick(tick int) Calendar {
	if tick < 0 {
		tick = 0
	}
	var c Calendar
	c.Year = tick/TicksPerYear + 1
	rem := tick % TicksPerYear
	c.Month = rem/TicksPerMonth + 1
	rem %= TicksPerMonth
	c.Day = rem/TicksPerDay + 1
	c.TickInDay = rem % TicksPerDay
	return c
}

// Tick converts the Calendar back to an absolute tick count.
// FromTick and Tick are exact inverses for all non-negative ticks.
func (c Calendar) Tick() int {
	return (c.Year-1)*TicksPerYear +
		(c.Month-1)*TicksPerMonth +
		(c.Day-1)*TicksPerDay +
		c.TickInDay
}

// Slot returns the time slot for the current tick of the day.
func (c Calendar) Slot() TimeSlot {
	return SlotOrder[c.TickInDay/TicksPerSlot]
}

// SlotRemainingTicks returns how many ticks are left in the current slot.
func (c Calendar) SlotRemainingTicks() int {
	return TicksPerSlot - c.TickInDay%TicksPerSlot
}

// DayIndex returns the absolute day count since the start of year 1.
func (c Calendar) DayIndex() int {
	return c.Tick() / TicksPerDay
}

// MonthIndex returns the absolute month count since the start of year 1.
func (c Calendar) MonthIndex() int {
	return (c.Year-1)*MonthsPerYear + (c.Month - 1)
}

// Before reports whether c is earlier than other.
func (c Calendar) Before(other Calendar) bool {
	return c.Tick() < other.Tick()
}

// Equal reports whether two calendars denote the same tick.
func (c Calendar) Equal(other Calendar) bool {
	return c.Tick() == other.Tick()
}

func (c Calendar) String() string {
	return fmt.Sprintf("Year %d, Month %d, Day %d (%s)", c.Year, c.Month, c.Day, c.Slot())
}

type calendarJSON struct {
	Year         int      `json:"year"`
	Month        int      `json:"month"`
	Day          int      `json:"day"`
	TickInDay    int      `json:"tick_in_day"`
	AbsoluteTick int      `json:"absolute_tick"`
	Slot         TimeSlot `json:"slot"`
}

// MarshalJSON includes the absolute tick and slot as derived fields so
// serialized dates remain readable and round-trip losslessly.
func (c Calendar) MarshalJSON() ([]byte, error) {
	return json.Marshal(calendarJSON{
		Year:         c.Year,
		Month:        c.Month,
		Day:          c.Day,
		TickInDay:    c.TickInDay,
		AbsoluteTick: c.Tick(),
		Slot:         c.Slot(),
	})
}

// UnmarshalJSON restores from the absolute tick when present, otherwise
// from the date fields.
func (c *Calendar) UnmarshalJSON(data []byte) error {
	var raw calendarJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AbsoluteTick > 0 || (raw.Year == 0 && raw.Month == 0) {
		*c = FromTick(raw.AbsoluteTick)
		return nil
	}
	*c = Calendar{Year: raw.Year, Month: raw.Month, Day: raw.Day, TickInDay: raw.TickInDay}
	return nil
}

// Start is the calendar origin: Year 1, Month 1, Day 1, morning.
func Start() Calendar {
	return FromTick(0)
}
