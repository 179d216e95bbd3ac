// Package bus provides the synchronous notification bus the simulation
// components use to communicate without depending on each other.
//
// Channels are named, handlers run in descending priority order (ties in
// subscription order), and a handler panic never stops the remaining
// handlers from firing.
package bus

import (
	"log/slog"
	"sort"
)

// Handler priorities. Higher runs first within a channel.
const (
	PriorityLow      = 0
	PriorityNormal   = 50
	PriorityHigh     = 100
	PriorityCritical = 200
)

// Canonical channel names published by the simulation core.
const (
	TimeAdvanced        = "time_advanced"
	SlotChanged         = "slot_changed"
	DayEnded            = "day_ended"
	MonthEnded          = "month_ended"
	YearEnded           = "year_ended"
	NPCScheduleExecuted = "npc_schedule_executed"
	NPCLocationChanged  = "npc_location_changed"
	RelationshipChanged = "relationship_changed"
	FlagChanged         = "flag_changed"
	EventTriggered      = "event_triggered"
	StorylineAdvanced   = "storyline_advanced"
	ClueDiscovered      = "clue_discovered"
)

// Event is a published notification.
type Event struct {
	Channel string
	Payload any
	Source  string
	Tick    int // game time at publish, when the publisher knows it
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine.
type Handler func(Event)

// Subscription identifies one registered handler, for Unsubscribe.
type Subscription struct {
	channel string
	id      uint64
}

type registration struct {
	id       uint64
	handler  Handler
	priority int
	once     bool
	seq      uint64
}

const historyLimit = 100

// Bus is a named-channel publish/subscribe dispatcher. Construct one per
// world instance; there is no process-wide bus.
type Bus struct {
	logger   *slog.Logger
	channels map[string][]registration
	nextID   uint64
	nextSeq  uint64
	history  []Event
}

// New creates an empty bus. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:   logger,
		channels: make(map[string][]registration),
	}
}

// Subscribe registers a handler on a channel. Handlers with higher
// priority fire first; equal priorities fire in subscription order.
func (b *Bus) Subscribe(channel string, handler Handler, priority int) Subscription {
	return b.add(channel, handler, priority, false)
}

// SubscribeOnce registers a handler that is removed after its first
// invocation, even if that invocation panics.
func (b *Bus) SubscribeOnce(channel string, handler Handler, priority int) Subscription {
	return b.add(channel, handler, priority, true)
}

func (b *Bus) add(channel string, handler Handler, priority int, once bool) Subscription {
	b.nextID++
	b.nextSeq++
	reg := registration{
		id:       b.nextID,
		handler:  handler,
		priority: priority,
		once:     once,
		seq:      b.nextSeq,
	}
	regs := append(b.channels[channel], reg)
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority > regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	b.channels[channel] = regs
	return Subscription{channel: channel, id: reg.id}
}

// Unsubscribe removes a previously registered handler. It reports
// whether the subscription was still present.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	regs := b.channels[sub.channel]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.channels[sub.channel] = append(regs[:i:i], regs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers an event to every handler on the channel and returns
// the number of handlers that were invoked. A panicking handler is
// logged and skipped; delivery continues with the rest.
func (b *Bus) Publish(channel string, payload any, source string, tick int) int {
	event := Event{Channel: channel, Payload: payload, Source: source, Tick: tick}

	b.history = append(b.history, event)
	if len(b.history) > historyLimit {
		b.history = b.history[len(b.history)-historyLimit:]
	}

	regs := b.channels[channel]
	if len(regs) == 0 {
		return 0
	}

	invoked := 0
	var spent []uint64
	for _, reg := range regs {
		if b.invoke(reg, event) {
			invoked++
		}
		// One-shot handlers are spent even when they panic.
		if reg.once {
			spent = append(spent, reg.id)
		}
	}

	for _, id := range spent {
		b.Unsubscribe(Subscription{channel: channel, id: id})
	}
	return invoked
}

// invoke runs a single handler with panic containment. It reports
// whether the handler completed without panicking.
func (b *Bus) invoke(reg registration, event Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"channel", event.Channel,
				"subscription", reg.id,
				"panic", r)
		}
	}()
	reg.handler(event)
	return true
}

// SubscriberCount returns the number of handlers on a channel.
func (b *Bus) SubscriberCount(channel string) int {
	return len(b.channels[channel])
}

// HasSubscribers reports whether any handler is registered on the channel.
func (b *Bus) HasSubscribers(channel string) bool {
	return len(b.channels[channel]) > 0
}

// Recent returns up to n of the most recently published events, oldest
// first. The history is diagnostic only and bounded at 100 entries.
func (b *Bus) Recent(n int) []Event {
	if n <= 0 || len(b.history) == 0 {
		return nil
	}
	if n > len(b.history) {
		n = len(b.history)
	}
	out := make([]Event, n)
	copy(out, b.history[len(b.history)-n:])
	return out
}

// ClearChannel drops every subscription on a channel.
func (b *Bus) ClearChannel(channel string) {
	delete(b.channels, channel)
}
