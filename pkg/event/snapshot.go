package event

// Snapshot is the persistence shape for one event's runtime state.
type Snapshot struct {
	TriggeredCount   int `json:"triggered_count"`
	LastTriggeredDay int `json:"last_triggered_day"`
	ScheduledDay     int `json:"scheduled_day"`
}

// Snapshot returns runtime state for every event that has any: events
// never triggered and never scheduled are omitted, so fresh worlds
// serialize small.
func (e *Engine) Snapshot() map[string]Snapshot {
	out := make(map[string]Snapshot)
	for id, ev := range e.events {
		if ev.TriggeredCount == 0 && ev.ScheduledDay == unscheduled {
			continue
		}
		out[id] = Snapshot{
			TriggeredCount:   ev.TriggeredCount,
			LastTriggeredDay: ev.LastTriggeredDay,
			ScheduledDay:     ev.ScheduledDay,
		}
	}
	return out
}

// Restore resets every event's runtime state, then applies the
// snapshot. Snapshot entries for unknown event ids are ignored: a save
// may be older than the content it is loaded against.
func (e *Engine) Restore(state map[string]Snapshot) {
	for _, ev := range e.events {
		ev.TriggeredCount = 0
		ev.LastTriggeredDay = neverTriggered
		ev.ScheduledDay = unscheduled
	}
	for id, snap := range state {
		ev := e.events[id]
		if ev == nil {
			continue
		}
		ev.TriggeredCount = snap.TriggeredCount
		ev.LastTriggeredDay = snap.LastTriggeredDay
		ev.ScheduledDay = snap.ScheduledDay
	}
}
