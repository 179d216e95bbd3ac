package relationship

// Snapshot is the persistence shape for one record: the four dimension
// values plus the interaction counters. Values are stored unrounded so
// snapshot -> restore -> snapshot is byte-stable.
type Snapshot struct {
	Trust                float64 `json:"trust"`
	Affection            float64 `json:"affection"`
	Respect              float64 `json:"respect"`
	Fear                 float64 `json:"fear"`
	DaysSinceInteraction int     `json:"days_since_interaction"`
	TotalInteractions    int     `json:"total_interactions"`
}

// Snapshot returns every record's runtime-mutable state keyed by
// character id.
func (l *Ledger) Snapshot() map[string]Snapshot {
	out := make(map[string]Snapshot, len(l.records))
	for id, rec := range l.records {
		out[id] = Snapshot{
			Trust:                rec.values[Trust],
			Affection:            rec.values[Affection],
			Respect:              rec.values[Respect],
			Fear:                 rec.values[Fear],
			DaysSinceInteraction: rec.DaysSinceInteraction,
			TotalInteractions:    rec.TotalInteractions,
		}
	}
	return out
}

// Restore replaces the ledger's records from a snapshot. Change history
// is diagnostic only and is not persisted.
func (l *Ledger) Restore(state map[string]Snapshot) {
	l.records = make(map[string]*Record, len(state))
	for id, snap := range state {
		l.records[id] = &Record{
			CharacterID:          id,
			DaysSinceInteraction: snap.DaysSinceInteraction,
			TotalInteractions:    snap.TotalInteractions,
			values: map[Dimension]float64{
				Trust:     clamp(snap.Trust),
				Affection: clamp(snap.Affection),
				Respect:   clamp(snap.Respect),
				Fear:      clamp(snap.Fear),
			},
		}
	}
}
