// Package relationship tracks the player's standing with each character
// across four bounded dimensions, with per-call change caps and daily
// and monthly decay toward zero.
package relationship

import (
	"log/slog"
	"math"
	"sort"

	"github.com/jwebster45206/world-engine/pkg/bus"
)

// Dimension is one of the four independent affinity axes.
type Dimension string

const (
	Trust     Dimension = "trust"
	Affection Dimension = "affection"
	Respect   Dimension = "respect"
	Fear      Dimension = "fear"
)

// Dimensions lists every axis in a fixed order.
var Dimensions = [4]Dimension{Trust, Affection, Respect, Fear}

// Value range for every dimension.
const (
	MinValue = -100
	MaxValue = 100
)

// singleChangeMax caps how far one ApplyChange call can move a
// dimension, unless the caller bypasses the limit.
var singleChangeMax = map[Dimension]int{
	Trust:     15,
	Affection: 10,
	Respect:   10,
	Fear:      20,
}

// monthlyDecayRates is the base decay applied at each month boundary.
// The daily rate is the monthly rate spread over the month.
var monthlyDecayRates = map[Dimension]float64{
	Trust:     0.5,
	Affection: 0.3,
	Respect:   0.2,
	Fear:      1.0,
}

func dailyDecayRate(d Dimension) float64 {
	return monthlyDecayRates[d] / 30
}

const historyLimit = 50

// Change records one applied relationship delta.
type Change struct {
	Dimension Dimension `json:"dimension"`
	OldValue  int       `json:"old_value"`
	NewValue  int       `json:"new_value"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	Day       int       `json:"day"`
}

// Record is the relationship state for one character. Values are kept
// as float64 so fractional decay accumulates exactly; the public
// surface rounds to integers.
type Record struct {
	CharacterID          string
	DaysSinceInteraction int
	TotalInteractions    int

	values  map[Dimension]float64
	history []Change
}

// Value returns a dimension rounded to the nearest integer.
func (r *Record) Value(d Dimension) int {
	return int(math.Round(r.values[d]))
}

// History returns the record's bounded change history, oldest first.
func (r *Record) History() []Change {
	out := make([]Change, len(r.history))
	copy(out, r.history)
	return out
}

// Level is a presentation-only label for a composite relationship score.
type Level string

const (
	LevelClosestBond  Level = "closest_bond"
	LevelCloseFriend  Level = "close_friend"
	LevelFriendly     Level = "friendly"
	LevelAcquainted   Level = "acquainted"
	LevelNoddingTerms Level = "nodding_terms"
	LevelDistant      Level = "distant"
	LevelHostile      Level = "hostile"
	LevelHated        Level = "hated"

	// LevelStranger is returned for characters with no record.
	LevelStranger Level = "stranger"
)

// Ledger holds one Record per character the player has a relationship
// with.
type Ledger struct {
	bus     *bus.Bus
	logger  *slog.Logger
	records map[string]*Record
}

// NewLedger creates an empty ledger. The bus may be nil.
func NewLedger(b *bus.Bus, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{bus: b, logger: logger, records: make(map[string]*Record)}
}

// Init creates a record for a character if absent and returns it.
// Calling Init twice is idempotent: an existing record is returned
// untouched, never reset.
func (l *Ledger) Init(characterID string, initial map[Dimension]int) *Record {
	if rec, ok := l.records[characterID]; ok {
		return rec
	}
	rec := &Record{
		CharacterID: characterID,
		values:      make(map[Dimension]float64, len(Dimensions)),
	}
	for dim, val := range initial {
		rec.values[dim] = clamp(float64(val))
	}
	l.records[characterID] = rec
	return rec
}

// Get returns the record for a character, or nil if none exists.
func (l *Ledger) Get(characterID string) *Record {
	return l.records[characterID]
}

// Value returns a dimension's value, or 0 for an unknown character.
func (l *Ledger) Value(characterID string, d Dimension) int {
	rec := l.records[characterID]
	if rec == nil {
		return 0
	}
	return rec.Value(d)
}

// ApplyChange moves one dimension by delta and returns the actual
// change applied. The delta is first clamped to the dimension's
// per-call cap unless bypassLimit is set, then the resulting value is
// clamped to [-100, 100]; the return value reflects both clamps and
// may be zero. A non-zero change appends to the record's history and
// publishes relationship_changed.
func (l *Ledger) ApplyChange(characterID string, d Dimension, delta int, reason string, day int, bypassLimit bool) int {
	rec := l.records[characterID]
	if rec == nil {
		rec = l.Init(characterID, nil)
	}

	if !bypassLimit {
		limit := singleChangeMax[d]
		if delta > limit {
			delta = limit
		} else if delta < -limit {
			delta = -limit
		}
	}

	oldValue := rec.Value(d)
	newRaw := clamp(rec.values[d] + float64(delta))
	newValue := int(math.Round(newRaw))
	actual := newValue - oldValue
	if actual == 0 {
		return 0
	}

	rec.values[d] = newRaw

	rec.history = append(rec.history, Change{
		Dimension: d,
		OldValue:  oldValue,
		NewValue:  newValue,
		Delta:     actual,
		Reason:    reason,
		Day:       day,
	})
	if len(rec.history) > historyLimit {
		rec.history = rec.history[len(rec.history)-historyLimit:]
	}

	if l.bus != nil {
		l.bus.Publish(bus.RelationshipChanged, Change{
			Dimension: d,
			OldValue:  oldValue,
			NewValue:  newValue,
			Delta:     actual,
			Reason:    reason,
			Day:       day,
		}, characterID, 0)
	}

	l.logger.Debug("relationship changed",
		"character", characterID,
		"dimension", d,
		"old", oldValue,
		"new", newValue,
		"reason", reason)

	return actual
}

// ApplyChanges applies a delta per dimension and returns the actual
// change for each.
func (l *Ledger) ApplyChanges(characterID string, deltas map[Dimension]int, reason string, day int) map[Dimension]int {
	out := make(map[Dimension]int, len(deltas))
	for dim, delta := range deltas {
		out[dim] = l.ApplyChange(characterID, dim, delta, reason, day, false)
	}
	return out
}

// RecordInteraction resets the character's days-since-interaction
// counter and increments the interaction total. Every component that
// represents a meaningful player-character interaction (dialogue,
// combat, trade) must call this.
func (l *Ledger) RecordInteraction(characterID string) {
	rec := l.records[characterID]
	if rec == nil {
		return
	}
	rec.DaysSinceInteraction = 0
	rec.TotalInteractions++
}

// ApplyDailyDecay runs at every day boundary: it increments each
// record's days-since-interaction and decays every dimension toward
// zero by its daily rate. Non-fear dimensions decay only from positive
// values; fear decays toward zero from either sign. Decay never crosses
// zero and never moves a zero value.
func (l *Ledger) ApplyDailyDecay() {
	for _, rec := range l.records {
		rec.DaysSinceInteraction++
		for _, dim := range Dimensions {
			decayTowardZero(rec, dim, dailyDecayRate(dim))
		}
	}
}

// ApplyMonthlyDecay runs at every month boundary with the larger
// monthly rates, scaled by an estrangement multiplier once the player
// has not interacted for a while.
func (l *Ledger) ApplyMonthlyDecay() {
	for _, rec := range l.records {
		factor := 1.0
		if rec.DaysSinceInteraction > 30 {
			factor = 2.0
		} else if rec.DaysSinceInteraction > 14 {
			factor = 1.5
		}
		for _, dim := range Dimensions {
			decayTowardZero(rec, dim, monthlyDecayRates[dim]*factor)
		}
	}
}

// decayTowardZero applies at most amount of decay in the direction of
// zero, stopping exactly at zero. Negative values decay only on the
// fear axis.
func decayTowardZero(rec *Record, dim Dimension, amount float64) {
	current := rec.values[dim]
	switch {
	case current > 0:
		rec.values[dim] = current - math.Min(amount, current)
	case current < 0 && dim == Fear:
		rec.values[dim] = current + math.Min(amount, -current)
	}
}

// Score is the weighted composite used for level mapping.
func (l *Ledger) Score(characterID string) float64 {
	rec := l.records[characterID]
	if rec == nil {
		return 0
	}
	return rec.values[Trust]*0.3 +
		rec.values[Affection]*0.4 +
		rec.values[Respect]*0.2 -
		rec.values[Fear]*0.1
}

// Level maps the composite score onto one of eight ordered labels. The
// mapping is presentation-only and feeds back into nothing.
func (l *Ledger) Level(characterID string) Level {
	if l.records[characterID] == nil {
		return LevelStranger
	}
	score := l.Score(characterID)
	switch {
	case score >= 80:
		return LevelClosestBond
	case score >= 60:
		return LevelCloseFriend
	case score >= 40:
		return LevelFriendly
	case score >= 20:
		return LevelAcquainted
	case score >= 0:
		return LevelNoddingTerms
	case score >= -20:
		return LevelDistant
	case score >= -50:
		return LevelHostile
	default:
		return LevelHated
	}
}

// CharacterIDs returns every character with a record, sorted.
func (l *Ledger) CharacterIDs() []string {
	out := make([]string, 0, len(l.records))
	for id := range l.records {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Values returns a character's four dimension values, or nil for an
// unknown character. Used by the event engine's threshold checks.
func (l *Ledger) Values(characterID string) map[Dimension]int {
	rec := l.records[characterID]
	if rec == nil {
		return nil
	}
	out := make(map[Dimension]int, len(Dimensions))
	for _, dim := range Dimensions {
		out[dim] = rec.Value(dim)
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(MinValue, math.Min(MaxValue, v))
}
