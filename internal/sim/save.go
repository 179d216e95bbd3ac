package sim

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/world-engine/pkg/character"
	"github.com/jwebster45206/world-engine/pkg/event"
	"github.com/jwebster45206/world-engine/pkg/relationship"
	"github.com/jwebster45206/world-engine/pkg/storyline"
)

// Save is the persistence shape for a whole world: exactly the
// runtime-mutable state of every component, nothing static. It is a
// pure function of world state, so snapshot -> restore -> snapshot is
// idempotent.
type Save struct {
	ID             uuid.UUID                         `json:"id"`
	Tick           int                               `json:"tick"`
	PlayerLocation string                            `json:"player_location"`
	Flags          []string                          `json:"flags"`
	Relationships  map[string]relationship.Snapshot  `json:"relationships"`
	Characters     map[string]character.RuntimeState `json:"characters"`
	Events         map[string]event.Snapshot         `json:"events"`
	Storylines     storyline.Snapshot                `json:"storylines"`
}

// Snapshot captures the world's runtime-mutable state.
func (w *World) Snapshot() Save {
	return Save{
		ID:             w.ID,
		Tick:           w.Clock.Snapshot(),
		PlayerLocation: w.PlayerLocation,
		Flags:          w.Flags.Snapshot(),
		Relationships:  w.Ledger.Snapshot(),
		Characters:     w.Roster.Snapshot(),
		Events:         w.Events.Snapshot(),
		Storylines:     w.Storylines.Snapshot(),
	}
}

// Restore applies a save to a world built from the same content. It
// publishes nothing: restoring is not a simulation step.
func (w *World) Restore(save Save) {
	w.ID = save.ID
	w.Clock.Restore(save.Tick)
	if save.PlayerLocation != "" {
		w.PlayerLocation = save.PlayerLocation
	}
	w.Flags.Restore(save.Flags)
	w.Ledger.Restore(save.Relationships)
	w.Roster.Restore(save.Characters)
	w.Events.Restore(save.Events)
	w.Storylines.Restore(save.Storylines)
}
