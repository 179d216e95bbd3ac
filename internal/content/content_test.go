package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorld = `
start_location: square
locations:
  square:
    name: Village Square
  market:
    name: Market Row
connections:
  - from: square
    to: market
    travel_time: 1
    bidirectional: true
`

const validNPCs = `
npcs:
  mara:
    name: Mara Tiller
    home_location: square
    schedule:
      morning:
        location: market
        activity: shopping
    initial_relationship:
      trust: 10
`

const validEvents = `
clues:
  mystery:
    torn_note:
      name: Torn Note
      weight: 2

story_phases:
  mystery:
    - name: start
      advance_conditions:
        - flag: found_note
    - name: end

events:
  find_note:
    name: A Torn Note
    tier: opportunity
    window:
      locations: [market]
    conditions:
      npc_at_location:
        mara: same_as_player
    effects:
      set_flags: [found_note]
      add_clue:
        id: torn_note
`

func writeContent(t *testing.T, world, npcs, events string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "world.yaml"), []byte(world), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "npcs.yaml"), []byte(npcs), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.yaml"), []byte(events), 0o644))
	return dir
}

func TestLoadValidContent(t *testing.T) {
	dir := writeContent(t, validWorld, validNPCs, validEvents)

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "square", c.Map.StartLocation)
	require.Len(t, c.Characters, 1)
	assert.Equal(t, "mara", c.Characters[0].ID)
	require.Len(t, c.Events, 1)
	assert.Equal(t, "find_note", c.Events[0].ID)
	require.Len(t, c.Clues, 1)
	assert.Equal(t, "mystery", c.Clues[0].Storyline)
	assert.Len(t, c.Phases["mystery"], 2)
}

func TestLoadDefaults(t *testing.T) {
	events := `
events:
  something:
    effects:
      set_flags: [it_happened]
`
	dir := writeContent(t, validWorld, validNPCs, events)

	c, err := Load(dir)
	require.NoError(t, err)

	ev := c.Events[0]
	assert.Equal(t, "something", ev.ID)
	assert.Equal(t, "something", ev.Name, "name defaults to the map key")
	assert.Equal(t, "daily", string(ev.Tier), "tier defaults to daily")
}

func TestLoadValidationFailures(t *testing.T) {
	badSlotNPCs := `
npcs:
  mara:
    home_location: square
    schedule:
      brunch:
        location: market
`
	badRoutineNPCs := `
npcs:
  mara:
    home_location: square
    schedule:
      morning:
        location: atlantis
`
	badDimensionNPCs := `
npcs:
  mara:
    home_location: square
    initial_relationship:
      charisma: 10
`
	badPhaseEvents := `
story_phases:
  mystery:
    - name: start
      advance_conditions:
        - character: ghost
          dimension: trust
          threshold: 10
events: {}
`

	tests := []struct {
		name   string
		world  string
		npcs   string
		events string
		msg    string
	}{
		{
			name:   "unknown start location",
			world:  "start_location: atlantis\nlocations:\n  square:\n    name: Square\n",
			npcs:   "npcs: {}",
			events: "events: {}",
			msg:    "start_location",
		},
		{
			name:   "character without home",
			world:  validWorld,
			npcs:   "npcs:\n  mara:\n    name: Mara\n",
			events: "events: {}",
			msg:    "home_location",
		},
		{
			name:   "unknown home location",
			world:  validWorld,
			npcs:   "npcs:\n  mara:\n    home_location: atlantis\n",
			events: "events: {}",
			msg:    "home_location",
		},
		{
			name:   "bad schedule slot",
			world:  validWorld,
			npcs:   badSlotNPCs,
			events: "events: {}",
			msg:    "time slot",
		},
		{
			name:   "unknown routine location",
			world:  validWorld,
			npcs:   badRoutineNPCs,
			events: "events: {}",
			msg:    "routine location",
		},
		{
			name:   "unknown relationship dimension",
			world:  validWorld,
			npcs:   badDimensionNPCs,
			events: "events: {}",
			msg:    "dimension",
		},
		{
			name:   "unknown tier",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    tier: legendary\n",
			msg:    "tier",
		},
		{
			name:   "window references unknown location",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    window:\n      locations: [atlantis]\n",
			msg:    "unknown location",
		},
		{
			name:   "npc_at_location unknown character",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    conditions:\n      npc_at_location:\n        ghost: square\n",
			msg:    "unknown character",
		},
		{
			name:   "random chance out of range",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    conditions:\n      random_chance: 1.5\n",
			msg:    "random_chance",
		},
		{
			name:   "effect targets unknown character",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    effects:\n      relationship:\n        ghost:\n          trust: 5\n",
			msg:    "unknown character",
		},
		{
			name:   "effect adds unknown clue",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    effects:\n      add_clue:\n        id: phantom\n",
			msg:    "unknown clue",
		},
		{
			name:   "follow-up to unknown event",
			world:  validWorld,
			npcs:   validNPCs,
			events: "events:\n  x:\n    effects:\n      schedule_followup:\n        event_id: phantom\n        days_after: 2\n",
			msg:    "follow-up",
		},
		{
			name:   "phase condition unknown character",
			world:  validWorld,
			npcs:   validNPCs,
			events: badPhaseEvents,
			msg:    "unknown character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeContent(t, tt.world, tt.npcs, tt.events)
			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadSampleData(t *testing.T) {
	c, err := Load("../../data")
	require.NoError(t, err)

	assert.NotEmpty(t, c.Map.IDs())
	assert.NotEmpty(t, c.Characters)
	assert.NotEmpty(t, c.Events)
}
