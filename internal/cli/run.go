package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/world-engine/internal/config"
	"github.com/jwebster45206/world-engine/internal/content"
	"github.com/jwebster45206/world-engine/internal/logger"
	"github.com/jwebster45206/world-engine/internal/sim"
	"github.com/jwebster45206/world-engine/internal/storage"
	"github.com/jwebster45206/world-engine/pkg/event"
	"github.com/jwebster45206/world-engine/pkg/relationship"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive simulation session",
		Long: `Loads content and starts a read-eval loop on stdin. Each "advance"
settles time, runs NPC schedules and decay, then checks scripted
events and applies their effects.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if rootOpts.Verbose {
				cfg.LogLevel = "debug"
			}
			log := logger.Setup(cfg)

			c, err := content.Load(rootOpts.DataDir)
			if err != nil {
				return fmt.Errorf("failed to load content: %w", err)
			}

			w, err := sim.New(c, cfg.Seed, log)
			if err != nil {
				return err
			}

			store := storage.NewRedisStorage(cfg.RedisAddr, log)
			defer store.Close()

			s := &session{
				world: w,
				store: store,
				out:   cmd.OutOrStdout(),
				in:    bufio.NewScanner(cmd.InOrStdin()),
			}
			return s.loop(cmd)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for event selection")
	return cmd
}

type session struct {
	world *sim.World
	store storage.Storage
	out   io.Writer
	in    *bufio.Scanner
}

func (s *session) loop(cmd *cobra.Command) error {
	fmt.Fprintf(s.out, "world %s ready at %s\n", s.world.ID, s.world.Clock.Now())
	fmt.Fprintln(s.out, `commands: advance N, status, npcs, flags, rel <id>, move <loc>, save, load <id>, quit`)

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "advance":
			n := 1
			if len(fields) > 1 {
				v, err := strconv.Atoi(fields[1])
				if err != nil {
					fmt.Fprintf(s.out, "advance: bad tick count %q\n", fields[1])
					continue
				}
				n = v
			}
			s.advance(n)
		case "status":
			s.status()
		case "npcs":
			s.npcs()
		case "flags":
			s.flags()
		case "rel":
			if len(fields) < 2 {
				fmt.Fprintln(s.out, "rel: character id required")
				continue
			}
			s.rel(fields[1])
		case "move":
			if len(fields) < 2 {
				fmt.Fprintln(s.out, "move: location id required")
				continue
			}
			if err := s.world.MovePlayer(fields[1]); err != nil {
				fmt.Fprintln(s.out, err)
			}
		case "save":
			s.save(cmd)
		case "load":
			if len(fields) < 2 {
				fmt.Fprintln(s.out, "load: world id required")
				continue
			}
			s.load(cmd, fields[1])
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", fields[0])
		}
	}
}

// advance settles time, then runs the event phase: scheduled follow-ups
// due today fire first, then at most one trigger-selected event.
func (s *session) advance(ticks int) {
	te := s.world.Advance(ticks)
	fmt.Fprintf(s.out, "now %s (%d ticks, %d days passed)\n",
		te.NewTime, te.TicksAdvanced, te.DaysPassed)

	day := s.world.Clock.Now().DayIndex()
	for _, ev := range s.world.Events.DueScheduled(day) {
		s.execute(ev)
	}

	candidates := s.world.Events.CheckTriggers(s.world.View())
	if picked := s.world.Events.Select(candidates); picked != nil {
		s.execute(picked)
	}
}

func (s *session) execute(ev *event.ScriptedEvent) {
	choiceID := ""
	if len(ev.Choices) > 0 {
		fmt.Fprintf(s.out, "event: %s\n", ev.Name)
		for _, ch := range ev.Choices {
			fmt.Fprintf(s.out, "  [%s] %s\n", ch.ID, ch.Label)
		}
		fmt.Fprint(s.out, "choice> ")
		if s.in.Scan() {
			choiceID = strings.TrimSpace(s.in.Text())
		}
	}

	res, err := s.world.Events.Execute(ev, choiceID, s.world.Clock.Now().DayIndex())
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.world.ApplyResult(res)

	fmt.Fprintf(s.out, "* %s [%s]\n", res.EventName, res.Tier)
	for _, hint := range res.Effect.Hints {
		fmt.Fprintf(s.out, "  hint: %s\n", hint)
	}
}

func (s *session) status() {
	now := s.world.Clock.Now()
	fmt.Fprintf(s.out, "time:     %s (tick %d)\n", now, now.Tick())
	fmt.Fprintf(s.out, "player:   %s\n", s.world.PlayerLocation)
	fmt.Fprintf(s.out, "flags:    %d set\n", len(s.world.Flags.All()))
	for _, p := range s.world.Storylines.Snapshot().Storylines {
		fmt.Fprintf(s.out, "story:    %s phase %d, %d clues\n",
			p.Storyline, p.CurrentPhase, len(p.CluesCollected))
	}
}

func (s *session) npcs() {
	for _, ch := range s.world.Roster.All() {
		status := ch.CurrentActivity
		if !ch.Alive {
			status = "dead"
		}
		fmt.Fprintf(s.out, "%-16s %-14s %s\n", ch.ID, ch.CurrentLocation, status)
	}
}

func (s *session) flags() {
	all := s.world.Flags.All()
	if len(all) == 0 {
		fmt.Fprintln(s.out, "no flags set")
		return
	}
	for _, f := range all {
		fmt.Fprintln(s.out, f)
	}
}

func (s *session) rel(charID string) {
	rec := s.world.Ledger.Get(charID)
	if rec == nil {
		fmt.Fprintf(s.out, "no relationship with %q\n", charID)
		return
	}

	for _, d := range relationship.Dimensions {
		fmt.Fprintf(s.out, "%-10s %d\n", d, rec.Value(d))
	}
	fmt.Fprintf(s.out, "level:     %s\n", s.world.Ledger.Level(charID))
}

func (s *session) save(cmd *cobra.Command) {
	save := s.world.Snapshot()
	if err := s.store.SaveWorld(cmd.Context(), save); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "saved %s\n", save.ID)
}

func (s *session) load(cmd *cobra.Command, rawID string) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		fmt.Fprintf(s.out, "load: bad world id %q\n", rawID)
		return
	}
	save, err := s.store.LoadWorld(cmd.Context(), id)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if save == nil {
		fmt.Fprintf(s.out, "no save found for %s\n", id)
		return
	}
	s.world.Restore(*save)
	fmt.Fprintf(s.out, "restored %s at %s\n", id, s.world.Clock.Now())
}
