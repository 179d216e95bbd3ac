package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	DataDir string
	Verbose bool
}

// NewRootCommand creates the root command for the world-engine CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Deterministic world simulation engine",
		Long: `Runs and inspects tick-driven world simulations: game calendar,
NPC schedules, relationships, flags, and scripted events.`,
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data", "./data", "content directory (world.yaml, npcs.yaml, events.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
