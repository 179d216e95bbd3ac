package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/world-engine/internal/content"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "validate",
		Short:        "Validate content files without running a simulation",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(rootOpts.DataDir)
			if err != nil {
				return fmt.Errorf("content validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "content OK: %d locations, %d characters, %d events, %d storylines, %d clues\n",
				len(c.Map.IDs()), len(c.Characters), len(c.Events), len(c.Phases), len(c.Clues))
			return nil
		},
	}
}
