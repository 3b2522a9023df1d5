package main

import (
	"github.com/spf13/cobra"

	"github.com/plus3/ooftn-logic/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario and print its frame trace",
		Long: `Execute a scenario headlessly at the configured fixed step and print
the state of every entity after each frame along with the rules that fired.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if frames > 0 {
				sc.Frames = frames
			}

			trace, err := scenario.Run(sc, cfg, logger)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return trace.WriteJSON(cmd.OutOrStdout())
			}
			return trace.WriteText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 0, "override the scenario frame count")
	return cmd
}
