package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/plus3/ooftn-logic/ecs/debugui"
	debugui_ebiten "github.com/plus3/ooftn-logic/ecs/debugui/ebiten"
	inputebiten "github.com/plus3/ooftn-logic/input/ebiten"
	"github.com/plus3/ooftn-logic/internal/scenario"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		scale   float64
		noDebug bool
	)

	cmd := &cobra.Command{
		Use:   "play <scenario.yaml>",
		Short: "Open a scenario in a window with live input",
		Long: `Load a scenario into a window and drive it from the keyboard and mouse.
Arrows or WASD map to left/right/up/down and space to jump. Scripted
collisions still play; scripted input is replaced by the live input.`,
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
			session, err := scenario.NewSession(sc, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			game := inputebiten.NewGame(session.Pipeline)
			game.Camera.Scale = scale

			title := "logicrun: " + sc.Name
			if noDebug {
				ebiten.SetWindowSize(1280, 720)
				ebiten.SetWindowTitle(title)
			} else {
				game.Imgui = debugui_ebiten.NewImguiBackend(title, 1280, 720)
				game.UI = &debugui.ImguiSystem{}
				session.Pipeline.AddSystem(game.UI)
				debugui.SpawnDebugUI(session.Pipeline, session.Modules)
			}
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

			return ebiten.RunGame(game)
		},
	}

	cmd.Flags().Float64Var(&scale, "scale", 32, "pixels per world unit")
	cmd.Flags().BoolVar(&noDebug, "no-debug", false, "hide the ImGui inspectors")
	return cmd
}
