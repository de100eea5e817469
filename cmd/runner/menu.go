package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/platform-runner/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive level picker",
	Long: `Opens a menu of all levels grouped by world, with your best result on each.

Controls:
  Up/Down or k/j  Navigate
  Enter/Space     Play the selected level
  Tab             Recorded runs
  Q/Esc           Quit`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) error {
	in, err := setupInteractive(flagDifficulty)
	if err != nil {
		return err
	}
	defer in.Close()

	return tui.Run(in.opts, in.runtime.ScreenW, in.runtime.ScreenH)
}
