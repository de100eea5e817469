package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/platform/tui"
)

var (
	flagDifficulty string
	flagWatch      bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a specific level",
	Long: `Starts a level directly. Finishing it moves on to the next level of the
same world. The level defaults to w1-l1.

Controls:
  A/D or arrows  Run left/right
  W/Up/Space     Jump
  S/Down         Squat
  R              Restart
  Ctrl+S         Save a screenshot
  Esc/B          Leave the level
  Q              Quit

Examples:
  runner play
  runner play w1-l3 --difficulty hard
  runner play my-level --levels ./levels --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "normal", "Difficulty: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Restart the level when its file changes (needs --levels)")
}

func runPlay(_ *cobra.Command, args []string) error {
	id := "w1-l1"
	if len(args) > 0 {
		id = args[0]
	}
	if flagWatch && flagLevels == "" {
		return fmt.Errorf("--watch needs a level directory (--levels)")
	}

	in, err := setupInteractive(flagDifficulty)
	if err != nil {
		return err
	}
	defer in.Close()

	level, next, err := findLevel(in.opts.Loader, id)
	if err != nil {
		return err
	}

	if flagWatch {
		dir := filepath.Dir(level.FilePath)
		w, err := levels.NewWatcher(dir)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", dir, err)
		}
		in.opts.Watcher = w
	}

	in.opts.Logger.Info("playing", "level", level.ID, "difficulty", in.opts.Difficulty)
	return tui.RunLevel(in.opts, level, next, in.runtime.ScreenW, in.runtime.ScreenH)
}

// findLevel returns the level with the given ID and the level after it in
// its world, if any.
func findLevel(loader *levels.Loader, id string) (levels.Level, *levels.Level, error) {
	worlds, err := loader.Worlds()
	if err != nil {
		return levels.Level{}, nil, err
	}
	for _, w := range worlds {
		for _, l := range w.Levels {
			if l.ID != id {
				continue
			}
			if next, ok := w.Next(id); ok {
				return l, &next, nil
			}
			return l, nil, nil
		}
	}
	return levels.Level{}, nil, fmt.Errorf("%w: %s (run 'runner list' to see levels)", levels.ErrNotFound, id)
}
