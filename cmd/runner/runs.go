package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/platform/tui"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

var (
	flagRunsPlain bool
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [level]",
	Short: "Show recorded runs",
	Long: `Browse the best runs and death counts per level.

With no arguments this opens an interactive board. Given a level, or with
--plain, it prints the runs of that level, or of every level.

Examples:
  runner runs
  runner runs w1-l2 --plain
  runner runs w1-l2 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsPlain, "plain", false, "Print a text table instead of the interactive board")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Runs shown per level with --plain")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs of the given level")
}

func runRuns(_ *cobra.Command, args []string) error {
	if flagRunsClear {
		if len(args) == 0 {
			return fmt.Errorf("--clear needs a level")
		}
		return clearRuns(args[0])
	}
	if flagRunsPlain || len(args) > 0 {
		return printRuns(args)
	}

	in, err := setupInteractive("")
	if err != nil {
		return err
	}
	defer in.Close()
	if in.opts.Store == nil {
		return fmt.Errorf("runs database unavailable: %s", flagDBPath)
	}
	return tui.RunRunBoard(in.opts, in.runtime.ScreenW, in.runtime.ScreenH)
}

func clearRuns(id string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearRuns(id); err != nil {
		return err
	}
	fmt.Printf("Cleared runs for %s\n", id)
	return nil
}

func printRuns(args []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	loader := newLoader(logger)
	var list []levels.Level
	if len(args) > 0 {
		l, err := loader.LoadByID(args[0])
		if err != nil {
			return err
		}
		list = []levels.Level{l}
	} else if list, err = loader.LoadAll(); err != nil {
		return err
	}

	for _, l := range list {
		if err := printLevelRuns(store, l); err != nil {
			return err
		}
	}
	return nil
}

func printLevelRuns(store *storage.Store, l levels.Level) error {
	runs, err := store.BestRuns(l.ID, flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}
	deaths, err := store.DeathCounts(l.ID)
	if err != nil {
		return fmt.Errorf("retrieving deaths: %w", err)
	}

	fmt.Printf("Runs - %s\n\n", l.Title())
	if len(runs) == 0 {
		fmt.Println("  No runs recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-12s  %-8s  %-8s  %-6s  %s\n", "Rank", "Player", "Attempts", "Time", "Mode", "Date")
		fmt.Printf("  %-4s  %-12s  %-8s  %-8s  %-6s  %s\n", "----", "------", "--------", "----", "----", "----")
		for i, r := range runs {
			fmt.Printf("  %-4d  %-12s  %-8d  %-8s  %-6s  %s\n",
				i+1, r.Player, r.Attempts, formatDuration(r.Elapsed), r.Difficulty,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	hazards, falls := deaths[storage.CauseDeadly], deaths[storage.CauseFellOut]
	fmt.Printf("\n  Deaths: %d  (hazards %d, falls %d)\n\n", hazards+falls, hazards, falls)
	return nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%04.1f", m, s)
}
