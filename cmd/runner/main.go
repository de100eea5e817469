// runner is a side-scrolling platformer for the terminal.
//
// Usage:
//
//	runner list                  - List levels by world
//	runner play [level]          - Play a level
//	runner menu                  - Pick levels from a menu
//	runner simulate [level]      - Run a level headless with fixed or scripted input
//	runner runs [level]          - Show recorded runs
//	runner serve                 - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Redraw rate (default: 30)
//	--db <path>         - Run database (default: ~/.runner/runs.db)
//	--levels <dir>      - Level directory (default: built-in levels)
//	--config <path>     - Engine config YAML
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagLevels   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Platform Runner - a side-scrolling platformer in your terminal",
	Long: `Platform Runner is a terminal platformer. The level scrolls on its own;
run, jump and break blocks to reach the finish without touching spikes
or lava or falling off the map.

Available commands:
  list      - Show all levels
  play      - Play a specific level directly
  menu      - Interactive level picker
  simulate  - Run a level headless
  runs      - View recorded runs
  serve     - Start SSH server for remote play

Examples:
  runner list
  runner play w1-l2
  runner menu
  runner simulate w1-l1 --script builtin:runner
  runner serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level directory (empty = built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}
