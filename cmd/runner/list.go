package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long:  `Shows every level grouped by world, from --levels or the built-in set.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	worlds, err := newLoader(logger).Worlds()
	if err != nil {
		return err
	}

	if len(worlds) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, w := range worlds {
		for _, l := range w.Levels {
			maxIDLen = max(maxIDLen, len(l.ID))
		}
	}

	for _, w := range worlds {
		fmt.Printf("%s\n\n", w.Name())
		fmt.Printf("  %-*s  %-22s  %-7s  %s\n", maxIDLen, "ID", "Title", "Size", "Speed")
		fmt.Printf("  %-*s  %-22s  %-7s  %s\n", maxIDLen, "--", "-----", "----", "-----")
		for _, l := range w.Levels {
			size := fmt.Sprintf("%dx%d", l.Width, l.Height)
			fmt.Printf("  %-*s  %-22s  %-7s  %.2f\n", maxIDLen, l.ID, l.Title(), size, l.Speed)
		}
		fmt.Println()
	}

	fmt.Println("Run 'runner play <id>' to play a level.")
	return nil
}
