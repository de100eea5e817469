package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/platform-runner/internal/autopilot"
	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

var (
	flagSimHold       string
	flagSimScript     string
	flagSimTicks      int
	flagSimDifficulty string
	flagSimRecord     bool
	flagSimTrace      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [level]",
	Short: "Run a level headless",
	Long: `Steps a level as fast as possible without a terminal UI, either holding a
fixed set of directions or asking a Tengo script for input every tick.

Examples:
  runner simulate w1-l1 --hold right
  runner simulate w1-l2 --hold right,up --ticks 600
  runner simulate w1-l3 --script builtin:runner
  runner simulate my-level --levels ./levels --script ./bot.tengo --record`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimHold, "hold", "", "Directions held every tick, e.g. right,up")
	simulateCmd.Flags().StringVar(&flagSimScript, "script", "", "Tengo script path or builtin:<name>")
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Maximum ticks to run")
	simulateCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "normal", "Difficulty: easy, normal, hard")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save a completed run to the database")
	simulateCmd.Flags().BoolVar(&flagSimTrace, "trace", false, "Log deaths and broken blocks as they happen")
}

func runSimulate(_ *cobra.Command, args []string) error {
	id := "w1-l1"
	if len(args) > 0 {
		id = args[0]
	}
	if flagSimHold != "" && flagSimScript != "" {
		return fmt.Errorf("--hold and --script cannot be combined")
	}
	if flagSimTicks <= 0 {
		return fmt.Errorf("--ticks must be positive")
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	preset, err := config.ParseDifficulty(flagSimDifficulty)
	if err != nil {
		return err
	}
	eng, err := config.LoadEngine(flagConfig)
	if err != nil {
		return err
	}
	level, err := newLoader(logger).LoadByID(id)
	if err != nil {
		return err
	}
	session, err := level.NewSession(preset, eng)
	if err != nil {
		return err
	}

	var (
		input  game.IntentSource
		script *autopilot.Script
	)
	switch {
	case flagSimScript != "":
		src, err := autopilot.LoadSource(flagSimScript)
		if err != nil {
			return err
		}
		script, err = autopilot.New(flagSimScript, src, session, logger)
		if err != nil {
			return err
		}
		input = script
	default:
		hold, err := parseHold(flagSimHold)
		if err != nil {
			return err
		}
		input = game.FixedIntent(hold)
	}

	var onTick func(game.Snapshot, game.StepResult)
	if flagSimTrace {
		onTick = func(snap game.Snapshot, res game.StepResult) {
			switch {
			case res.Outcome == game.OutcomeDied || res.Outcome == game.OutcomeFellOut:
				logger.Info(res.Outcome.String(), "tick", snap.ElapsedFrames, "x", res.X, "y", res.Y, "counted", res.Counted)
			case len(res.Broken) > 0:
				logger.Debug("broke blocks", "tick", snap.ElapsedFrames, "cells", len(res.Broken))
			}
		}
	}

	rep := game.Simulate(session, input, flagSimTicks, onTick)

	fmt.Printf("Level:    %s (%s)\n", level.Title(), preset)
	fmt.Printf("Input:    %s\n", describeInput())
	fmt.Printf("Ticks:    %d\n", rep.Ticks)
	fmt.Printf("Deaths:   %d (hazards %d, falls %d)\n", rep.Died+rep.FellOut, rep.Died, rep.FellOut)
	fmt.Printf("Broken:   %d\n", rep.Broken)
	if script != nil && script.Err() != nil {
		fmt.Printf("Script:   %v\n", script.Err())
	}

	if rep.Completion == nil {
		fmt.Println("Result:   not finished")
		return nil
	}
	c := rep.Completion
	fmt.Printf("Result:   finished in %d attempts, %s\n", c.Attempts, c.Elapsed().Round(time.Millisecond))

	if flagSimRecord {
		return recordSimulation(logger, *c, preset)
	}
	return nil
}

func recordSimulation(logger *log.Logger, c game.Completion, preset config.DifficultyPreset) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	player := "autopilot"
	if flagSimScript == "" {
		player = "hold:" + flagSimHold
	}
	id, err := store.SaveRun(storage.RunEntry{
		LevelID:    c.LevelID,
		Player:     player,
		Difficulty: string(preset),
		Attempts:   c.Attempts,
		Deaths:     c.Deaths,
		Elapsed:    c.Elapsed(),
	})
	if err != nil {
		logger.Warn("could not record run", "err", err)
		return err
	}
	fmt.Printf("Recorded: run #%d\n", id)
	return nil
}

func describeInput() string {
	if flagSimScript != "" {
		return "script " + flagSimScript
	}
	if flagSimHold == "" {
		return "none"
	}
	return "hold " + flagSimHold
}

// parseHold turns "right,up" into an intent.
func parseHold(s string) (core.Intent, error) {
	var in core.Intent
	if s == "" {
		return in, nil
	}
	for _, name := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "up", "jump":
			in = in.With(core.ActionUp)
		case "down", "squat":
			in = in.With(core.ActionDown)
		case "left":
			in = in.With(core.ActionLeft)
		case "right":
			in = in.With(core.ActionRight)
		case "":
		default:
			return core.Intent{}, fmt.Errorf("unknown direction %q in --hold (use up, down, left, right)", name)
		}
	}
	return in, nil
}
