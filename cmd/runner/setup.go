package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/platform/tui"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

// newLogger creates the command logger at --log-level.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "runner",
		Level:           level,
	}), nil
}

// openLogFile opens ~/.runner/runner.log. Interactive commands log there so
// that log lines do not tear the alternate screen.
func openLogFile() (*os.File, error) {
	dir := config.UserDir()
	if dir == "" {
		return nil, fmt.Errorf("cannot locate home directory for the log file")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "runner.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// runtimeConfig returns the terminal size and redraw rate.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.FPS = flagFPS
	}
	return cfg
}

func newLoader(logger *log.Logger) *levels.Loader {
	loader := levels.NewLoader(flagLevels)
	loader.Logger = logger
	return loader
}

// openStore opens the run database. Play works without it, so a failure
// is only a warning.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "err", err)
		return nil
	}
	return store
}

// interactive holds what the TUI commands share.
type interactive struct {
	opts    tui.Options
	runtime core.RuntimeConfig
	logFile *os.File
}

// setupInteractive loads the engine config and opens the log file and the
// store for a TUI command.
func setupInteractive(difficulty string) (*interactive, error) {
	preset, err := config.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	logFile, err := openLogFile()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(logFile)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	eng, err := config.LoadEngine(flagConfig)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	rt := runtimeConfig()
	return &interactive{
		opts: tui.Options{
			Loader:     newLoader(logger),
			Engine:     eng,
			Difficulty: preset,
			Store:      openStore(logger),
			Player:     localPlayer(),
			FPS:        rt.FPS,
			Logger:     logger,
		},
		runtime: rt,
		logFile: logFile,
	}, nil
}

func (in *interactive) Close() {
	if in.opts.Watcher != nil {
		in.opts.Watcher.Close()
	}
	if in.opts.Store != nil {
		in.opts.Store.Close()
	}
	in.logFile.Close()
}

func localPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
