package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

// Options configures the menu, play and run board models. The same options
// serve local play and SSH sessions.
type Options struct {
	Loader     *levels.Loader
	Engine     config.EngineConfig
	Difficulty config.DifficultyPreset
	Store      *storage.Store // nil disables run and death records
	Player     string         // Recorded with runs; the SSH user name remotely
	FPS        int            // Redraw rate, independent of the tick rate
	Logger     *log.Logger
	Watcher    *levels.Watcher // When set, edits to the level being played restart it

	// Context bounds every runner started by the models. SSH sessions set it
	// to the connection context so a dropped client stops its level.
	Context context.Context
}

func (o Options) context() context.Context {
	if o.Context == nil {
		return context.Background()
	}
	return o.Context
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}
