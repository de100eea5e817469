// Package autopilot drives a level with a tengo script instead of a keyboard.
//
// A script runs once per tick. Before each run it sees the player state as
// globals (tick, x, y, vx, vy, grounded, motion, deaths) and can query the
// board with tile(col, row), which returns the tile's category name,
// "finish", "" for an empty cell or "out" outside the board. It answers by
// assigning the booleans up, down, left and right.
package autopilot

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
)

// ErrScript is returned when a script fails to compile or run.
var ErrScript = errors.New("autopilot: script error")

//go:embed scripts/*.tengo
var scriptsFS embed.FS

// BuiltinPrefix selects an embedded script, e.g. "builtin:runner".
const BuiltinPrefix = "builtin:"

var outputs = []string{"up", "down", "left", "right"}

// Script is a game.IntentSource backed by a compiled tengo script. It reads
// the session it was created for, so it must be called on the goroutine
// that steps that session, which is how Runner and Simulate call it.
type Script struct {
	name     string
	session  *game.Session
	compiled *tengo.Compiled
	logger   *log.Logger
	tick     int
	err      error
}

// LoadSource returns the source of a script file or of a builtin script.
func LoadSource(path string) ([]byte, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		data, err := scriptsFS.ReadFile("scripts/" + name + ".tengo")
		if err != nil {
			return nil, fmt.Errorf("%w: no builtin script %q", ErrScript, name)
		}
		return data, nil
	}
	return os.ReadFile(path)
}

// New compiles src into a script that plays session s. A nil logger
// discards output.
func New(name string, src []byte, s *game.Session, logger *log.Logger) (*Script, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	script := tengo.NewScript(src)
	for _, out := range outputs {
		_ = script.Add(out, false)
	}
	_ = script.Add("tick", 0)
	_ = script.Add("x", 0.0)
	_ = script.Add("y", 0.0)
	_ = script.Add("vx", 0.0)
	_ = script.Add("vy", 0.0)
	_ = script.Add("grounded", false)
	_ = script.Add("motion", "")
	_ = script.Add("deaths", 0)
	_ = script.Add("tile", &tengo.UserFunction{Name: "tile", Value: tileFunc(s)})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScript, name, err)
	}
	return &Script{
		name:     name,
		session:  s,
		compiled: compiled,
		logger:   logger.With("script", name),
	}, nil
}

// Intent runs the script for the current tick. After the first failure the
// script is disabled and returns no intent; Err reports the failure.
func (sc *Script) Intent() core.Intent {
	if sc.err != nil {
		return core.Intent{}
	}
	sc.tick++
	in, err := sc.run()
	if err != nil {
		sc.err = fmt.Errorf("%w: %s at tick %d: %v", ErrScript, sc.name, sc.tick, err)
		sc.logger.Error("script disabled", "tick", sc.tick, "err", err)
		return core.Intent{}
	}
	return in
}

// Err returns the error that disabled the script, if any.
func (sc *Script) Err() error {
	return sc.err
}

func (sc *Script) run() (core.Intent, error) {
	p := sc.session.Player()
	vars := map[string]any{
		"tick":     sc.tick,
		"x":        p.X,
		"y":        p.Y,
		"vx":       p.VX,
		"vy":       p.VY,
		"grounded": p.Motion == game.Grounded,
		"motion":   p.Motion.String(),
		"deaths":   sc.session.Deaths(),
	}
	for _, out := range outputs {
		vars[out] = false
	}
	for name, v := range vars {
		if err := sc.compiled.Set(name, v); err != nil {
			return core.Intent{}, err
		}
	}

	if err := sc.compiled.Run(); err != nil {
		return core.Intent{}, err
	}
	return core.Intent{
		Up:    sc.compiled.Get("up").Bool(),
		Down:  sc.compiled.Get("down").Bool(),
		Left:  sc.compiled.Get("left").Bool(),
		Right: sc.compiled.Get("right").Bool(),
	}, nil
}

func tileFunc(s *game.Session) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		col, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "col", Expected: "int", Found: args[0].TypeName()}
		}
		row, ok := tengo.ToInt(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "row", Expected: "int", Found: args[1].TypeName()}
		}
		return &tengo.String{Value: describeTile(s, col, row)}, nil
	}
}

func describeTile(s *game.Session, col, row int) string {
	t, ok, err := s.Tile(col, row)
	switch {
	case err != nil:
		return "out"
	case !ok:
		return ""
	case t.IsFinish():
		return "finish"
	default:
		return t.Category().String()
	}
}

var _ game.IntentSource = (*Script)(nil)
