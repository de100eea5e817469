package autopilot

import (
	"errors"
	"testing"

	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
	"github.com/vovakirdan/platform-runner/internal/levels"
)

const smallLevel = `
id: small
start: {x: 1, y: 1}
rows:
  - "...."
  - "..F^"
  - "GGGG"
`

func newSession(t *testing.T, yaml string) *game.Session {
	t.Helper()
	l, err := levels.ParseYAML([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	s, err := l.NewSession(config.DifficultyNormal, config.DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

func TestScriptIntent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []core.Intent // one per tick
	}{
		{
			name: "constant",
			src:  "right = true",
			want: []core.Intent{{Right: true}, {Right: true}},
		},
		{
			name: "outputs reset every tick",
			src:  "if tick == 1 { up = true; left = true }",
			want: []core.Intent{{Up: true, Left: true}, {}},
		},
		{
			name: "reads player state",
			src:  "down = x == 1.0 && y == 1.0 && !grounded && deaths == 0",
			want: []core.Intent{{Down: true}},
		},
		{
			name: "queries tiles",
			src: `up = tile(2, 1) == "finish"
left = tile(0, 2) == "solid"
right = tile(3, 1) == "deadly" && tile(0, 0) == ""
down = tile(-1, 0) == "out"`,
			want: []core.Intent{{Up: true, Down: true, Left: true, Right: true}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sc, err := New(tc.name, []byte(tc.src), newSession(t, smallLevel), nil)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			for i, want := range tc.want {
				if got := sc.Intent(); got != want {
					t.Errorf("tick %d: Intent() = %s, expected %s", i+1, got, want)
				}
			}
			if err := sc.Err(); err != nil {
				t.Errorf("Err() = %v", err)
			}
		})
	}
}

func TestScriptCompileError(t *testing.T) {
	_, err := New("bad", []byte("right = ("), newSession(t, smallLevel), nil)
	if !errors.Is(err, ErrScript) {
		t.Errorf("New() error = %v, expected ErrScript", err)
	}
}

func TestScriptRuntimeErrorDisablesScript(t *testing.T) {
	sc, err := New("broken", []byte("right = true\nup = tile(1) == \"\""), newSession(t, smallLevel), nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := sc.Intent(); got != (core.Intent{}) {
		t.Errorf("Intent() = %s after a runtime error, expected none", got)
	}
	if !errors.Is(sc.Err(), ErrScript) {
		t.Errorf("Err() = %v, expected ErrScript", sc.Err())
	}
	if got := sc.Intent(); got != (core.Intent{}) {
		t.Errorf("disabled script returned %s", got)
	}
}

func TestLoadSource(t *testing.T) {
	if _, err := LoadSource(BuiltinPrefix + "runner"); err != nil {
		t.Errorf("LoadSource(builtin runner) failed: %v", err)
	}
	if _, err := LoadSource(BuiltinPrefix + "missing"); !errors.Is(err, ErrScript) {
		t.Errorf("LoadSource(builtin missing) error = %v, expected ErrScript", err)
	}
	if _, err := LoadSource("/nonexistent/script.tengo"); err == nil {
		t.Error("LoadSource() of a missing file should fail")
	}
}

func TestBuiltinRunnerFinishesFirstLevel(t *testing.T) {
	l, err := levels.NewLoader("").LoadByID("w1-l1")
	if err != nil {
		t.Fatalf("LoadByID() failed: %v", err)
	}
	s, err := l.NewSession(config.DifficultyNormal, config.DefaultEngineConfig())
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	src, err := LoadSource(BuiltinPrefix + "runner")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := New("runner", src, s, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	rep := game.Simulate(s, sc, 60*60, nil)
	if sc.Err() != nil {
		t.Fatalf("script failed: %v", sc.Err())
	}
	if rep.Completion == nil {
		t.Fatalf("level not finished after %d ticks: died %d, fell out %d, player %+v",
			rep.Ticks, rep.Died, rep.FellOut, s.Player())
	}
	if rep.Completion.Attempts != 1 {
		t.Errorf("Attempts = %d, expected a clean run", rep.Completion.Attempts)
	}
}
