package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed data
var embedded embed.FS

// Loader handles loading levels from a directory, or from the built-in
// world when Root is empty.
type Loader struct {
	Root   string
	Logger *log.Logger // Optional; reports skipped files
}

// NewLoader creates a new level loader. An empty root selects the
// built-in levels.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

func (l *Loader) fsys() (fs.FS, error) {
	if l.Root == "" {
		return fs.Sub(embedded, "data")
	}
	return os.DirFS(l.Root), nil
}

// LoadAll recursively scans and loads all level files. Invalid files are
// skipped. Levels are sorted by world, number and ID.
func (l *Loader) LoadAll() ([]Level, error) {
	fsys, err := l.fsys()
	if err != nil {
		return nil, err
	}

	var levels []Level
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(path.Ext(p)) {
			return nil
		}

		level, err := loadFile(fsys, p)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Warn("skipping level file", "path", p, "err", err)
			}
			return nil
		}
		level.FilePath = l.displayPath(p)
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking levels %s: %w", l.describe(), err)
	}

	sort.Slice(levels, func(i, j int) bool {
		a, b := levels[i], levels[j]
		if a.World != b.World {
			return a.World < b.World
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.ID < b.ID
	})
	return levels, nil
}

// LoadFile loads a single level file from disk.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	level, err := ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	level.FilePath = p
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Worlds loads every level and groups them by world.
func (l *Loader) Worlds() ([]World, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return GroupWorlds(levels), nil
}

// Dir returns the directory levels are read from, or empty for the
// built-in levels.
func (l *Loader) Dir() string {
	return l.Root
}

func (l *Loader) describe() string {
	if l.Root == "" {
		return "(built-in)"
	}
	return l.Root
}

func (l *Loader) displayPath(p string) string {
	if l.Root == "" {
		return "builtin:" + p
	}
	return filepath.Join(l.Root, filepath.FromSlash(p))
}

func loadFile(fsys fs.FS, p string) (Level, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}
	level, err := ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return level, nil
}

func isSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supported := range FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
