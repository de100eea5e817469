package levels

import (
	"fmt"
	"sort"
)

// World is a group of levels with a shared theme, played in order.
type World struct {
	Number int
	Levels []Level
}

// Name returns the world's display name.
func (w World) Name() string {
	return fmt.Sprintf("World %d", w.Number)
}

// Next returns the level after id within the world.
func (w World) Next(id string) (Level, bool) {
	for i, l := range w.Levels {
		if l.ID == id && i+1 < len(w.Levels) {
			return w.Levels[i+1], true
		}
	}
	return Level{}, false
}

// GroupWorlds groups levels by world number. Worlds and their levels are
// ordered by number.
func GroupWorlds(levels []Level) []World {
	byNumber := make(map[int]*World)
	for _, l := range levels {
		w, ok := byNumber[l.World]
		if !ok {
			w = &World{Number: l.World}
			byNumber[l.World] = w
		}
		w.Levels = append(w.Levels, l)
	}

	worlds := make([]World, 0, len(byNumber))
	for _, w := range byNumber {
		sort.SliceStable(w.Levels, func(i, j int) bool {
			return w.Levels[i].Number < w.Levels[j].Number
		})
		worlds = append(worlds, *w)
	}
	sort.Slice(worlds, func(i, j int) bool {
		return worlds[i].Number < worlds[j].Number
	})
	return worlds
}
