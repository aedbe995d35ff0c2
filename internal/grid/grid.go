package grid

import (
	"github.com/zyedidia/generic/mapset"
)

const DefaultSize = 12

// Grid holds the static part of a rescue map: bounds, obstacles and exits.
// Obstacles keeps generation order (duplicates included) for rendering,
// blocked is the lookup set used by the pathfinder.
type Grid struct {
	Size      int
	Obstacles []Cell
	Exits     []Cell

	blocked mapset.Set[Cell]
}

// New builds a square grid of the given size.
func New(size int, obstacles, exits []Cell) *Grid {
	g := &Grid{
		Size:      size,
		Obstacles: append([]Cell(nil), obstacles...),
		Exits:     append([]Cell(nil), exits...),
		blocked:   mapset.New[Cell](),
	}
	for _, o := range obstacles {
		g.blocked.Put(o)
	}
	return g
}

// DefaultExits returns the two opposite corners of a size x size grid.
func DefaultExits(size int) []Cell {
	return []Cell{{0, 0}, {size - 1, size - 1}}
}

func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Size && c.Col >= 0 && c.Col < g.Size
}

func (g *Grid) Blocked(c Cell) bool { return g.blocked.Has(c) }

// Passable reports whether a path may enter c.
func (g *Grid) Passable(c Cell) bool { return g.InBounds(c) && !g.blocked.Has(c) }

func (g *Grid) IsExit(c Cell) bool { return Contains(g.Exits, c) }

// ObstacleCount is the number of distinct blocked cells.
func (g *Grid) ObstacleCount() int { return g.blocked.Size() }
