// Package pathfind finds shortest 4-connected paths on a rescue grid.
package pathfind

import (
	"github.com/zyedidia/generic/heap"

	"rescue_ai/internal/grid"
)

// Map answers whether a path may step onto a cell.
type Map interface {
	Passable(c grid.Cell) bool
}

// MapFunc adapts a plain function to Map.
type MapFunc func(c grid.Cell) bool

func (f MapFunc) Passable(c grid.Cell) bool { return f(c) }

type openEntry struct {
	cell grid.Cell
	g, f int
}

// Equal f-scores pop in row-major cell order so results are reproducible.
func lessEntry(a, b openEntry) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.cell.Less(b.cell)
}

// FindPath runs A* from start to goal with unit edge cost and a Manhattan
// heuristic. The result excludes start and ends at goal. It is nil when goal
// is unreachable, blocked, or equal to start. Passability of start itself is
// not checked.
func FindPath(m Map, start, goal grid.Cell) []grid.Cell {
	if start == goal {
		return nil
	}
	open := heap.New[openEntry](lessEntry)
	open.Push(openEntry{cell: start})
	cameFrom := make(map[grid.Cell]grid.Cell)
	gScore := map[grid.Cell]int{start: 0}

	for open.Size() > 0 {
		cur, _ := open.Pop()
		if cur.cell == goal {
			return rebuild(cameFrom, start, goal)
		}
		if cur.g > gScore[cur.cell] {
			continue // stale
		}
		for _, d := range grid.Moves {
			nb := cur.cell.Add(d)
			if !m.Passable(nb) {
				continue
			}
			ng := cur.g + 1
			if old, ok := gScore[nb]; ok && ng >= old {
				continue
			}
			cameFrom[nb] = cur.cell
			gScore[nb] = ng
			open.Push(openEntry{cell: nb, g: ng, f: ng + grid.Manhattan(nb, goal)})
		}
	}
	return nil
}

func rebuild(cameFrom map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	var path []grid.Cell
	for c := goal; c != start; c = cameFrom[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Nearest finds a path from start to every target and returns the index of
// the target with the fewest steps together with its path. Unreachable
// targets are skipped; ties go to the earliest target in the slice. idx is -1
// when nothing is reachable.
func Nearest(m Map, start grid.Cell, targets []grid.Cell) (idx int, path []grid.Cell) {
	idx = -1
	for i, t := range targets {
		p := FindPath(m, start, t)
		if len(p) == 0 {
			continue
		}
		if idx < 0 || len(p) < len(path) {
			idx, path = i, p
		}
	}
	return idx, path
}
