package grid

import (
	"encoding/json"
	"fmt"
)

// Cell is a grid coordinate. It serializes as [row, col].
type Cell struct{ Row, Col int }

func (a Cell) Add(b Cell) Cell   { return Cell{a.Row + b.Row, a.Col + b.Col} }
func (a Cell) String() string    { return fmt.Sprintf("(%d,%d)", a.Row, a.Col) }
func (a Cell) Less(b Cell) bool  { return a.Row < b.Row || (a.Row == b.Row && a.Col < b.Col) }
func (a Cell) Pair() [2]int      { return [2]int{a.Row, a.Col} }
func (a Cell) Equal(b Cell) bool { return a == b }

// Manhattan returns |dr| + |dc|.
func Manhattan(a, b Cell) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Moves are the four unit steps in expansion order: up, down, left, right.
var Moves = [4]Cell{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (a Cell) MarshalJSON() ([]byte, error) { return json.Marshal(a.Pair()) }

func (a *Cell) UnmarshalJSON(b []byte) error {
	var p [2]int
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("cell: %w", err)
	}
	a.Row, a.Col = p[0], p[1]
	return nil
}

// Contains reports whether c appears in cells.
func Contains(cells []Cell, c Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
