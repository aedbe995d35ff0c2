package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(Cell{3, 3}, Cell{3, 3}))
	assert.Equal(t, 7, Manhattan(Cell{0, 0}, Cell{3, 4}))
	assert.Equal(t, 7, Manhattan(Cell{3, 4}, Cell{0, 0}))
	assert.Equal(t, 4, Manhattan(Cell{2, 0}, Cell{0, 2}))
}

func TestCell_JSONIsPair(t *testing.T) {
	b, err := json.Marshal(Cell{4, 7})
	require.NoError(t, err)
	assert.JSONEq(t, `[4,7]`, string(b))

	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`[2, 9]`), &c))
	assert.Equal(t, Cell{2, 9}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"row":1}`), &c))
}

func TestCell_Less(t *testing.T) {
	assert.True(t, Cell{0, 5}.Less(Cell{1, 0}))
	assert.True(t, Cell{1, 0}.Less(Cell{1, 1}))
	assert.False(t, Cell{1, 1}.Less(Cell{1, 1}))
}

func TestGrid_Passable(t *testing.T) {
	g := New(5, []Cell{{1, 1}, {1, 1}, {2, 3}}, DefaultExits(5))

	assert.True(t, g.Passable(Cell{0, 0}))
	assert.False(t, g.Passable(Cell{1, 1}), "obstacle")
	assert.False(t, g.Passable(Cell{-1, 0}), "out of bounds")
	assert.False(t, g.Passable(Cell{0, 5}), "out of bounds")
	assert.Equal(t, 2, g.ObstacleCount())
	assert.Len(t, g.Obstacles, 3, "generation order keeps duplicates")
}

func TestGrid_Exits(t *testing.T) {
	g := New(12, nil, DefaultExits(12))
	assert.Equal(t, []Cell{{0, 0}, {11, 11}}, g.Exits)
	assert.True(t, g.IsExit(Cell{11, 11}))
	assert.False(t, g.IsExit(Cell{0, 11}))
}
