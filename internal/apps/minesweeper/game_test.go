package minesweeper

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boardFrom builds a started game from a layout where '*' marks a mine
func boardFrom(t *testing.T, layout ...string) *Game {
	t.Helper()
	mines := strings.Count(strings.Join(layout, ""), "*")
	g, err := NewGame(len(layout), len(layout[0]), mines, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)

	for r, row := range layout {
		for c, ch := range row {
			g.grid[r][c].Mine = ch == '*'
		}
	}
	g.countAdjacent()
	g.status = StatusPlaying
	return g
}

func TestAdjacentMines(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		r, c   int
		want   int
	}{
		{name: "no adjacent mines", layout: []string{"...", "...", "..."}, r: 1, c: 1, want: 0},
		{name: "one adjacent mine", layout: []string{".*.", "...", "..."}, r: 1, c: 1, want: 1},
		{name: "surrounded", layout: []string{"***", "*.*", "***"}, r: 1, c: 1, want: 8},
		{name: "corner", layout: []string{".*", "*."}, r: 0, c: 0, want: 2},
		{name: "edge", layout: []string{".*.", "..."}, r: 0, c: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := make([][]Cell, len(tt.layout))
			for r, row := range tt.layout {
				grid[r] = make([]Cell, len(row))
				for c, ch := range row {
					grid[r][c].Mine = ch == '*'
				}
			}
			assert.Equal(t, tt.want, adjacentMines(grid, tt.r, tt.c))
		})
	}
}

func TestNewGameValidates(t *testing.T) {
	_, err := NewGame(0, 9, 10, nil)
	assert.Error(t, err)
	_, err = NewGame(3, 3, 9, nil)
	assert.Error(t, err, "a board full of mines has no safe first click")

	g, err := NewGame(DefaultRows, DefaultCols, DefaultMines, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, g.Status())
	assert.Equal(t, DefaultMines, g.FlagsLeft())
}

func TestFirstRevealIsSafe(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		g, err := NewGame(3, 3, 8, rand.New(rand.NewPCG(seed, seed)))
		require.NoError(t, err)

		status, err := g.Reveal(1, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusWon, status, "seed %d: the only safe cell wins", seed)

		cell, _ := g.Cell(1, 1)
		assert.False(t, cell.Mine)
		assert.Equal(t, 8, cell.Adjacent)
	}
}

func TestRevealFloods(t *testing.T) {
	g := boardFrom(t,
		"....",
		"....",
		"...*",
	)

	status, err := g.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusWon, status)

	cell, _ := g.Cell(2, 3)
	assert.True(t, cell.Flagged, "remaining mines are flagged on a win")
	assert.Equal(t, 0, g.FlagsLeft())
}

func TestRevealStopsAtNumbers(t *testing.T) {
	g := boardFrom(t,
		"*...",
		"....",
		"....",
	)

	_, err := g.Reveal(0, 1)
	require.NoError(t, err)

	cell, _ := g.Cell(0, 2)
	assert.False(t, cell.Revealed, "a numbered cell does not spread")
	assert.Equal(t, StatusPlaying, g.Status())
}

func TestRevealMineLoses(t *testing.T) {
	g := boardFrom(t, "*.", "..")

	status, err := g.Reveal(0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusLost, status)

	_, err = g.Reveal(1, 1)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestFlags(t *testing.T) {
	g, err := NewGame(3, 3, 1, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	_, err = g.ToggleFlag(0, 0)
	assert.ErrorIs(t, err, ErrNotStarted)

	g = boardFrom(t, "*..", "...", "..*")
	_, err = g.ToggleFlag(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, g.FlagsLeft())

	_, err = g.Reveal(1, 1)
	require.NoError(t, err)
	cell, _ := g.Cell(1, 1)
	assert.False(t, cell.Revealed, "flagged cells are not revealed")

	_, _ = g.ToggleFlag(1, 1)
	_, _ = g.ToggleFlag(0, 0)
	status, _ := g.ToggleFlag(2, 2)
	assert.Equal(t, StatusWon, status, "flags exactly on every mine win")
}

func TestOutOfBounds(t *testing.T) {
	g := boardFrom(t, "*.", "..")

	_, err := g.Reveal(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = g.ToggleFlag(0, 5)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = g.Cell(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestTickAndRender(t *testing.T) {
	g := boardFrom(t, "*.*", "...")
	g.Tick()
	g.Tick()
	_, _ = g.ToggleFlag(0, 0)
	_, _ = g.Reveal(0, 1)

	assert.Equal(t, "Flags: 1, Time: 2s\n F  2  H \n H  H  H \n", g.Render())

	g.Reset()
	g.Tick()
	assert.Equal(t, 0, g.Elapsed(), "the clock only runs while playing")
}
