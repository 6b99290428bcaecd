package minesweeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Board defaults of the stock game
const (
	DefaultRows  = 9
	DefaultCols  = 9
	DefaultMines = 10
)

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrGameOver    = errors.New("game over")
	ErrNotStarted  = errors.New("no cell revealed yet")
)

// Status is the state of a game
type Status string

const (
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Cell is one square of the board
type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Adjacent int
}

// Game is a single minesweeper round. Mines are placed on the first
// reveal so the first click is never a mine. Game is not safe for
// concurrent use.
type Game struct {
	rows, cols, mines int
	grid              [][]Cell
	status            Status
	flags             int
	elapsed           int
	rng               *rand.Rand
}

// NewGame creates a game with the given board size
func NewGame(rows, cols, mines int, rng *rand.Rand) (*Game, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid board %dx%d", rows, cols)
	}
	if mines <= 0 || mines >= rows*cols {
		return nil, fmt.Errorf("invalid mine count %d for %dx%d board", mines, rows, cols)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Game{rows: rows, cols: cols, mines: mines, rng: rng}
	g.Reset()
	return g, nil
}

// Reset clears the board for a new round
func (g *Game) Reset() {
	g.grid = make([][]Cell, g.rows)
	for r := range g.grid {
		g.grid[r] = make([]Cell, g.cols)
	}
	g.status = StatusReady
	g.flags = 0
	g.elapsed = 0
}

// Status returns the state of the round
func (g *Game) Status() Status {
	return g.status
}

// Elapsed returns the seconds counted by Tick
func (g *Game) Elapsed() int {
	return g.elapsed
}

// FlagsLeft returns mines minus placed flags
func (g *Game) FlagsLeft() int {
	return g.mines - g.flags
}

// Cell returns a copy of the cell at r, c
func (g *Game) Cell(r, c int) (Cell, error) {
	if !g.inBounds(r, c) {
		return Cell{}, ErrOutOfBounds
	}
	return g.grid[r][c], nil
}

// Tick advances the game clock while a round is in progress
func (g *Game) Tick() {
	if g.status == StatusPlaying {
		g.elapsed++
	}
}

// Reveal uncovers the cell at r, c. The first reveal lays the mines and
// starts the round. Revealing a mine loses; uncovering every safe cell
// wins.
func (g *Game) Reveal(r, c int) (Status, error) {
	if !g.inBounds(r, c) {
		return g.status, ErrOutOfBounds
	}
	if g.over() {
		return g.status, ErrGameOver
	}

	cell := &g.grid[r][c]
	if cell.Revealed || cell.Flagged {
		return g.status, nil
	}

	if g.status == StatusReady {
		g.placeMines(r, c)
		g.status = StatusPlaying
	}

	if cell.Mine {
		cell.Revealed = true
		g.status = StatusLost
		return g.status, nil
	}

	g.flood(r, c)
	g.checkWin()
	return g.status, nil
}

// ToggleFlag flags or unflags a hidden cell. Flags can only be placed
// once the round has started.
func (g *Game) ToggleFlag(r, c int) (Status, error) {
	if !g.inBounds(r, c) {
		return g.status, ErrOutOfBounds
	}
	if g.over() {
		return g.status, ErrGameOver
	}
	if g.status == StatusReady {
		return g.status, ErrNotStarted
	}

	cell := &g.grid[r][c]
	if cell.Revealed {
		return g.status, nil
	}
	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		g.flags++
	} else {
		g.flags--
	}
	g.checkWin()
	return g.status, nil
}

// Render draws the board as text: H hidden, F flagged, _ empty, digits
// for adjacent mine counts, * for revealed mines.
func (g *Game) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Flags: %d, Time: %ds\n", g.FlagsLeft(), g.elapsed)
	for r := range g.grid {
		for c := range g.grid[r] {
			cell := g.grid[r][c]
			switch {
			case cell.Flagged:
				b.WriteString(" F ")
			case !cell.Revealed:
				b.WriteString(" H ")
			case cell.Mine:
				b.WriteString(" * ")
			case cell.Adjacent > 0:
				fmt.Fprintf(&b, " %d ", cell.Adjacent)
			default:
				b.WriteString(" _ ")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Game) over() bool {
	return g.status == StatusWon || g.status == StatusLost
}

func (g *Game) inBounds(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// placeMines lays mines anywhere but the first revealed cell
func (g *Game) placeMines(firstR, firstC int) {
	placed := 0
	for placed < g.mines {
		r, c := g.rng.IntN(g.rows), g.rng.IntN(g.cols)
		if (r == firstR && c == firstC) || g.grid[r][c].Mine {
			continue
		}
		g.grid[r][c].Mine = true
		placed++
	}
	g.countAdjacent()
}

func (g *Game) countAdjacent() {
	for r := range g.grid {
		for c := range g.grid[r] {
			if !g.grid[r][c].Mine {
				g.grid[r][c].Adjacent = adjacentMines(g.grid, r, c)
			}
		}
	}
}

// adjacentMines counts mines in the eight neighbours of r, c
func adjacentMines(grid [][]Cell, r, c int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr >= 0 && nr < len(grid) && nc >= 0 && nc < len(grid[nr]) && grid[nr][nc].Mine {
				count++
			}
		}
	}
	return count
}

// flood reveals r, c and spreads through empty neighbours
func (g *Game) flood(r, c int) {
	stack := [][2]int{{r, c}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &g.grid[p[0]][p[1]]
		if cell.Revealed || cell.Flagged || cell.Mine {
			continue
		}
		cell.Revealed = true
		if cell.Adjacent > 0 {
			continue
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				nr, nc := p[0]+dr, p[1]+dc
				if (dr != 0 || dc != 0) && g.inBounds(nr, nc) {
					stack = append(stack, [2]int{nr, nc})
				}
			}
		}
	}
}

// checkWin ends the round when every safe cell is revealed, or when the
// flags sit exactly on the mines
func (g *Game) checkWin() {
	revealed, flaggedMines := 0, 0
	for r := range g.grid {
		for c := range g.grid[r] {
			cell := g.grid[r][c]
			if cell.Revealed && !cell.Mine {
				revealed++
			}
			if cell.Flagged && cell.Mine {
				flaggedMines++
			}
		}
	}

	allSafe := revealed == g.rows*g.cols-g.mines
	allFlagged := flaggedMines == g.mines && g.flags == g.mines
	if !allSafe && !allFlagged {
		return
	}

	g.status = StatusWon
	if allSafe {
		for r := range g.grid {
			for c := range g.grid[r] {
				if cell := &g.grid[r][c]; cell.Mine && !cell.Flagged {
					cell.Flagged = true
					g.flags++
				}
			}
		}
	}
}
