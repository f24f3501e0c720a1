package puzzle

import (
	"encoding/json"
	"math/rand/v2"
	"strings"
)

// empty marks a cell no letter has been written to yet.
const empty byte = 0

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Grid is a square matrix of uppercase ASCII letters indexed [row][col].
type Grid [][]byte

// NewGrid allocates a size×size grid of empty cells.
func NewGrid(size int) Grid {
	g := make(Grid, size)
	for i := range g {
		g[i] = make([]byte, size)
	}
	return g
}

// Size is the side length.
func (g Grid) Size() int { return len(g) }

// Contains reports whether (row, col) lies on the grid.
func (g Grid) Contains(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g)
}

// At returns the letter at (row, col), or 0 when empty or off-grid.
func (g Grid) At(row, col int) byte {
	if !g.Contains(row, col) {
		return empty
	}
	return g[row][col]
}

// Rows renders each row as a string; empty cells become '.'.
func (g Grid) Rows() []string {
	out := make([]string, len(g))
	for i, row := range g {
		var b strings.Builder
		b.Grow(len(row))
		for _, c := range row {
			if c == empty {
				b.WriteByte('.')
			} else {
				b.WriteByte(c)
			}
		}
		out[i] = b.String()
	}
	return out
}

// String joins Rows with newlines.
func (g Grid) String() string { return strings.Join(g.Rows(), "\n") }

// MarshalJSON encodes the grid as a list of row strings.
func (g Grid) MarshalJSON() ([]byte, error) { return json.Marshal(g.Rows()) }

// ParseGrid builds a grid from row strings; '.' and ' ' are empty cells.
// Rows shorter than the row count are padded with empty cells.
func ParseGrid(rows ...string) Grid {
	g := NewGrid(len(rows))
	for r, row := range rows {
		for c := 0; c < len(row) && c < len(rows); c++ {
			if ch := row[c]; ch != '.' && ch != ' ' {
				g[r][c] = ch
			}
		}
	}
	return g
}

// Fill writes a uniformly random letter into every empty cell.
// Placed letters are never touched, so a second call changes nothing.
func Fill(g Grid, rng *rand.Rand) Grid {
	for r := range g {
		for c := range g[r] {
			if g[r][c] == empty {
				g[r][c] = alphabet[rng.IntN(len(alphabet))]
			}
		}
	}
	return g
}
