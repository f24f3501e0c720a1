package puzzle

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog/log"
)

// MaxPlacementAttempts bounds the random retries spent on a single word.
const MaxPlacementAttempts = 100

// ErrPlacementFailed is logged when a word is dropped after exhausting its attempts.
var ErrPlacementFailed = errors.New("puzzle: placement failed")

type cellWrite struct {
	row, col int
	letter   byte
}

// PlaceWords writes words into a fresh size×size grid, longest first.
//
// Every attempt picks a random direction from dirs and a random start inside
// that direction's bounds, then walks the word checking each cell is on the
// grid and either empty or already holding the same letter. A fitting attempt
// commits all its letters; a failing one writes nothing. Words that never fit
// are dropped. The returned list keeps the caller's order.
func PlaceWords(words []string, size int, dirs []Direction, rng *rand.Rand) (Grid, []string) {
	g := NewGrid(size)
	if len(dirs) == 0 {
		return g, nil
	}

	order := slices.Clone(words)
	slices.SortStableFunc(order, func(a, b string) int { return len(b) - len(a) })

	dropped := make(map[string]int)
	for _, w := range order {
		if placeWord(g, w, dirs, rng) {
			continue
		}
		dropped[w]++
		log.Warn().
			Err(ErrPlacementFailed).
			Str("word", w).
			Int("gridSize", size).
			Int("attempts", MaxPlacementAttempts).
			Msg("word dropped from puzzle")
	}

	placed := make([]string, 0, len(words))
	for _, w := range words {
		if dropped[w] > 0 {
			dropped[w]--
			continue
		}
		placed = append(placed, w)
	}
	return g, placed
}

func placeWord(g Grid, word string, dirs []Direction, rng *rand.Rand) bool {
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		d := dirs[rng.IntN(len(dirs))]
		if tryPlace(g, word, d, rng) {
			return true
		}
	}
	return false
}

// tryPlace makes one placement attempt of word in direction d.
func tryPlace(g Grid, word string, d Direction, rng *rand.Rand) bool {
	n := len(word)
	geo, ok := geometryFor(d, g.Size(), n)
	if !ok || n == 0 {
		return false
	}
	letters := []byte(word)
	if geo.reversed {
		slices.Reverse(letters)
	}

	startRow := randomStart(rng, geo.rowBound)
	startCol := randomStart(rng, geo.colBound)

	writes, ok := walk(g, letters, startRow, startCol, geo.rowStep, geo.colStep)
	if !ok {
		return false
	}
	for _, w := range writes {
		g[w.row][w.col] = w.letter
	}
	return true
}

// walk collects the cell writes for letters starting at (row, col). It fails if
// any cell leaves the grid or holds a different letter; negative steps can
// leave the grid even from an in-bounds start.
func walk(g Grid, letters []byte, row, col, dr, dc int) ([]cellWrite, bool) {
	writes := make([]cellWrite, 0, len(letters))
	for i, l := range letters {
		r, c := row+i*dr, col+i*dc
		if !g.Contains(r, c) {
			return nil, false
		}
		if cur := g[r][c]; cur != empty && cur != l {
			return nil, false
		}
		writes = append(writes, cellWrite{row: r, col: c, letter: l})
	}
	return writes, true
}

// randomStart draws from [0, bound); a non-positive bound yields 0.
func randomStart(rng *rand.Rand, bound int) int {
	if bound <= 0 {
		return 0
	}
	return rng.IntN(bound)
}
