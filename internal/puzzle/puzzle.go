// apps/go-server/internal/puzzle/puzzle.go
//
// Puzzle generation for word search games.
// Responsibilities:
//   - Select words for a difficulty from a word bank (words.Select).
//   - Place them on a square grid along the difficulty's directions (PlaceWords).
//   - Fill the remaining cells with noise letters (Fill).
//
// Notes:
//   - Generation is pure apart from logging; randomness comes from the caller's
//     *rand.Rand so a seed reproduces a puzzle.
//   - Words that cannot be placed are dropped, so Words may be shorter than the
//     difficulty's word count.

package puzzle

import (
	"math/rand/v2"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

// Puzzle is an immutable generated word search.
type Puzzle struct {
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
	Size       int        `json:"size"`
	Grid       Grid       `json:"grid"`
	Words      []string   `json:"words"`
}

// Generate builds a complete puzzle for d from bank.
func Generate(bank *words.Bank, d Difficulty, rng *rand.Rand) *Puzzle {
	s := d.Settings()
	category, selected := words.Select(bank, s.GridSize, s.WordCount, rng)
	grid, placed := PlaceWords(selected, s.GridSize, s.Directions, rng)
	Fill(grid, rng)
	return &Puzzle{
		Difficulty: d,
		Category:   category,
		Size:       s.GridSize,
		Grid:       grid,
		Words:      placed,
	}
}

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
