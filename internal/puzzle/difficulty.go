package puzzle

import (
	"fmt"
	"slices"
	"strings"
)

// Difficulty selects grid size, word count and allowed directions.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Settings is the static configuration for one difficulty.
type Settings struct {
	GridSize   int
	WordCount  int
	Directions []Direction
}

var settings = map[Difficulty]Settings{
	Easy: {
		GridSize:   10,
		WordCount:  5,
		Directions: []Direction{Horizontal, Vertical},
	},
	Medium: {
		GridSize:   15,
		WordCount:  8,
		Directions: []Direction{Horizontal, Vertical, Diagonal},
	},
	Hard: {
		GridSize:   20,
		WordCount:  12,
		Directions: []Direction{Horizontal, Vertical, Diagonal, HorizontalReverse, VerticalReverse, DiagonalReverse},
	},
}

// Settings returns a copy of the table entry for d. Unknown values fall back
// to Easy.
func (d Difficulty) Settings() Settings {
	s, ok := settings[d]
	if !ok {
		s = settings[Easy]
	}
	s.Directions = slices.Clone(s.Directions)
	return s
}

// ParseDifficulty accepts easy/medium/hard (case-insensitive). Empty means easy.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Easy, nil
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("puzzle: unknown difficulty %q", s)
}
