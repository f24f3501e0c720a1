// apps/go-server/internal/game/types.go
//
// Core type definitions for word search play.
// Defines:
//   - Cell / Path: grid coordinates and the player's letter path.
//   - Outcome / MatchResult: result of confirming a selection.
//   - Snapshot: read-only view of a session for presentation layers.
//   - Sentinel errors surfaced to the player.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
)

// MessageTTL is how long presentation layers keep a transient result message.
const MessageTTL = 2 * time.Second

var (
	// ErrTooShort is returned when fewer than two cells are selected.
	ErrTooShort = errors.New("selection too short")
	// ErrNotInList is returned when the selection matches no remaining word.
	// Already-found words report this too.
	ErrNotInList = errors.New("word not in list")
	// ErrOutOfBounds is returned for cell coordinates outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Cell is a grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Adjacent reports whether c and o are 8-neighbours (Chebyshev distance 1).
func (c Cell) Adjacent(o Cell) bool {
	dr, dc := abs(c.Row-o.Row), abs(c.Col-o.Col)
	return dr <= 1 && dc <= 1 && !(dr == 0 && dc == 0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Path is an ordered selection of cells.
type Path []Cell

// Letters concatenates the grid letters along p in order.
func (p Path) Letters(g puzzle.Grid) string {
	b := make([]byte, 0, len(p))
	for _, c := range p {
		b = append(b, g.At(c.Row, c.Col))
	}
	return string(b)
}

// Outcome is the coarse result of a confirm action.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeTooShort Outcome = "too_short"
)

// OutcomeOf maps a CheckSelection error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.Is(err, ErrTooShort):
		return OutcomeTooShort
	default:
		return OutcomeNotFound
	}
}

// Transient reports whether the message for a confirm result is cleared after
// MessageTTL. Completion and too-short messages stay until the next action.
func Transient(res MatchResult, err error) bool {
	switch OutcomeOf(err) {
	case OutcomeFound:
		return !res.Complete
	case OutcomeNotFound:
		return true
	}
	return false
}

// MatchResult describes a successful match.
type MatchResult struct {
	OK       bool   `json:"ok"`
	Word     string `json:"word,omitempty"`
	Complete bool   `json:"complete"`
}

// Snapshot is a copy of session state safe to hand to renderers.
type Snapshot struct {
	ID          string            `json:"gameId"`
	Mode        string            `json:"mode"`
	Date        string            `json:"date,omitempty"`
	Difficulty  puzzle.Difficulty `json:"difficulty"`
	Category    string            `json:"category"`
	Size        int               `json:"size"`
	Grid        []string          `json:"grid"`
	Words       []string          `json:"words"`
	Found       []string          `json:"found"`
	FoundPaths  map[string]Path   `json:"foundPaths"`
	Selection   Path              `json:"selection"`
	CurrentWord string            `json:"currentWord"`
	Complete    bool              `json:"complete"`
}
