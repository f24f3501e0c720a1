// apps/go-server/internal/game/engine.go
//
// Play session for a single word search game.
// Responsibilities:
//   - Own the current puzzle, the player's selection and the found words.
//   - Forward cell clicks to the Selection tracker (toggle/extend semantics).
//   - Confirm selections through CheckSelection and apply the side effects:
//       found     → remember the path, clear the selection
//       not found → clear the selection
//       too short → leave everything untouched
//   - Start new games on demand through a Generator.
//
// Notes:
//   - Sessions are driven by discrete player events. The mutex only guards
//     against an HTTP client firing overlapping requests for one game.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
)

// Session modes.
const (
	ModeClassic = "classic"
	ModeDaily   = "daily"
)

// Generator produces a fresh puzzle for a difficulty.
type Generator func(puzzle.Difficulty) *puzzle.Puzzle

// Session holds the state of one player's game.
type Session struct {
	ID         string
	Mode       string
	Date       string // daily mode only, YYYY-MM-DD
	StartedAt  time.Time
	FinishedAt time.Time

	mu         sync.Mutex
	owner      string
	gen        Generator
	puzzle     *puzzle.Puzzle
	selection  Selection
	found      *FoundWords
	foundPaths map[string]Path
}

// New starts a session on p. gen is used by NewGame and may be nil when the
// session never restarts.
func New(p *puzzle.Puzzle, gen Generator) *Session {
	s := &Session{ID: randomID(), Mode: ModeClassic, gen: gen}
	s.reset(p)
	return s
}

func (s *Session) reset(p *puzzle.Puzzle) {
	s.puzzle = p
	s.selection.Clear()
	s.found = NewFoundWords()
	s.foundPaths = make(map[string]Path)
	s.StartedAt = time.Now()
	s.FinishedAt = time.Time{}
}

// Owner is the opaque key of the player the session belongs to. Local
// sessions leave it empty.
func (s *Session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// SetOwner hands the session to key.
func (s *Session) SetOwner(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = key
}

// NewGame replaces the puzzle with a freshly generated one for d and resets
// found words and selection. Without a generator it only resets progress.
func (s *Session) NewGame(d puzzle.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.puzzle
	if s.gen != nil {
		p = s.gen(d)
	}
	s.reset(p)
}

// Puzzle returns the current (immutable) puzzle.
func (s *Session) Puzzle() *puzzle.Puzzle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puzzle
}

// SelectCell applies a click on (row, col). It reports whether the selection
// changed; off-grid cells fail with ErrOutOfBounds.
func (s *Session) SelectCell(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.puzzle.Grid.Contains(row, col) {
		return false, ErrOutOfBounds
	}
	return s.selection.Select(Cell{Row: row, Col: col}), nil
}

// ClearSelection drops the in-progress path.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

// CurrentWord is the selection read as letters, for live display.
func (s *Session) CurrentWord() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.path.Letters(s.puzzle.Grid)
}

// Confirm checks the current selection against the word list.
func (s *Session) Confirm() (MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.selection.Path()
	res, err := CheckSelection(path, s.puzzle.Grid, s.puzzle.Words, s.found)
	switch {
	case err == nil:
		s.foundPaths[res.Word] = path
		s.selection.Clear()
		if res.Complete {
			s.FinishedAt = time.Now()
		}
	case errors.Is(err, ErrNotInList):
		s.selection.Clear()
	}
	return res, err
}

// Complete reports whether every word has been found.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete()
}

func (s *Session) complete() bool {
	return len(s.puzzle.Words) > 0 && s.found.Len() == len(s.puzzle.Words)
}

// Elapsed is the play time so far, or the time to completion once complete.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// Progress returns (found, total).
func (s *Session) Progress() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.found.Len(), len(s.puzzle.Words)
}

// Snapshot copies the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make(map[string]Path, len(s.foundPaths))
	for w, p := range s.foundPaths {
		paths[w] = append(Path{}, p...)
	}
	return Snapshot{
		ID:          s.ID,
		Mode:        s.Mode,
		Date:        s.Date,
		Difficulty:  s.puzzle.Difficulty,
		Category:    s.puzzle.Category,
		Size:        s.puzzle.Size,
		Grid:        s.puzzle.Grid.Rows(),
		Words:       append([]string{}, s.puzzle.Words...),
		Found:       s.found.List(),
		FoundPaths:  paths,
		Selection:   s.selection.Path(),
		CurrentWord: s.selection.path.Letters(s.puzzle.Grid),
		Complete:    s.complete(),
	}
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
