package game

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
)

// FoundWords is the growing set of matched words, in discovery order.
type FoundWords struct {
	set   mapset.Set[string]
	order []string
}

// NewFoundWords returns an empty set.
func NewFoundWords() *FoundWords {
	return &FoundWords{set: mapset.New[string]()}
}

// Has reports whether w was already found.
func (f *FoundWords) Has(w string) bool { return f.set.Has(w) }

// Add records w; adding twice is a no-op.
func (f *FoundWords) Add(w string) {
	if f.set.Has(w) {
		return
	}
	f.set.Put(w)
	f.order = append(f.order, w)
}

// Len is the number of found words.
func (f *FoundWords) Len() int { return f.set.Size() }

// List returns the found words in discovery order.
func (f *FoundWords) List() []string { return append([]string{}, f.order...) }

// Reverse returns s with its bytes in reverse order.
func Reverse(s string) string {
	b := []byte(s)
	slices.Reverse(b)
	return string(b)
}

// Match returns the first target in list order that reads as candidate
// forwards or backwards and has not been found yet.
func Match(candidate string, targets []string, found *FoundWords) (string, bool) {
	for _, w := range targets {
		if found.Has(w) {
			continue
		}
		if candidate == w || candidate == Reverse(w) {
			return w, true
		}
	}
	return "", false
}

// CheckSelection resolves path against the remaining targets.
//
// Paths shorter than two cells fail with ErrTooShort and change nothing. A
// match is added to found; Complete is set once every target is found.
// Anything else fails with ErrNotInList.
func CheckSelection(path Path, g puzzle.Grid, targets []string, found *FoundWords) (MatchResult, error) {
	if len(path) < 2 {
		return MatchResult{}, ErrTooShort
	}
	w, ok := Match(path.Letters(g), targets, found)
	if !ok {
		return MatchResult{}, ErrNotInList
	}
	found.Add(w)
	return MatchResult{OK: true, Word: w, Complete: found.Len() == len(targets)}, nil
}
