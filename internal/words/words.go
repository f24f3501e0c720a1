// apps/go-server/internal/words/words.go
//
// Word bank management and word selection for new puzzles.
//
// Responsibilities:
//   - Parse a categorized word bank ([category] headers, one word per line).
//   - Load the bank once from WORDS_BANK_FILE or fall back to the embedded default.
//   - Select a random category and a bounded subset of its words for a grid size.
//
// Constraints:
//   • Words are normalized to uppercase and must be A–Z only.
//   • Categories keep file order so seeded selection is reproducible.
//   • Init runs once (sync.Once).

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/wordsearch/apps/go-server/assets"
)

// Category is a named group of words.
type Category struct {
	Name  string
	Words []string
}

// Bank is an ordered list of categories.
type Bank struct {
	Categories []Category
}

// Len reports the number of categories.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Categories)
}

// Stats returns the word count per category name.
func (b *Bank) Stats() map[string]int {
	out := make(map[string]int, b.Len())
	if b == nil {
		return out
	}
	for _, c := range b.Categories {
		out[c.Name] = len(c.Words)
	}
	return out
}

var (
	initOnce   sync.Once
	defaultBnk *Bank
	initialErr error
)

// Init loads the default bank exactly once.
//
//  1. If WORDS_BANK_FILE is set, load the bank from that file.
//  2. Otherwise parse the embedded assets/wordbank.txt.
//
// Returns an error if the bank ends up without any category.
func Init() error {
	initOnce.Do(func() {
		var r io.ReadCloser
		var err error
		if path := os.Getenv("WORDS_BANK_FILE"); path != "" {
			r, err = os.Open(path)
		} else {
			r, err = assets.WordBank()
		}
		if err != nil {
			initialErr = fmt.Errorf("words: open bank: %w", err)
			return
		}
		defer r.Close()

		b, err := Parse(r)
		if err != nil {
			initialErr = err
			return
		}
		if b.Len() == 0 {
			initialErr = errors.New("words: bank has no categories")
			return
		}
		defaultBnk = b
	})
	return initialErr
}

// Default returns the bank loaded by Init, or nil when Init has not succeeded.
func Default() *Bank {
	return defaultBnk
}

// Parse reads a categorized bank. Lines before the first header go to an
// unnamed category. Empty categories are dropped.
func Parse(r io.Reader) (*Bank, error) {
	b := &Bank{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			b.Categories = append(b.Categories, Category{Name: strings.TrimSpace(line[1 : len(line)-1])})
			continue
		}
		w := Normalize(line)
		if w == "" {
			continue
		}
		if len(b.Categories) == 0 {
			b.Categories = append(b.Categories, Category{})
		}
		last := &b.Categories[len(b.Categories)-1]
		last.Words = append(last.Words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: scan bank: %w", err)
	}

	kept := b.Categories[:0]
	for _, c := range b.Categories {
		if len(c.Words) > 0 {
			kept = append(kept, c)
		}
	}
	b.Categories = kept
	return b, nil
}

// Normalize uppercases w and returns "" unless it is made of A–Z only.
func Normalize(w string) string {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Select picks one category uniformly at random, shuffles its words, keeps
// those no longer than gridSize and returns at most count of them.
// Fewer words (possibly none) is not an error.
func Select(b *Bank, gridSize, count int, rng *rand.Rand) (category string, out []string) {
	if b.Len() == 0 || count <= 0 {
		return "", nil
	}
	c := b.Categories[rng.IntN(len(b.Categories))]

	shuffled := append([]string(nil), c.Words...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out = make([]string, 0, count)
	for _, w := range shuffled {
		if len(out) == count {
			break
		}
		if len(w) <= gridSize {
			out = append(out, w)
		}
	}
	return c.Name, out
}
