package puzzle

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

var steps = [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}, {0, -1}, {-1, 0}, {-1, -1}, {-1, 1}}

// lineCells returns every straight-line cell run spelling w (in any of the 8 directions).
func lineCells(g Grid, w string) [][][2]int {
	var out [][][2]int
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			for _, s := range steps {
				var cells [][2]int
				for i := 0; i < len(w); i++ {
					rr, cc := r+i*s[0], c+i*s[1]
					if g.At(rr, cc) != w[i] {
						cells = nil
						break
					}
					cells = append(cells, [2]int{rr, cc})
				}
				if cells != nil {
					out = append(out, cells)
				}
			}
		}
	}
	return out
}

func defaultBank(t *testing.T) *words.Bank {
	t.Helper()
	if err := words.Init(); err != nil {
		t.Fatalf("words.Init: %v", err)
	}
	return words.Default()
}

func TestGenerateProperties(t *testing.T) {
	bank := defaultBank(t)
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		for seed := uint64(0); seed < 40; seed++ {
			p := Generate(bank, d, NewRand(seed))
			s := d.Settings()

			if p.Size != s.GridSize || p.Grid.Size() != s.GridSize {
				t.Fatalf("%s/%d: size %d, want %d", d, seed, p.Size, s.GridSize)
			}
			if len(p.Words) > s.WordCount {
				t.Fatalf("%s/%d: %d words, max %d", d, seed, len(p.Words), s.WordCount)
			}
			for r, row := range p.Grid {
				for c, ch := range row {
					if ch < 'A' || ch > 'Z' {
						t.Fatalf("%s/%d: cell (%d,%d)=%q is not an uppercase letter", d, seed, r, c, ch)
					}
				}
			}
			for _, w := range p.Words {
				if len(w) > p.Size {
					t.Fatalf("%s/%d: word %q longer than grid", d, seed, w)
				}
				if len(lineCells(p.Grid, w)) == 0 {
					t.Fatalf("%s/%d: word %q not found on a straight line\n%s", d, seed, w, p.Grid)
				}
			}
		}
	}
}

func TestPlaceWordsOverlapsAgree(t *testing.T) {
	ws := []string{"BANANA", "ANANAS", "NABO", "BANO", "ANA"}
	for seed := uint64(0); seed < 50; seed++ {
		g, placed := PlaceWords(ws, 6, AllDirections, NewRand(seed))
		// Every placed word must still read correctly after later words were
		// written, which is only possible if shared cells agree.
		for _, w := range placed {
			if len(lineCells(g, w)) == 0 {
				t.Fatalf("seed %d: %q broken by an overlapping word\n%s", seed, w, g)
			}
		}
	}
}

func TestPlaceWordsDropsUnplaceable(t *testing.T) {
	ws := []string{"ABC", "DEF", "GHI", "JKL"}
	g, placed := PlaceWords(ws, 3, []Direction{Horizontal}, NewRand(42))

	if diff := cmp.Diff([]string{"ABC", "DEF", "GHI"}, placed); diff != "" {
		t.Errorf("placed mismatch (-want +got):\n%s", diff)
	}
	rows := g.Rows()
	slices.Sort(rows)
	if diff := cmp.Diff([]string{"ABC", "DEF", "GHI"}, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceWordsKeepsInputOrder(t *testing.T) {
	ws := []string{"UVA", "MELANCIA", "PERA"}
	_, placed := PlaceWords(ws, 10, []Direction{Horizontal, Vertical}, NewRand(9))
	if diff := cmp.Diff(ws, placed); diff != "" {
		t.Errorf("placed mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceWordsWithoutDirections(t *testing.T) {
	g, placed := PlaceWords([]string{"GATO"}, 5, nil, NewRand(1))
	if len(placed) != 0 {
		t.Fatalf("expected no words placed, got %v", placed)
	}
	if strings.Trim(g.String(), ".\n") != "" {
		t.Fatalf("expected empty grid, got\n%s", g)
	}
}

func TestPlaceWordsFullLengthWord(t *testing.T) {
	// bound size-L == 0 must still allow the only legal start.
	g, placed := PlaceWords([]string{"ABCDE"}, 5, []Direction{Diagonal}, NewRand(3))
	if len(placed) != 1 {
		t.Fatalf("expected ABCDE placed, got %v", placed)
	}
	for i := 0; i < 5; i++ {
		if g[i][i] != "ABCDE"[i] {
			t.Fatalf("diagonal mismatch at %d\n%s", i, g)
		}
	}
}

func TestReverseDirectionsStoreReversedWord(t *testing.T) {
	for _, d := range []Direction{HorizontalReverse, VerticalReverse, DiagonalReverse} {
		for seed := uint64(0); seed < 20; seed++ {
			g, placed := PlaceWords([]string{"GATO"}, 6, []Direction{d}, NewRand(seed))
			if len(placed) != 1 {
				continue
			}
			if len(lineCells(g, "GATO")) == 0 {
				t.Fatalf("%s/%d: GATO not readable\n%s", d, seed, g)
			}
		}
	}
}

func TestWalkRejectsNegativeStepExit(t *testing.T) {
	g := NewGrid(5)
	if _, ok := walk(g, []byte("ABC"), 1, 0, -1, 0); ok {
		t.Fatal("vertical reverse walk from row 1 must leave the grid")
	}
	if _, ok := walk(g, []byte("ABC"), 0, 1, 0, -1); ok {
		t.Fatal("horizontal reverse walk from col 1 must leave the grid")
	}
	if _, ok := walk(g, []byte("ABC"), 2, 2, -1, 0); !ok {
		t.Fatal("vertical reverse walk from row 2 fits")
	}
}

func TestTryPlaceIsAllOrNothing(t *testing.T) {
	g := ParseGrid(
		"...X",
		"....",
		"....",
		"....",
	)
	before := g.String()
	// A 4-letter horizontal word always starts at col 0; seeds that pick row 0
	// hit the X in the last cell.
	for seed := uint64(0); seed < 30; seed++ {
		trial := ParseGrid(g.Rows()...)
		ok := tryPlace(trial, "ABCD", Horizontal, NewRand(seed))
		if ok {
			continue
		}
		if trial.String() != before {
			t.Fatalf("failed attempt wrote letters:\n%s", trial)
		}
	}
}

func TestCrossingOnSharedLetter(t *testing.T) {
	g := ParseGrid(
		"G...",
		"A...",
		"T...",
		"O...",
	)
	writes, ok := walk(g, []byte("GATO"), 0, 0, 0, 1)
	if !ok || len(writes) != 4 {
		t.Fatal("crossing on the shared G must be allowed")
	}
	if _, ok := walk(g, []byte("PATO"), 0, 0, 0, 1); ok {
		t.Fatal("conflicting letter must reject the attempt")
	}
}

func TestFill(t *testing.T) {
	g := ParseGrid(
		"GATO",
		"....",
		"....",
		"....",
	)
	Fill(g, NewRand(5))
	if got := g.Rows()[0]; got != "GATO" {
		t.Fatalf("Fill overwrote placed letters: %q", got)
	}
	for _, row := range g {
		for _, ch := range row {
			if ch < 'A' || ch > 'Z' {
				t.Fatalf("non-letter %q after Fill", ch)
			}
		}
	}
	filled := g.String()
	Fill(g, NewRand(6))
	if g.String() != filled {
		t.Fatal("second Fill changed a full grid")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	bank := defaultBank(t)
	a := Generate(bank, Hard, NewRand(77))
	b := Generate(bank, Hard, NewRand(77))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different puzzles (-a +b):\n%s", diff)
	}
}

func TestGridJSON(t *testing.T) {
	b, err := json.Marshal(ParseGrid("AB", "CD"))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["AB","CD"]` {
		t.Errorf("unexpected JSON %s", b)
	}
}

func TestDifficultySettings(t *testing.T) {
	cases := []struct {
		d          Difficulty
		size, cnt  int
		directions int
	}{
		{Easy, 10, 5, 2},
		{Medium, 15, 8, 3},
		{Hard, 20, 12, 6},
	}
	for _, c := range cases {
		s := c.d.Settings()
		if s.GridSize != c.size || s.WordCount != c.cnt || len(s.Directions) != c.directions {
			t.Errorf("%s: got %+v", c.d, s)
		}
	}
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
	if d, _ := ParseDifficulty(" HARD "); d != Hard {
		t.Errorf("ParseDifficulty(HARD) = %q", d)
	}
}

func TestSettingsReturnsCopy(t *testing.T) {
	s := Hard.Settings()
	s.Directions[0] = DiagonalReverse
	s.Directions = s.Directions[:1]
	if got := Hard.Settings().Directions; len(got) != 6 || got[0] != Horizontal {
		t.Errorf("table changed through a returned value: %v", got)
	}
}
