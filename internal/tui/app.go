// Package tui is the terminal word search client: a tcell screen driving a
// game.Session with mouse and keyboard.
//
// Keys: arrows move the cursor, space/enter selects, c confirms, x or
// backspace clears, n starts a new game, 1/2/3 pick a difficulty, q quits.
package tui

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/game"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/messages"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

// Layout.
const (
	gridX = 2
	gridY = 3
)

// Sounder plays the found-word cue.
type Sounder interface {
	Found()
}

// Options configure an App.
type Options struct {
	Difficulty puzzle.Difficulty
	Seed       uint64 // 0 picks a random seed
	Lang       string
	TipFile    string // marker file recording that the tip was shown; empty keeps it in memory only
	Sound      Sounder
}

// messageExpired clears the transient message once its TTL elapsed. seq
// guards against clearing a newer message.
type messageExpired struct {
	tcell.EventTime
	seq int
}

// App is the running terminal game.
type App struct {
	screen  tcell.Screen
	sess    *game.Session
	cat     *messages.Catalog
	sound   Sounder
	tipFile string

	diff    puzzle.Difficulty
	cursor  game.Cell
	message string
	msgSeq  int
	showTip bool
	buttons tcell.ButtonMask
	after   func(time.Duration, func())
}

// New builds an App on an initialised screen.
func New(screen tcell.Screen, bank *words.Bank, opts Options) *App {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := puzzle.NewRand(seed)
	gen := func(d puzzle.Difficulty) *puzzle.Puzzle { return puzzle.Generate(bank, d, rng) }

	a := &App{
		screen:  screen,
		cat:     messages.For(opts.Lang),
		sound:   opts.Sound,
		tipFile: opts.TipFile,
		diff:    opts.Difficulty,
		showTip: !tipShown(opts.TipFile),
		after:   func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	a.sess = game.New(gen(opts.Difficulty), gen)
	log.Info().Uint64("seed", seed).Str("difficulty", string(opts.Difficulty)).Msg("game started")
	return a
}

// Run draws and processes events until the player quits.
func (a *App) Run() error {
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.handle(ev) {
			return nil
		}
		a.draw()
	}
}

// Session exposes the game being played.
func (a *App) Session() *game.Session { return a.sess }

// handle applies one event; false means quit.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.showTip {
			a.dismissTip()
			if ev.Key() != tcell.KeyEscape && ev.Key() != tcell.KeyCtrlC {
				return true
			}
		}
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *messageExpired:
		if ev.seq == a.msgSeq {
			a.message = ""
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	size := a.sess.Puzzle().Size
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		a.cursor.Row = max(a.cursor.Row-1, 0)
	case tcell.KeyDown:
		a.cursor.Row = min(a.cursor.Row+1, size-1)
	case tcell.KeyLeft:
		a.cursor.Col = max(a.cursor.Col-1, 0)
	case tcell.KeyRight:
		a.cursor.Col = min(a.cursor.Col+1, size-1)
	case tcell.KeyEnter:
		a.selectCell(a.cursor)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.sess.ClearSelection()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			a.selectCell(a.cursor)
		case 'c', 'C':
			a.confirm()
		case 'x', 'X':
			a.sess.ClearSelection()
		case 'n', 'N':
			a.newGame(a.diff)
		case '1':
			a.newGame(puzzle.Easy)
		case '2':
			a.newGame(puzzle.Medium)
		case '3':
			a.newGame(puzzle.Hard)
		}
	}
	return true
}

// handleMouse selects the cell under a left-button press.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
	a.buttons = ev.Buttons()
	if !pressed {
		return
	}
	if a.showTip {
		a.dismissTip()
		return
	}
	x, y := ev.Position()
	if c, ok := a.cellAt(x, y); ok {
		a.cursor = c
		a.selectCell(c)
	}
}

// cellAt maps screen coordinates to a grid cell. Each cell is two columns wide.
func (a *App) cellAt(x, y int) (game.Cell, bool) {
	if x < gridX || y < gridY {
		return game.Cell{}, false
	}
	c := game.Cell{Row: y - gridY, Col: (x - gridX) / 2}
	size := a.sess.Puzzle().Size
	return c, c.Row < size && c.Col < size
}

func (a *App) selectCell(c game.Cell) {
	if _, err := a.sess.SelectCell(c.Row, c.Col); err != nil {
		log.Debug().Err(err).Int("row", c.Row).Int("col", c.Col).Msg("select")
	}
}

func (a *App) confirm() {
	res, err := a.sess.Confirm()
	if msg := a.cat.Result(res, err); game.Transient(res, err) {
		a.flash(msg)
	} else {
		a.msgSeq++
		a.message = msg
	}
	if err == nil {
		log.Info().Str("word", res.Word).Bool("complete", res.Complete).Msg("word found")
		if a.sound != nil {
			a.sound.Found()
		}
	}
}

func (a *App) newGame(d puzzle.Difficulty) {
	a.diff = d
	a.sess.NewGame(d)
	a.cursor = game.Cell{}
	a.message = ""
	log.Info().Str("difficulty", string(d)).Msg("new game")
}

// flash shows msg until game.MessageTTL passes.
func (a *App) flash(msg string) {
	a.msgSeq++
	a.message = msg
	seq := a.msgSeq
	a.after(game.MessageTTL, func() {
		ev := &messageExpired{seq: seq}
		ev.SetEventNow()
		_ = a.screen.PostEvent(ev)
	})
}

// ------------------------------- tip ---------------------------------------

// DefaultTipFile is the marker path under the user's config directory.
func DefaultTipFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wordsearch", "tip_shown")
}

func tipShown(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (a *App) dismissTip() {
	a.showTip = false
	if a.tipFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.tipFile), 0o755); err != nil {
		log.Warn().Err(err).Msg("tip marker dir")
		return
	}
	if err := os.WriteFile(a.tipFile, nil, 0o644); err != nil {
		log.Warn().Err(err).Msg("tip marker")
	}
}

// ------------------------------ drawing ------------------------------------

var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleFound    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleMessage  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

func (a *App) draw() {
	a.screen.Clear()
	snap := a.sess.Snapshot()

	title := "Caça-Palavras · " + strings.ToUpper(snap.Category) + " · " + string(snap.Difficulty)
	a.text(gridX, 0, styleTitle, title)
	a.text(gridX, 1, styleDim, a.cat.Progress(len(snap.Found), len(snap.Words)))

	found := map[game.Cell]bool{}
	for _, p := range snap.FoundPaths {
		for _, c := range p {
			found[c] = true
		}
	}
	selected := map[game.Cell]bool{}
	for _, c := range snap.Selection {
		selected[c] = true
	}

	for r, row := range snap.Grid {
		for c := 0; c < len(row); c++ {
			cell := game.Cell{Row: r, Col: c}
			st := styleDefault
			switch {
			case selected[cell]:
				st = styleSelected
			case found[cell]:
				st = styleFound
			}
			if cell == a.cursor {
				st = st.Reverse(true)
				if !selected[cell] && !found[cell] {
					st = styleCursor
				}
			}
			a.screen.SetContent(gridX+c*2, gridY+r, rune(row[c]), nil, st)
		}
	}

	// Word list to the right of the grid.
	listX := gridX + snap.Size*2 + 3
	done := map[string]bool{}
	for _, w := range snap.Found {
		done[w] = true
	}
	for i, w := range snap.Words {
		if done[w] {
			a.text(listX, gridY+i, styleFound, "✓ "+w)
		} else {
			a.text(listX, gridY+i, styleDefault, "  "+w)
		}
	}

	y := gridY + snap.Size + 1
	switch {
	case a.message != "":
		a.text(gridX, y, styleMessage, a.message)
	case snap.CurrentWord != "":
		a.text(gridX, y, styleDefault, a.cat.Selected(snap.CurrentWord))
	}
	if a.showTip {
		a.text(gridX, y+1, styleMessage, a.cat.Tip())
	}
	a.text(gridX, y+2, styleDim, "←↑→↓ move  space select  c confirm  x clear  n new  1/2/3 difficulty  q quit")

	a.screen.Show()
}

func (a *App) text(x, y int, st tcell.Style, s string) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, st)
		x++
	}
}
