// Command wordsearch-tui plays word search in the terminal.
//
//	wordsearch-tui -difficulty medium -seed 42 -lang en -log /tmp/ws.log
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/chime"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/tui"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

func main() {
	difficulty := flag.String("difficulty", "easy", "easy, medium or hard")
	seed := flag.Uint64("seed", 0, "puzzle seed (0 = random)")
	lang := flag.String("lang", os.Getenv("LANG"), "message language (pt_BR, en)")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	// The screen owns stdout, so logs go to a file or nowhere.
	_ = godotenv.Load()
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "open log:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(*difficulty, *seed, *lang, *mute); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(difficulty string, seed uint64, lang string, mute bool) error {
	d, err := puzzle.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}
	if err := words.Init(); err != nil {
		return err
	}

	opts := tui.Options{Difficulty: d, Seed: seed, Lang: lang, TipFile: tui.DefaultTipFile()}
	if !mute {
		p := &chime.Player{}
		if err := p.Init(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, playing muted")
		} else {
			opts.Sound = p
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	return tui.New(screen, words.Default(), opts).Run()
}
