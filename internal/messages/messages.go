// Package messages holds the player-facing strings in every supported
// language. Catalogs are gettext .po files embedded in the binary.
package messages

import (
	"embed"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/game"
)

// Supported languages. Portuguese is the default.
const (
	PtBR = "pt_BR"
	En   = "en"
)

//go:embed locales/*.po
var locales embed.FS

// Catalog translates message IDs for one language.
type Catalog struct {
	Lang string
	po   *gotext.Po
}

var catalogs = map[string]*Catalog{}

func init() {
	for _, lang := range []string{PtBR, En} {
		b, err := locales.ReadFile("locales/" + lang + ".po")
		if err != nil {
			panic(err)
		}
		po := gotext.NewPo()
		po.Parse(b)
		catalogs[lang] = &Catalog{Lang: lang, po: po}
	}
}

// For returns the catalog for lang ("pt-BR", "pt_br", "en-US"...) or the
// Portuguese one when unsupported.
func For(lang string) *Catalog {
	l := strings.ToLower(strings.ReplaceAll(lang, "-", "_"))
	switch {
	case strings.HasPrefix(l, "en"):
		return catalogs[En]
	default:
		return catalogs[PtBR]
	}
}

// Message IDs are constants; arguments are applied to the translated text.
func (c *Catalog) Selected(word string) string { return fmt.Sprintf(c.po.Get("SELECTED_WORD"), word) }
func (c *Catalog) Found(word string) string    { return fmt.Sprintf(c.po.Get("FOUND_WORD"), word) }
func (c *Catalog) AllFound() string            { return c.po.Get("ALL_FOUND") }
func (c *Catalog) TooShort() string            { return c.po.Get("TOO_SHORT") }
func (c *Catalog) NotInList() string           { return c.po.Get("NOT_IN_LIST") }
func (c *Catalog) Tip() string                 { return c.po.Get("TIP") }
func (c *Catalog) Progress(found, total int) string {
	return fmt.Sprintf(c.po.Get("PROGRESS"), found, total)
}

// Result picks the message shown after a confirm action.
func (c *Catalog) Result(res game.MatchResult, err error) string {
	switch game.OutcomeOf(err) {
	case game.OutcomeFound:
		if res.Complete {
			return c.AllFound()
		}
		return c.Found(res.Word)
	case game.OutcomeTooShort:
		return c.TooShort()
	default:
		return c.NotInList()
	}
}
