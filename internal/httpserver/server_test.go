package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordsearch/apps/go-server/assets"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/config"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/db"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/game"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/history"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/store"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

func TestMain(m *testing.M) {
	os.Unsetenv("WORDS_BANK_FILE")
	if err := words.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(conn, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		JWTSecret:    "test",
		JWTTTL:       time.Hour,
		CookieName:   "wordsearch_token",
		ClientOrigin: "http://localhost:5173",
		DailySalt:    "salt",
	}
	ts := httptest.NewServer(New(cfg, store.NewMemoryStore(), conn).Router())
	t.Cleanup(ts.Close)
	return ts
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, _ := cookiejar.New(nil)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

// do sends body as JSON (when non-nil) and decodes the response into out.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return res.StatusCode
}

// locate finds word (or its reverse) in rows and returns its cells in order.
func locate(rows []string, word string) []game.Cell {
	steps := [][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}, {0, -1}, {-1, 0}, {-1, -1}, {1, -1}}
	n := len(rows)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for _, st := range steps {
				var path []game.Cell
				for i := 0; i < len(word); i++ {
					rr, cc := r+st[0]*i, c+st[1]*i
					if rr < 0 || rr >= n || cc < 0 || cc >= n || rows[rr][cc] != word[i] {
						path = nil
						break
					}
					path = append(path, game.Cell{Row: rr, Col: cc})
				}
				if path != nil {
					return path
				}
			}
		}
	}
	return nil
}

func (c *client) selectPath(id string, path []game.Cell) selectRes {
	c.t.Helper()
	var res selectRes
	for _, cell := range path {
		if code := c.do(http.MethodPost, "/game/"+id+"/select", map[string]int{"row": cell.Row, "col": cell.Col}, &res); code != http.StatusOK {
			c.t.Fatalf("select %+v: status %d", cell, code)
		}
	}
	return res
}

// solve finds every word of g and reports the last confirm response.
func (c *client) solve(g gameRes) confirmRes {
	c.t.Helper()
	var last confirmRes
	for _, w := range g.Words {
		path := locate(g.Grid, w)
		if path == nil {
			c.t.Fatalf("word %s not present in grid %v", w, g.Grid)
		}
		c.selectPath(g.ID, path)
		if code := c.do(http.MethodPost, "/game/"+g.ID+"/confirm", nil, &last); code != http.StatusOK {
			c.t.Fatalf("confirm: %d", code)
		}
		if last.Result != game.OutcomeFound {
			c.t.Fatalf("confirm %s: %+v", w, last)
		}
	}
	return last
}

func TestHealthAndDebug(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var ok map[string]bool
	if code := c.do(http.MethodGet, "/health", nil, &ok); code != http.StatusOK || !ok["ok"] {
		t.Fatalf("health: %d %v", code, ok)
	}
	var stats map[string]int
	c.do(http.MethodGet, "/debug/words", nil, &stats)
	if stats["frutas"] != 10 || len(stats) != 4 {
		t.Errorf("debug/words = %v", stats)
	}
	if code := c.do(http.MethodGet, "/nope", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown route: %d", code)
	}
}

func TestNotFoundBodyIsJSON(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Get(ts.URL + `/no%22pe`)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode 404 body: %v", err)
	}
	want := map[string]string{"error": "not_found", "path": `/no"pe`}
	if res.StatusCode != http.StatusNotFound || !cmp.Equal(want, body) {
		t.Errorf("404 = %d %v", res.StatusCode, body)
	}
}

func TestClassicGameFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var g gameRes
	if code := c.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "medium"}, &g); code != http.StatusOK {
		t.Fatalf("new game: %d", code)
	}
	if g.Size != 15 || len(g.Grid) != 15 || len(g.Words) == 0 || g.Progress != "Encontradas: 0/"+strconv.Itoa(len(g.Words)) {
		t.Fatalf("unexpected game: %+v", g)
	}

	// One cell is too short and leaves the selection alone.
	var conf confirmRes
	c.selectPath(g.ID, []game.Cell{{Row: 0, Col: 0}})
	c.do(http.MethodPost, "/game/"+g.ID+"/confirm", nil, &conf)
	if conf.Result != game.OutcomeTooShort || len(conf.Selection) != 1 || conf.ClearAfterMs != 0 {
		t.Fatalf("too short: %+v", conf)
	}
	c.do(http.MethodPost, "/game/"+g.ID+"/clear", nil, nil)

	word := g.Words[0]
	sel := c.selectPath(g.ID, locate(g.Grid, word))
	if sel.CurrentWord != word || sel.Message != "Palavra selecionada: "+word {
		t.Fatalf("selection: %+v", sel)
	}
	c.do(http.MethodPost, "/game/"+g.ID+"/confirm?lang=en", nil, &conf)
	want := confirmRes{
		Result:       game.OutcomeFound,
		Word:         word,
		Message:      "You found: " + word + "!",
		ClearAfterMs: 2000,
		Found:        []string{word},
		Progress:     "Found: 1/" + strconv.Itoa(len(g.Words)),
		Selection:    game.Path{},
	}
	if len(g.Words) == 1 {
		want.Complete = true
		want.Message = "Congratulations! You found all the words!"
		want.ClearAfterMs = 0
	}
	if diff := cmp.Diff(want, conf); diff != "" {
		t.Errorf("confirm mismatch (-want +got):\n%s", diff)
	}

	// Same word again is not in the list any more.
	c.selectPath(g.ID, locate(g.Grid, word))
	c.do(http.MethodPost, "/game/"+g.ID+"/confirm", nil, &conf)
	if conf.Result != game.OutcomeNotFound || len(conf.Selection) != 0 || conf.ClearAfterMs != 2000 {
		t.Errorf("repeat: %+v", conf)
	}

	var again gameRes
	c.do(http.MethodGet, "/game/"+g.ID, nil, &again)
	if diff := cmp.Diff([]string{word}, again.Found); diff != "" {
		t.Errorf("found mismatch:\n%s", diff)
	}
	if len(again.FoundPaths[word]) != len(word) {
		t.Errorf("found path not kept: %+v", again.FoundPaths)
	}
}

func TestGameErrors(t *testing.T) {
	c := newClient(t, newTestServer(t))
	if code := c.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "impossible"}, nil); code != http.StatusBadRequest {
		t.Errorf("bad difficulty: %d", code)
	}
	if code := c.do(http.MethodGet, "/game/missing", nil, nil); code != http.StatusNotFound {
		t.Errorf("missing game: %d", code)
	}

	var g gameRes
	c.do(http.MethodPost, "/game/new", nil, &g)
	if g.Difficulty != "easy" || g.Size != 10 {
		t.Fatalf("default difficulty: %+v", g)
	}
	if code := c.do(http.MethodPost, "/game/"+g.ID+"/select", map[string]int{"row": 10, "col": 0}, nil); code != http.StatusBadRequest {
		t.Errorf("out of bounds: %d", code)
	}
	if code := c.do(http.MethodPost, "/game/"+g.ID+"/select", map[string]int{"row": 1}, nil); code != http.StatusBadRequest {
		t.Errorf("missing col: %d", code)
	}
}

func TestDailySharedPuzzleAndLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	alice, bob := newClient(t, ts), newClient(t, ts)

	var a, a2, b dailyNewRes
	alice.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &a)
	alice.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &a2)
	bob.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &b)

	if a.Game == nil || a.GameID != a2.GameID {
		t.Fatalf("daily session not resumed: %+v / %+v", a, a2)
	}
	if a.GameID == b.GameID {
		t.Fatal("owners share a session")
	}
	if diff := cmp.Diff(a.Game.Grid, b.Game.Grid); diff != "" {
		t.Errorf("daily grids differ:\n%s", diff)
	}
	if a.Game.Mode != game.ModeDaily || a.Game.Date != a.Date {
		t.Errorf("daily snapshot: %+v", a.Game.Snapshot)
	}

	last := alice.solve(*a.Game)
	if !last.Complete || last.ClearAfterMs != 0 {
		t.Fatalf("expected completion: %+v", last)
	}

	var lb lbRes
	alice.do(http.MethodGet, "/daily/leaderboard?difficulty=easy", nil, &lb)
	if len(lb.Top) != 1 || lb.Date != a.Date {
		t.Fatalf("leaderboard: %+v", lb)
	}

	var again dailyNewRes
	alice.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &again)
	if !again.Played || again.Game != nil {
		t.Errorf("second daily play allowed: %+v", again)
	}
}

func TestAuthStatsAndHistory(t *testing.T) {
	c := newClient(t, newTestServer(t))

	if code := c.do(http.MethodGet, "/stats/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("stats without auth: %d", code)
	}

	// Play as a guest first; the game is claimed on signup.
	var g gameRes
	c.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "easy"}, &g)

	creds := map[string]string{"username": "gabi", "password": "password123"}
	if code := c.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusOK {
		t.Fatalf("signup: %d", code)
	}
	if code := c.do(http.MethodPost, "/auth/signup", creds, nil); code != http.StatusConflict {
		t.Errorf("duplicate signup: %d", code)
	}
	c.solve(g)

	var stats map[string]any
	c.do(http.MethodGet, "/stats/me", nil, &stats)
	if stats["gamesPlayed"] != float64(1) || stats["gamesCompleted"] != float64(1) || stats["wordsFound"] != float64(len(g.Words)) {
		t.Errorf("stats = %v", stats)
	}

	var mine []history.Row
	c.do(http.MethodGet, "/games/mine", nil, &mine)
	if len(mine) != 1 || mine[0].ID != g.ID || mine[0].Status != history.StatusCompleted {
		t.Errorf("games/mine = %+v", mine)
	}

	c.do(http.MethodPost, "/auth/logout", nil, nil)
	if code := c.do(http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Errorf("me after logout: %d", code)
	}
	if code := c.do(http.MethodPost, "/auth/login", map[string]string{"username": "gabi", "password": "nope-nope"}, nil); code != http.StatusUnauthorized {
		t.Errorf("bad login: %d", code)
	}
	var me map[string]string
	c.do(http.MethodPost, "/auth/login", creds, nil)
	c.do(http.MethodGet, "/auth/me", nil, &me)
	if me["username"] != "gabi" {
		t.Errorf("me = %v", me)
	}
}

func TestReplaceAbandonsGame(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodPost, "/auth/signup", map[string]string{"username": "hugo", "password": "password123"}, nil)

	var first, second gameRes
	c.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "hard"}, &first)
	c.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "easy", "replace": first.ID}, &second)

	if code := c.do(http.MethodGet, "/game/"+first.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("replaced game still live: %d", code)
	}
	var mine []history.Row
	c.do(http.MethodGet, "/games/mine", nil, &mine)
	statuses := map[string]string{}
	for _, r := range mine {
		statuses[r.ID] = r.Status
	}
	want := map[string]string{first.ID: history.StatusAbandoned, second.ID: history.StatusPlaying}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Errorf("statuses (-want +got):\n%s", diff)
	}
}

func TestTipPreference(t *testing.T) {
	c := newClient(t, newTestServer(t))
	var tip tipRes
	c.do(http.MethodGet, "/prefs/tip", nil, &tip)
	if tip.Shown || tip.Text == "" {
		t.Fatalf("fresh tip: %+v", tip)
	}
	c.do(http.MethodPost, "/prefs/tip", nil, &tip)
	c.do(http.MethodGet, "/prefs/tip", nil, &tip)
	if !tip.Shown {
		t.Error("tip not persisted for guest")
	}
	c.do(http.MethodPost, "/prefs/tip", map[string]bool{"shown": false}, &tip)
	if tip.Shown {
		t.Error("tip not reset")
	}
}

func TestGamesBelongToTheirOwner(t *testing.T) {
	ts := newTestServer(t)
	alice, mallory := newClient(t, ts), newClient(t, ts)

	var g, other gameRes
	alice.do(http.MethodPost, "/game/new", map[string]string{"difficulty": "easy"}, &g)
	if code := mallory.do(http.MethodPost, "/game/new", map[string]string{"replace": g.ID}, &other); code != http.StatusOK {
		t.Fatalf("new game: %d", code)
	}
	if code := alice.do(http.MethodGet, "/game/"+g.ID, nil, nil); code != http.StatusOK {
		t.Fatalf("game dropped by another player's replace: %d", code)
	}

	path := locate(g.Grid, g.Words[0])
	for _, req := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/game/" + g.ID, nil},
		{http.MethodPost, "/game/" + g.ID + "/select", map[string]int{"row": path[0].Row, "col": path[0].Col}},
		{http.MethodPost, "/game/" + g.ID + "/clear", nil},
		{http.MethodPost, "/game/" + g.ID + "/confirm", nil},
	} {
		if code := mallory.do(req.method, req.path, req.body, nil); code != http.StatusNotFound {
			t.Errorf("%s %s by another player: %d", req.method, req.path, code)
		}
	}

	alice.selectPath(g.ID, path)
	var conf confirmRes
	alice.do(http.MethodPost, "/game/"+g.ID+"/confirm", nil, &conf)
	if conf.Result != game.OutcomeFound {
		t.Errorf("owner confirm: %+v", conf)
	}
}

func TestReplaceKeepsDailyClock(t *testing.T) {
	c := newClient(t, newTestServer(t))

	var d dailyNewRes
	c.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &d)
	if code := c.do(http.MethodPost, "/game/new", map[string]string{"replace": d.GameID}, nil); code != http.StatusOK {
		t.Fatalf("new game: %d", code)
	}
	if code := c.do(http.MethodGet, "/game/"+d.GameID, nil, nil); code != http.StatusOK {
		t.Errorf("daily game dropped by replace: %d", code)
	}

	var again dailyNewRes
	c.do(http.MethodPost, "/daily/new", map[string]string{"difficulty": "easy"}, &again)
	if again.GameID != d.GameID {
		t.Errorf("daily restarted: %s != %s", again.GameID, d.GameID)
	}
}
