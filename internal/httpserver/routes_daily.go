// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's puzzle for a difficulty
//   - GET  /daily/leaderboard → fastest completions for today (or a given date)
//
// Play itself goes through the regular /game/{id} endpoints; the confirm
// handler calls record() when a daily session completes.
//
// Each owner can finish a given date+difficulty once (enforced by DB UNIQUE).
// Everyone gets the same grid: the generator is seeded from date + salt.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/daily"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/game"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/history"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	sessions map[string]string // owner|date|difficulty → gameId
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// puzzleFor builds the shared puzzle for a day and difficulty.
func (d *dailyServer) puzzleFor(day time.Time, diff puzzle.Difficulty) *puzzle.Puzzle {
	seed := daily.Seed(day, d.salt, string(diff))
	return puzzle.Generate(d.srv.bank, diff, puzzle.NewRand(seed))
}

func sessionKey(owner, date string, diff puzzle.Difficulty) string {
	return owner + "|" + date + "|" + string(diff)
}

func ownerKey(o history.Owner) string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonID
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewReq struct {
	Difficulty string `json:"difficulty"`
	Lang       string `json:"lang"`
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string   `json:"gameId"`
	Date   string   `json:"date"`
	Played bool     `json:"played"`
	Game   *gameRes `json:"game,omitempty"`
}

// handleNew creates or resumes the owner's daily session for today.
// - If the owner already has a result for today → Played=true.
// - Otherwise reuse the live session or create one from the daily seed.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	diff, err := puzzle.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, `{"error":"bad_difficulty"}`, http.StatusBadRequest)
		return
	}
	owner := d.srv.owner(w, r)
	oid := ownerKey(owner)
	now := time.Now().UTC()
	date := daily.DateKey(now)
	cat := catalog(r, req.Lang)

	// Check if already played (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), oid, date, string(diff)); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	// Reuse the live session if it is still in the store.
	key := sessionKey(oid, date, diff)
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			res := snapshotRes(sess, cat)
			_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: id, Date: date, Game: &res})
			return
		}
	}

	sess := game.New(d.puzzleFor(now, diff), nil)
	sess.Mode = game.ModeDaily
	sess.Date = date
	sess.SetOwner(ownerTag(owner))
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save daily game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.sessions[key] = sess.ID
	d.srv.startHistory(r, owner, sess)

	res := snapshotRes(sess, cat)
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.ID, Date: date, Game: &res})
}

// record persists a completed daily session and forgets the live mapping.
func (d *dailyServer) record(r *http.Request, owner history.Owner, sess *game.Session) {
	oid := ownerKey(owner)
	p := sess.Puzzle()
	found, _ := sess.Progress()
	err := d.store.InsertResult(r.Context(), daily.Result{
		OwnerID:    oid,
		Date:       sess.Date,
		Difficulty: string(p.Difficulty),
		WordsFound: found,
		ElapsedMs:  int(sess.Elapsed().Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert daily result")
	}
	d.mu.Lock()
	delete(d.sessions, sessionKey(oid, sess.Date, p.Difficulty))
	d.mu.Unlock()
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date       string        `json:"date"`
	Difficulty string        `json:"difficulty"`
	Top        []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today)
// and difficulty (default easy).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	diff, err := puzzle.ParseDifficulty(r.URL.Query().Get("difficulty"))
	if err != nil {
		http.Error(w, `{"error":"bad_difficulty"}`, http.StatusBadRequest)
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, string(diff), 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Difficulty: string(diff), Top: rows})
}
