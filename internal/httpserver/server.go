// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the word search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): /game/new, /game/{id}, select/clear/confirm.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth, profile/stats and preference endpoints: see routes_auth.go.
//   - Best-effort persistence of game history and user stats.
//
// Notes:
//   - Live sessions (grid, selection, found words) stay in the in-memory store;
//     SQLite only keeps history rows, daily results and preferences.
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes can still run for guests (keyed by an anonymous cookie).

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/auth"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/config"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/game"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/history"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/messages"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/prefs"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/puzzle"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/store"
	"github.com/robalobadob/wordsearch/apps/go-server/internal/words"
)

// Server bundles router, in-memory session store, and DB-backed stores.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	db      *sql.DB
	bank    *words.Bank
	auth    *auth.Service
	history *history.Store
	prefs   *prefs.Store
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
// The word bank must already be initialised (words.Init).
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		db:    db,
		bank:  words.Default(),
		auth: &auth.Service{
			DB:         db,
			Secret:     []byte(cfg.JWTSecret),
			TTL:        cfg.JWTTTL,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production,
		},
		history: history.NewStore(db),
		prefs:   prefs.NewStore(db),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog request log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFor(cfg.ClientOrigin))       // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordsearch-go","endpoints":["/health","POST /game/new","POST /game/{id}/select","POST /game/{id}/confirm","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	// Debug: words per category
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(s.bank.Stats())
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.auth.Optional)
		r.Post("/game/new", s.handleNewGame)
		r.Route("/game/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/select", s.handleSelect)
			r.Post("/clear", s.handleClear)
			r.Post("/confirm", s.handleConfirm)
		})

		// Daily puzzle: OPTIONAL AUTH (guests can play; results persisted on completion)
		s.mountDaily(r)

		// Tip preference is kept for guests too
		r.Get("/prefs/tip", s.handleGetTip)
		r.Post("/prefs/tip", s.handleSetTip)
	})

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one debug line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ helpers ------------------------------------

// owner resolves the history owner of the current request.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) history.Owner {
	id, anon := s.auth.OwnerID(w, r)
	if anon {
		return history.Owner{AnonID: id}
	}
	return history.Owner{UserID: id}
}

// ownerTag is the session owner key for o.
func ownerTag(o history.Owner) string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "anon:" + o.AnonID
}

// owns reports whether the request owner me may act on sess and returns the
// owner its history is kept under. A guest session is handed to the user
// who logged in with the same anonymous cookie, like claimAnon does for the
// history rows.
func (s *Server) owns(r *http.Request, me history.Owner, sess *game.Session) (history.Owner, bool) {
	tag := sess.Owner()
	if tag == ownerTag(me) {
		return me, true
	}
	if anon := auth.PeekAnonID(r); me.UserID != "" && anon != "" && tag == ownerTag(history.Owner{AnonID: anon}) {
		sess.SetOwner(ownerTag(me))
		return me, true
	}
	return history.Owner{}, false
}

// catalog picks the message language: ?lang=, then Accept-Language.
func catalog(r *http.Request, lang string) *messages.Catalog {
	if lang == "" {
		lang = r.URL.Query().Get("lang")
	}
	if lang == "" {
		lang, _, _ = strings.Cut(r.Header.Get("Accept-Language"), ",")
	}
	return messages.For(strings.TrimSpace(lang))
}

// classicGenerator builds puzzles from a fresh random seed each time.
func (s *Server) classicGenerator(d puzzle.Difficulty) *puzzle.Puzzle {
	return puzzle.Generate(s.bank, d, puzzle.NewRand(rand.Uint64()))
}

// session loads the caller's session named by the {id} URL param, or writes
// a 404 when it is missing or belongs to someone else.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*game.Session, history.Owner, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, history.Owner{}, false
	}
	owner, ok := s.owns(r, s.owner(w, r), sess)
	if !ok {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil, history.Owner{}, false
	}
	return sess, owner, true
}

// ------------------------------ GAME ---------------------------------------

// newGameReq payload for POST /game/new.
type newGameReq struct {
	Difficulty string `json:"difficulty"` // easy | medium | hard (default easy)
	Lang       string `json:"lang"`
	Replace    string `json:"replace"` // optional gameId of the game being abandoned
}

// gameRes is a session snapshot plus the progress line for display.
type gameRes struct {
	game.Snapshot
	Progress string `json:"progress"`
}

func snapshotRes(sess *game.Session, cat *messages.Catalog) gameRes {
	snap := sess.Snapshot()
	return gameRes{Snapshot: snap, Progress: cat.Progress(len(snap.Found), len(snap.Words))}
}

// handleNewGame creates a new in-memory session and persists a DB "owner" row
// (either user_id or anonymous_id) for history/stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	d, err := puzzle.ParseDifficulty(req.Difficulty)
	if err != nil {
		http.Error(w, `{"error":"bad_difficulty"}`, http.StatusBadRequest)
		return
	}
	owner := s.owner(w, r)

	if req.Replace != "" {
		s.abandon(r, owner, req.Replace)
	}

	sess := game.New(s.classicGenerator(d), s.classicGenerator)
	sess.SetOwner(ownerTag(owner))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.startHistory(r, owner, sess)

	_ = json.NewEncoder(w).Encode(snapshotRes(sess, catalog(r, req.Lang)))
}

// abandon closes the caller's unfinished game id. Games of other owners are
// left alone, and so are daily games: their clock runs until completion.
func (s *Server) abandon(r *http.Request, me history.Owner, id string) {
	old, err := s.store.Get(r.Context(), id)
	if err != nil || old.Mode == game.ModeDaily || old.Complete() {
		return
	}
	owner, ok := s.owns(r, me, old)
	if !ok {
		log.Debug().Str("gameId", id).Msg("replace of foreign game ignored")
		return
	}
	found, _ := old.Progress()
	if err := s.history.Abandon(r.Context(), owner, old.ID, found); err != nil {
		log.Warn().Err(err).Str("gameId", old.ID).Msg("abandon game")
	}
	_ = s.store.Delete(r.Context(), old.ID)
}

// startHistory persists the owner row for sess; failures are logged only.
func (s *Server) startHistory(r *http.Request, owner history.Owner, sess *game.Session) {
	p := sess.Puzzle()
	err := s.history.Start(r.Context(), owner, history.Row{
		ID:         sess.ID,
		Mode:       sess.Mode,
		Difficulty: string(p.Difficulty),
		Category:   p.Category,
		WordsTotal: len(p.Words),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("insert game row")
	}
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(snapshotRes(sess, catalog(r, "")))
}

// selectReq/Res payloads for POST /game/{id}/select.
type selectReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}
type selectRes struct {
	Changed     bool      `json:"changed"`
	Selection   game.Path `json:"selection"`
	CurrentWord string    `json:"currentWord"`
	Message     string    `json:"message,omitempty"`
}

// handleSelect applies one cell click to the selection.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	changed, err := sess.SelectCell(*req.Row, *req.Col)
	if errors.Is(err, game.ErrOutOfBounds) {
		http.Error(w, `{"error":"out_of_bounds"}`, http.StatusBadRequest)
		return
	}
	snap := sess.Snapshot()
	res := selectRes{Changed: changed, Selection: snap.Selection, CurrentWord: snap.CurrentWord}
	if snap.CurrentWord != "" {
		res.Message = catalog(r, "").Selected(snap.CurrentWord)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleClear drops the in-progress selection.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearSelection()
	_ = json.NewEncoder(w).Encode(selectRes{Changed: true, Selection: game.Path{}})
}

// confirmRes is returned by POST /game/{id}/confirm.
type confirmRes struct {
	Result       game.Outcome `json:"result"` // found | not_found | too_short
	Word         string       `json:"word,omitempty"`
	Complete     bool         `json:"complete"`
	Message      string       `json:"message"`
	ClearAfterMs int64        `json:"clearAfterMs"`
	Found        []string     `json:"found"`
	Progress     string       `json:"progress"`
	Selection    game.Path    `json:"selection"`
}

// handleConfirm checks the selection, persists progress (best effort) and,
// for finished daily games, records the result for the session owner.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	sess, owner, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Confirm()
	cat := catalog(r, "")
	snap := sess.Snapshot()

	if err == nil {
		if perr := s.history.Progress(r.Context(), owner, sess.ID, len(snap.Found), res.Complete); perr != nil {
			log.Warn().Err(perr).Str("gameId", sess.ID).Msg("update game row")
		}
		if res.Complete && sess.Mode == game.ModeDaily {
			s.daily.record(r, owner, sess)
		}
	}

	var clearAfter int64
	if game.Transient(res, err) {
		clearAfter = game.MessageTTL.Milliseconds()
	}
	_ = json.NewEncoder(w).Encode(confirmRes{
		Result:       game.OutcomeOf(err),
		Word:         res.Word,
		Complete:     snap.Complete,
		Message:      cat.Result(res, err),
		ClearAfterMs: clearAfter, // 0 keeps the message
		Found:        snap.Found,
		Progress:     cat.Progress(len(snap.Found), len(snap.Words)),
		Selection:    snap.Selection,
	})
}
