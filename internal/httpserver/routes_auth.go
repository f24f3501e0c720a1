package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/auth"
)

// ------------------------------- AUTH --------------------------------------

// credentialsReq is the payload for signup/login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me, /games/mine).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.Group(func(r chi.Router) {
		r.Use(s.auth.Require)

		// Current user
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(auth.FromContext(r.Context()))
		})

		// Stats
		r.Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
			me := auth.FromContext(r.Context())
			u, err := s.auth.FindByID(r.Context(), me.ID)
			if err != nil {
				http.Error(w, `{"error":"not_found"}`, http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":             u.ID,
				"gamesPlayed":    u.GamesPlayed,
				"gamesCompleted": u.GamesCompleted,
				"wordsFound":     u.WordsFound,
			})
		})

		// Recent games
		r.Get("/games/mine", func(w http.ResponseWriter, r *http.Request) {
			me := auth.FromContext(r.Context())
			rows, err := s.history.ListByUser(r.Context(), me.ID, 50)
			if err != nil {
				http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(rows)
		})
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.auth.CreateUser(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			http.Error(w, `{"error":"Username taken"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	// Attach any anonymous games to the new account
	s.claimAnon(w, r, u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		http.Error(w, `{"error":"Invalid username or password"}`, http.StatusUnauthorized)
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnon(w, r, u.ID)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) issueToken(w http.ResponseWriter, u *auth.User) bool {
	tok, exp, err := s.auth.SignJWT(u.ID, u.Username)
	if err != nil {
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return false
	}
	s.auth.SetCookie(w, tok, exp)
	return true
}

// claimAnon transfers the guest's games to userID after auth.
func (s *Server) claimAnon(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.history.Claim(r.Context(), s.auth.AnonID(w, r), userID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
}

// ------------------------------- PREFS -------------------------------------

type tipRes struct {
	Shown bool   `json:"shown"`
	Text  string `json:"text"`
}

// handleGetTip reports whether the how-to-play tip was already shown to the
// owner, along with its localized text.
func (s *Server) handleGetTip(w http.ResponseWriter, r *http.Request) {
	id, _ := s.auth.OwnerID(w, r)
	shown, err := s.prefs.TipShown(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(tipRes{Shown: shown, Text: catalog(r, "").Tip()})
}

// handleSetTip stores the flag; an empty body marks the tip as shown.
func (s *Server) handleSetTip(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Shown *bool `json:"shown"`
	}{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	shown := body.Shown == nil || *body.Shown

	id, _ := s.auth.OwnerID(w, r)
	if err := s.prefs.SetTipShown(r.Context(), id, shown); err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(tipRes{Shown: shown, Text: catalog(r, "").Tip()})
}
