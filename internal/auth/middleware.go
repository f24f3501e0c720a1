package auth

import (
	"context"
	"net/http"
	"time"
)

// Identity is placed into the request context by the auth middleware.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxKey struct{}

// FromContext returns the authenticated identity, or nil for guests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}

// WithIdentity returns ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// identify resolves the request token to an existing user.
func (s *Service) identify(r *http.Request) (*Identity, error) {
	tok := s.TokenFromRequest(r)
	if tok == "" {
		return nil, ErrInvalidToken
	}
	id, username, err := s.ParseJWT(tok)
	if err != nil {
		return nil, err
	}
	// Ensure user still exists
	if _, err := s.FindByID(r.Context(), id); err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: id, Username: username}, nil
}

// Optional decorates requests with the identity when a valid token is present.
// It never rejects; guests pass through.
func (s *Service) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := s.identify(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Require enforces a valid token.
func (s *Service) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.identify(r)
		if err != nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

const anonCookieName = "wordsearch_anon"

// OwnerID returns the authenticated user ID, or a stable anonymous ID kept in
// a cookie (set on first use). Guest games, daily results and preferences are
// keyed by it.
func (s *Service) OwnerID(w http.ResponseWriter, r *http.Request) (id string, anonymous bool) {
	if me := FromContext(r.Context()); me != nil {
		return me.ID, false
	}
	return s.AnonID(w, r), true
}

// AnonID returns an existing anon cookie value or sets a new one.
func (s *Service) AnonID(w http.ResponseWriter, r *http.Request) string {
	if id := PeekAnonID(r); id != "" {
		return id
	}
	id := GenID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// PeekAnonID returns the anonymous cookie sent with r, or "" without issuing one.
func PeekAnonID(r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil {
		return c.Value
	}
	return ""
}
