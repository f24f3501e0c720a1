// apps/go-server/internal/auth/auth.go
//
// Accounts and tokens.
// Responsibilities:
//   - User CRUD against the users table (bcrypt-hashed passwords).
//   - HS256 JWT signing/verification with a configurable lifetime.
//   - Auth cookie helpers and bearer/cookie token extraction.
//   - Per-user stats counters (games played/completed, words found).

package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrInvalidToken  = errors.New("invalid token")
)

// User matches the users table shape.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	GamesPlayed    int       `json:"gamesPlayed"`
	GamesCompleted int       `json:"gamesCompleted"`
	WordsFound     int       `json:"wordsFound"`
}

// Service bundles the DB handle and token settings.
type Service struct {
	DB         *sql.DB
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool // production: Secure + SameSite=None cookies
}

// CreateUser validates input, checks uniqueness, hashes the password and inserts the user.
func (s *Service) CreateUser(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           GenID(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

const userColumns = `id, username, password_hash, created_at, games_played, games_completed, words_found`

// FindByUsername loads a user (case-insensitive) or returns sql.ErrNoRows.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindByID loads a user or returns sql.ErrNoRows.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.GamesCompleted, &u.WordsFound); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// Login returns the user when the password matches.
func (s *Service) Login(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil || !CheckPassword(u.PasswordHash, pw) {
		return nil, errors.New("invalid username or password")
	}
	return u, nil
}

// BumpStats updates a user's counters inside tx once a game ends.
func BumpStats(ctx context.Context, tx *sql.Tx, userID string, completed bool, wordsFound int) error {
	done := 0
	if completed {
		done = 1
	}
	_, err := tx.ExecContext(ctx, `UPDATE users
		SET games_played = games_played + 1,
		    games_completed = games_completed + ?,
		    words_found = words_found + ?
		WHERE id=?`, done, wordsFound, userID)
	return err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUsername trims whitespace.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// GenID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ------------------------------ JWT & cookies ------------------------------

// SignJWT creates an HS256 JWT carrying id/username.
func (s *Service) SignJWT(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.Secret)
	return ss, exp, err
}

// ParseJWT verifies tok and returns its id/username claims.
func (s *Service) ParseJWT(tok string) (id, username string, err error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", "", ErrInvalidToken
	}
	id, _ = claims["id"].(string)
	username, _ = claims["username"].(string)
	if id == "" || username == "" {
		return "", "", ErrInvalidToken
	}
	return id, username, nil
}

func (s *Service) sameSite() http.SameSite {
	if s.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetCookie writes the auth token cookie.
func (s *Service) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// ClearCookie deletes the auth token cookie.
func (s *Service) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// TokenFromRequest extracts a bearer token from the Authorization header or the auth cookie.
func (s *Service) TokenFromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.CookieName); err == nil {
		return c.Value
	}
	return ""
}
