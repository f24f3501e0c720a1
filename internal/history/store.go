// Package history persists one row per game (owner, difficulty, progress,
// status) so players can list recent games and accumulate stats.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/wordsearch/apps/go-server/internal/auth"
)

// Game statuses.
const (
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// Owner identifies who a game belongs to: a user or an anonymous cookie.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) clause() (string, any) {
	if o.UserID != "" {
		return `user_id=?`, o.UserID
	}
	return `anonymous_id=?`, o.AnonID
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Row is one game as listed by /games/mine.
type Row struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
	WordsTotal int    `json:"wordsTotal"`
	WordsFound int    `json:"wordsFound"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Start inserts the row for a newly created game.
func (s *Store) Start(ctx context.Context, o Owner, r Row) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, difficulty, category, words_total, status, started_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		r.ID, nullable(o.UserID), nullable(o.AnonID), r.Mode, r.Difficulty, r.Category, r.WordsTotal,
		StatusPlaying, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Progress records the found count; on completion it also closes the game and,
// for registered owners, bumps the user's stats in the same transaction.
func (s *Store) Progress(ctx context.Context, o Owner, id string, wordsFound int, completed bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := o.clause()
	if !completed {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET words_found=? WHERE id=? AND `+where, wordsFound, id, arg); err != nil {
			return err
		}
		return tx.Commit()
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE games SET words_found=?, status=?, finished_at=? WHERE id=? AND status=? AND `+where,
		wordsFound, StatusCompleted, time.Now().UTC().Format(time.RFC3339), id, StatusPlaying, arg)
	if err != nil {
		return err
	}
	// Only the transition into completed counts towards stats.
	if n, _ := res.RowsAffected(); n == 1 && o.UserID != "" {
		if err := auth.BumpStats(ctx, tx, o.UserID, true, wordsFound); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Abandon closes a game that was replaced before completion.
func (s *Store) Abandon(ctx context.Context, o Owner, id string, wordsFound int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	where, arg := o.clause()
	res, err := tx.ExecContext(ctx,
		`UPDATE games SET words_found=?, status=?, finished_at=? WHERE id=? AND status=? AND `+where,
		wordsFound, StatusAbandoned, time.Now().UTC().Format(time.RFC3339), id, StatusPlaying, arg)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 1 && o.UserID != "" {
		if err := auth.BumpStats(ctx, tx, o.UserID, false, wordsFound); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Claim transfers anonymous games to a user account after signup/login.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

// ListByUser returns the user's most recent games, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, difficulty, category, words_total, words_found, status, started_at, COALESCE(finished_at,'')
		FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Mode, &r.Difficulty, &r.Category, &r.WordsTotal, &r.WordsFound,
			&r.Status, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
