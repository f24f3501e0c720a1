// Package prefs stores per-owner UI preferences. Today that is only whether
// the how-to-play tip has been shown.
package prefs

import (
	"context"
	"database/sql"
	"errors"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// TipShown reports whether owner dismissed the tip. Unknown owners have not.
func (s *Store) TipShown(ctx context.Context, ownerID string) (bool, error) {
	var shown bool
	err := s.db.QueryRowContext(ctx, `SELECT tip_shown FROM preferences WHERE owner_id=?`, ownerID).Scan(&shown)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return shown, err
}

// SetTipShown upserts the flag.
func (s *Store) SetTipShown(ctx context.Context, ownerID string, shown bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (owner_id, tip_shown) VALUES (?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET tip_shown=excluded.tip_shown`, ownerID, shown)
	return err
}
