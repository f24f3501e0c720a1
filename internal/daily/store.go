package daily

import (
	"context"
	"database/sql"
)

// Result is one owner's completed daily puzzle.
type Result struct {
	OwnerID    string `json:"ownerId"`
	Date       string `json:"date"`
	Difficulty string `json:"difficulty"`
	WordsFound int    `json:"wordsFound"`
	ElapsedMs  int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner finished the daily for date and difficulty.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date, difficulty string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=? AND difficulty=?",
		ownerID, date, difficulty,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r; a second result for the same owner/date/difficulty is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, difficulty, words_found, elapsed_ms)
		VALUES(?,?,?,?,?)`, r.OwnerID, r.Date, r.Difficulty, r.WordsFound, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	OwnerID   string `json:"ownerId"`
	Username  string `json:"username,omitempty"` // empty for guests
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard lists the fastest completions for date and difficulty.
func (s *Store) Leaderboard(ctx context.Context, date, difficulty string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.owner_id, COALESCE(u.username, ''), d.elapsed_ms
		FROM daily_results d
		LEFT JOIN users u ON u.id = d.owner_id
		WHERE d.date=? AND d.difficulty=?
		ORDER BY d.elapsed_ms ASC, d.created_at ASC
		LIMIT ?`, date, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Username, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
