package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one finished daily run.
type Result struct {
	OwnerID string
	Date    string
	Score   int
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?",
		ownerID, date,
	).Scan(&cnt)
	if err != nil {
		return false, fmt.Errorf("daily lookup: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult records a run; a second result for the same owner and date
// is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, score) VALUES(?,?,?)`,
		r.OwnerID, r.Date, r.Score,
	)
	if err != nil {
		return fmt.Errorf("daily insert: %w", err)
	}
	return nil
}

// GuestName labels leaderboard rows of owners without an account.
const GuestName = "guest"

// LBRow is one public leaderboard entry. Owner IDs are never exposed: a guest
// owner ID is the guest's only credential.
type LBRow struct {
	Name  string `json:"name"`
	Guest bool   `json:"guest"`
	Score int    `json:"score"`
}

// Leaderboard returns the best scores for date, earliest first on ties.
// Accounts are listed by username, everyone else as GuestName.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.username, d.score
         FROM daily_results d
         LEFT JOIN users u ON u.id = d.owner_id
         WHERE d.date=?
         ORDER BY d.score DESC, d.created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily leaderboard: %w", err)
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var (
			name sql.NullString
			r    LBRow
		)
		if err := rows.Scan(&name, &r.Score); err != nil {
			return nil, err
		}
		r.Name, r.Guest = name.String, !name.Valid
		if r.Guest {
			r.Name = GuestName
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
