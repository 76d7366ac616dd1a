package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLimit = 20

	// Fixed width so finished_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Result is one finished game.
type Result struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"-"`
	Username      string    `json:"username"`
	Difficulty    string    `json:"difficulty"`
	Points        int       `json:"points"`
	TotalAttempts int       `json:"totalAttempts"`
	WrongCount    int       `json:"wrongCount"`
	Rounds        int       `json:"rounds"`
	FinishedAt    time.Time `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r, filling ID and FinishedAt when unset.
func (s *Store) Record(ctx context.Context, r Result) (Result, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games
            (id, session_id, username, difficulty, points, total_attempts, wrong_count, rounds, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Username, r.Difficulty, r.Points,
		r.TotalAttempts, r.WrongCount, r.Rounds, r.FinishedAt.UTC().Format(timeLayout),
	)
	return r, err
}

// Leaderboard returns the best games, optionally restricted to one
// difficulty. Ordered by points DESC, then wrong words, then attempts,
// then finish time. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, difficulty string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, username, difficulty, points, total_attempts, wrong_count, rounds, finished_at
        FROM games
        WHERE (? = '' OR difficulty = ?)
        ORDER BY points DESC, wrong_count ASC, total_attempts ASC, finished_at ASC
        LIMIT ?`, difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r        Result
			finished string
		)
		if err := rows.Scan(&r.ID, &r.Username, &r.Difficulty, &r.Points,
			&r.TotalAttempts, &r.WrongCount, &r.Rounds, &finished); err != nil {
			return nil, err
		}
		at, err := time.Parse(timeLayout, finished)
		if err != nil {
			return nil, fmt.Errorf("game %s: finished_at %q: %w", r.ID, finished, err)
		}
		r.FinishedAt = at
		out = append(out, r)
	}
	return out, rows.Err()
}
