package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/binword/assets"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := assets.Migrations()
	require.NoError(t, err)
	require.NoError(t, Migrate(db, migrations))
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	migrations, err := assets.Migrations()
	require.NoError(t, err)

	require.NoError(t, Migrate(db, migrations))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate_BadSQLRollsBack(t *testing.T) {
	db := newTestDB(t)
	bad := fstest.MapFS{
		"002_bad.sql": {Data: []byte("CREATE TABLE broken (;")},
	}

	err := Migrate(db, bad)
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='002_bad.sql'`).Scan(&n))
	assert.Zero(t, n)
}

func TestRecord_FillsDefaults(t *testing.T) {
	s := NewStore(newTestDB(t))

	r, err := s.Record(context.Background(), Result{
		SessionID: "sid", Username: "alice", Difficulty: "easy", Points: 4, Rounds: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.FinishedAt.IsZero())
}

func TestLeaderboard_Ordering(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newTestDB(t))
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	rows := []Result{
		{Username: "low", Difficulty: "easy", Points: 1, FinishedAt: base},
		{Username: "top", Difficulty: "hard", Points: 50, FinishedAt: base},
		{Username: "tie-more-wrong", Difficulty: "easy", Points: 10, WrongCount: 2, FinishedAt: base},
		{Username: "tie-later", Difficulty: "easy", Points: 10, WrongCount: 1, TotalAttempts: 3, FinishedAt: base.Add(time.Minute)},
		{Username: "tie-earlier", Difficulty: "easy", Points: 10, WrongCount: 1, TotalAttempts: 3, FinishedAt: base.Add(time.Millisecond)},
		{Username: "tie-fewer-attempts", Difficulty: "easy", Points: 10, WrongCount: 1, TotalAttempts: 1, FinishedAt: base},
	}
	for _, r := range rows {
		r.SessionID = "sid-" + r.Username
		r.Rounds = 5
		_, err := s.Record(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.Leaderboard(ctx, "", 0)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.Username
	}
	assert.Equal(t, []string{"top", "tie-fewer-attempts", "tie-earlier", "tie-later", "tie-more-wrong", "low"}, names)
	assert.True(t, all[2].FinishedAt.Equal(base.Add(time.Millisecond)))

	easy, err := s.Leaderboard(ctx, "easy", 2)
	require.NoError(t, err)
	require.Len(t, easy, 2)
	assert.Equal(t, "tie-fewer-attempts", easy[0].Username)
	assert.Equal(t, "tie-earlier", easy[1].Username)
}

func TestLeaderboard_Empty(t *testing.T) {
	s := NewStore(newTestDB(t))
	out, err := s.Leaderboard(context.Background(), "medium", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLeaderboard_MalformedFinishedAt(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Exec(`
        INSERT INTO games (id, session_id, username, difficulty, points, total_attempts, wrong_count, rounds, finished_at)
        VALUES ('g1', 'sid', 'alice', 'easy', 3, 0, 0, 5, 'yesterday')`)
	require.NoError(t, err)

	_, err = NewStore(db).Leaderboard(context.Background(), "", 10)
	assert.ErrorContains(t, err, "finished_at")
}
