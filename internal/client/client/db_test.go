package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/models"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/outbox"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "journal.db"), time.UTC)
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.DB.PingContext(ctx))
	for _, name := range []string{"goose_db_version", "entries", "sync_outbox"} {
		require.True(t, tableExists(t, repos.DB, name), name)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))
	require.True(t, tableExists(t, db, "entries"))
}

func TestInitDatabase_ReposAreUsable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos, err := InitDatabase(ctx, ":memory:", time.UTC)
	require.NoError(t, err)
	defer repos.Close()

	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	e := models.NewEntry(now, now)
	require.NoError(t, repos.Entries.Add(ctx, e))

	all, err := repos.Entries.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, e.ID, all[0].ID)

	item := &outbox.Item{Op: "save", EntryID: e.ID, Payload: []byte(`{}`)}
	require.NoError(t, repos.Outbox.Enqueue(ctx, item))
	pending, err := repos.Outbox.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestRepositories_CloseNilDB(t *testing.T) {
	require.NoError(t, (&Repositories{}).Close())
}

func TestInitDatabase_CreatesDataDirectory(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "nested", "dir", "journal.db")
	repos, err := InitDatabase(context.Background(), dsn, time.UTC)
	require.NoError(t, err)
	defer repos.Close()

	require.True(t, tableExists(t, repos.DB, "entries"))
}
