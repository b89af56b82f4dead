package outbox

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/diarykeeper/internal/client/migrations"
	"github.com/dmitrijs2005/diarykeeper/internal/common"
	"github.com/dmitrijs2005/diarykeeper/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, dbx.Migrate(context.Background(), db, migrations.Migrations, "sqlite3"))
	return NewSQLiteRepository(db)
}

func TestEnqueuePendingComplete(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	a := &Item{Op: "save", EntryID: "e1", Payload: []byte(`{"id":"e1"}`)}
	b := &Item{Op: "delete", EntryID: "e1"}
	require.NoError(t, r.Enqueue(ctx, a))
	require.NoError(t, r.Enqueue(ctx, b))
	assert.Less(t, a.Seq, b.Seq)
	assert.False(t, a.CreatedAt.IsZero())

	items, err := r.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "save", items[0].Op)
	assert.Equal(t, []byte(`{"id":"e1"}`), items[0].Payload)
	assert.Equal(t, "delete", items[1].Op)

	require.NoError(t, r.Complete(ctx, a.Seq))
	items, err = r.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.Seq, items[0].Seq)

	require.ErrorIs(t, r.Complete(ctx, a.Seq), common.ErrNotFound)
}

func TestFailCountsAttempts(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	it := &Item{Op: "update", EntryID: "e2"}
	require.NoError(t, r.Enqueue(ctx, it))
	require.NoError(t, r.Fail(ctx, it.Seq, "remote unavailable"))
	require.NoError(t, r.Fail(ctx, it.Seq, "remote unavailable again"))

	items, err := r.Pending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Attempts)
	assert.Equal(t, "remote unavailable again", items[0].LastError)

	require.ErrorIs(t, r.Fail(ctx, 9999, "x"), common.ErrNotFound)
}

func TestPendingRespectsLimit(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Enqueue(ctx, &Item{Op: "save", EntryID: "e"}))
	}
	items, err := r.Pending(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}
