package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/client/migrations"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/entries"
	"github.com/dmitrijs2005/diarykeeper/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/diarykeeper/internal/dbx"
	"github.com/dmitrijs2005/diarykeeper/internal/filex"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Entries entries.Repository
	Outbox  outbox.Repository
	DB      *sql.DB
}

func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, migrations.Migrations, "sqlite3")
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
// Entries default to the SQLite repository; callers may swap Entries for
// another backend while keeping the outbox in SQLite.
func InitDatabase(ctx context.Context, dsn string, loc *time.Location) (*Repositories, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection also keeps :memory: alive
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}

	return &Repositories{
		Entries: entries.NewSQLiteRepository(db, loc),
		Outbox:  outbox.NewSQLiteRepository(db),
		DB:      db,
	}, nil
}
