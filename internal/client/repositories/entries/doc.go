// Package entries provides the local persistence layer for diary entries.
//
// # Overview
//
// Repository is the durable key-value contract the entry store writes
// through: add, update, delete by id, and bulk load. Two implementations
// exist:
//
//   - SQLiteRepository stores one row per entry over a dbx.DBTX (either
//     *sql.DB or *sql.Tx). The day column is UNIQUE, so the one-entry-per-day
//     invariant also holds at the storage level.
//   - DiskvRepository stores one JSON blob per entry in a diskv directory tree.
//
// # Serialization
//
// Days are stored as "2006-01-02" strings and timestamps as RFC 3339 with
// nanoseconds; emotions and tags are JSON arrays. On read every date is
// reconstructed in the repository's location, so a reloaded entry is
// date-equal to the one written.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db, time.Local)
//	_ = repo.Add(ctx, entry)
//	_ = repo.Update(ctx, entry)
//	all, _ := repo.GetAll(ctx)
//	_ = repo.Delete(ctx, id)
package entries
