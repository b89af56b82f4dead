// Package syncqueue is the outbound remote-sync path of the journal.
//
// A Dispatcher records each entry mutation in the persisted outbox and hands
// it to a ShardExecutor. The executor hashes the entry id onto a shard so
// operations for one entry reach the remote in order, while different
// entries sync in parallel. Failed calls are retried with exponential
// backoff; operations that give up stay in the outbox until the Sweeper or
// a startup Redrive resubmits them.
//
// Nothing here reports back to the caller that mutated the entry. Failures
// are wrapped in common.ErrSyncFailure, logged and counted.
package syncqueue
