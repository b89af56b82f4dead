// Package services holds the client's application services: the EntryStore
// that owns the diary collection for a session, and the StatusService that
// watches whether the remote mirror is reachable.
package services
