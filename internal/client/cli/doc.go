// Package cli provides the interactive diarykeeper command-line client.
//
// It wires configuration, local storage, the sync queue and the remote mirror
// client, then runs a REPL over the entry store. Typical flow: open today's
// entry, write, record feelings and tags, and browse statistics. Writes are
// local first; the prompt shows whether the mirror is reachable.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command methods for details.
package cli
