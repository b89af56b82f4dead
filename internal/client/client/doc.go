// Package client contains the client-side plumbing of the journal: the
// mirror client and the local database bootstrap.
//
// # Overview
//
//  1. Remote is the transport-agnostic contract for mirroring entry writes:
//     SaveEntry, UpdateEntry, DeleteEntry and Ping.
//  2. GRPCClient implements Remote over the mirror gRPC service. An
//     interceptor attaches a device access token, minted locally from the
//     shared secret, and re-mints it once when the server reports expiry.
//     gRPC status codes are mapped to sentinels from internal/common.
//  3. InitDatabase opens the local SQLite file and applies the embedded
//     goose migrations.
//
// # Error Handling
//
// Remote failures surface as common.ErrUnauthorized, common.ErrUnavailable,
// common.ErrInvalidEntry, common.ErrNotFound or a wrapped rpc error. Callers
// match with errors.Is.
package client
