// Package kv is the persistence boundary of the bookkeeping core. Every
// collection (records, pick lists, notifications) is one JSON blob stored
// under a fixed key, so the contract is deliberately tiny: string in,
// string out. Backends: postgres, sqlite (default) and an in-memory store
// used by tests and demo runs.
package kv

import "context"

// Store is a durable key→string mapping. Get reports presence through the
// second return value; a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
