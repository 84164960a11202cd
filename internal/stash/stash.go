// Package stash holds ephemeral per-session state between the two legs
// of a detect-then-select feature. Entries expire on TTL; a phase-1 call
// fully replaces whatever the session had stashed before.
package stash

import "context"

type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}
