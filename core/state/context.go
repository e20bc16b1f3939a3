// Package state is the thin layer between the transaction processor's
// business logic and the platform's flat key/value ledger: it loads the
// container bytes at an address, decodes them, and re-encodes/stores the
// mutated container, hiding the get_state/set_state round trip behind
// typed helpers for each entity kind.
package state

import "context"

// Context mirrors the platform SDK's transaction context: batched,
// address-keyed reads and writes against ledger state. Implementations
// are expected to apply reads and writes within a single transaction's
// scope only — no cross-transaction caching.
type Context interface {
	GetState(ctx context.Context, addresses []string) (map[string][]byte, error)
	SetState(ctx context.Context, entries map[string][]byte) error
}
