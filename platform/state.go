package platform

import (
	"context"
	"encoding/base64"
	"fmt"
)

// GetState implements StateClient (and, transitively, core/state.Context)
// against the get_state JSON-RPC method. Values travel base64-encoded
// since container bytes are arbitrary binary.
func (c *Client) GetState(ctx context.Context, addresses []string) (map[string][]byte, error) {
	var encoded map[string]string
	if err := c.call(ctx, "get_state", []any{addresses}, &encoded); err != nil {
		return nil, fmt.Errorf("platform: get_state: %w", err)
	}
	out := make(map[string][]byte, len(encoded))
	for addr, b64 := range encoded {
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("platform: get_state: invalid encoding for %s: %w", addr, err)
		}
		out[addr] = raw
	}
	return out, nil
}

// SetState is the write counterpart against the set_state JSON-RPC
// method; cmd/processor hands the Client to Handler.Apply as the
// state.Context its entity writes go through.
func (c *Client) SetState(ctx context.Context, entries map[string][]byte) error {
	encoded := make(map[string]string, len(entries))
	for addr, raw := range entries {
		encoded[addr] = base64.StdEncoding.EncodeToString(raw)
	}
	return c.call(ctx, "set_state", []any{encoded}, nil)
}
