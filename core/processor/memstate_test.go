package processor_test

import "context"

// memState is a minimal state.Context backed by a plain map, standing in
// for the platform's get_state/set_state round trip in tests.
type memState struct {
	data map[string][]byte
}

func newMemState() *memState { return &memState{data: map[string][]byte{}} }

func (m *memState) GetState(_ context.Context, addresses []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(addresses))
	for _, a := range addresses {
		if v, ok := m.data[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (m *memState) SetState(_ context.Context, entries map[string][]byte) error {
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}
