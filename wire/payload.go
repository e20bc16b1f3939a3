package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	payloadFieldAction    protowire.Number = 1
	payloadFieldBody      protowire.Number = 2
	payloadFieldTimestamp protowire.Number = 3
)

// Payload is the top-level transaction body submitted to the processor.
// Body carries the action-specific message, itself wire-encoded, so the
// processor can read Action before deciding which concrete type to
// unmarshal Body into. Timestamp is committed as part of the signed
// payload bytes rather than taken out of band, so every action's
// preconditions and the read store's projections see the same value the
// client signed over.
type Payload struct {
	Action    Action
	Body      []byte
	Timestamp uint64
}

func (p Payload) Marshal() []byte {
	var b []byte
	b = appendUint64(b, payloadFieldAction, uint64(p.Action))
	b = appendBytes(b, payloadFieldBody, p.Body)
	b = appendUint64(b, payloadFieldTimestamp, p.Timestamp)
	return b
}

func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return Payload{}, err
		}
		if !ok {
			break
		}
		switch num {
		case payloadFieldAction:
			p.Action = Action(readVarint(raw))
		case payloadFieldBody:
			p.Body = append([]byte(nil), raw...)
		case payloadFieldTimestamp:
			p.Timestamp = readVarint(raw)
		}
	}
	if !p.Action.Valid() {
		return Payload{}, fmt.Errorf("wire: invalid action %d", p.Action)
	}
	return p, nil
}

// EncodePayload wraps body with its action tag and timestamp, ready for
// Batcher.Submit.
func EncodePayload(action Action, body []byte, timestamp uint64) []byte {
	return Payload{Action: action, Body: body, Timestamp: timestamp}.Marshal()
}
