// Package wire implements the supply_chain family's binary domain schema:
// a compact, length-delimited, explicit-wire-tag message format built on
// google.golang.org/protobuf/encoding/protowire. Field numbers are fixed
// constants and must never be reassigned or reordered — decoded bytes
// flow unchanged between the transaction processor (writer) and the
// ledger-sync pipeline (reader), so the wire format must stay
// byte-for-byte stable across both.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessage(b []byte, num protowire.Number, sub []byte) []byte {
	if len(sub) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	return appendUint64(b, num, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, zigzagEncode(v))
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendInt64(b, num, int64(v))
}

// fieldReader walks a length-delimited message body, field by field.
type fieldReader struct {
	data []byte
}

func newFieldReader(data []byte) *fieldReader { return &fieldReader{data: data} }

// next returns the next field's number, wire type, and raw value bytes
// (for varint fields, value is re-encoded as a single varint slice; for
// bytes fields, value is the unwrapped payload). ok is false at end of
// input.
func (r *fieldReader) next() (num protowire.Number, typ protowire.Type, raw []byte, ok bool, err error) {
	if len(r.data) == 0 {
		return 0, 0, nil, false, nil
	}
	fieldNum, fieldType, tagLen := protowire.ConsumeTag(r.data)
	if tagLen < 0 {
		return 0, 0, nil, false, fmt.Errorf("wire: invalid tag: %w", protowire.ParseError(tagLen))
	}
	rest := r.data[tagLen:]
	switch fieldType {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(rest)
		if n < 0 {
			return 0, 0, nil, false, fmt.Errorf("wire: invalid varint: %w", protowire.ParseError(n))
		}
		buf := protowire.AppendVarint(nil, v)
		r.data = rest[n:]
		return fieldNum, fieldType, buf, true, nil
	case protowire.BytesType:
		v, n := protowire.ConsumeBytes(rest)
		if n < 0 {
			return 0, 0, nil, false, fmt.Errorf("wire: invalid length-delimited field: %w", protowire.ParseError(n))
		}
		r.data = rest[n:]
		return fieldNum, fieldType, v, true, nil
	default:
		n := protowire.ConsumeFieldValue(fieldNum, fieldType, rest)
		if n < 0 {
			return 0, 0, nil, false, fmt.Errorf("wire: invalid field: %w", protowire.ParseError(n))
		}
		r.data = rest[n:]
		return fieldNum, fieldType, nil, true, nil
	}
}

func readVarint(raw []byte) uint64 {
	v, _ := protowire.ConsumeVarint(raw)
	return v
}

func readString(raw []byte) string {
	return string(raw)
}
