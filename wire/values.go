package wire

import "google.golang.org/protobuf/encoding/protowire"

// DataType is the tagged-union discriminant carried by every Value and
// PropertySchema.
type DataType uint8

const (
	DataTypeUnspecified DataType = 0
	DataTypeBytes       DataType = 1
	DataTypeBoolean     DataType = 2
	DataTypeNumber      DataType = 3
	DataTypeString      DataType = 4
	DataTypeEnum        DataType = 5
	DataTypeLocation    DataType = 6
	DataTypeStruct      DataType = 7
)

func (d DataType) Valid() bool {
	return d >= DataTypeBytes && d <= DataTypeStruct
}

const (
	valueFieldDataType   protowire.Number = 1
	valueFieldName       protowire.Number = 2
	valueFieldBytes      protowire.Number = 3
	valueFieldBoolean    protowire.Number = 4
	valueFieldNumber     protowire.Number = 5
	valueFieldExponent   protowire.Number = 6
	valueFieldString     protowire.Number = 7
	valueFieldEnum       protowire.Number = 8
	valueFieldLatitude   protowire.Number = 9
	valueFieldLongitude  protowire.Number = 10
	valueFieldStructVals protowire.Number = 11
)

// Value is the tagged union over BYTES, BOOLEAN, NUMBER, STRING, ENUM,
// LOCATION, and STRUCT data, matching spec.md §4.2. Name is populated
// when the value is a member of a STRUCT's StructValues.
type Value struct {
	DataType       DataType
	Name           string
	BytesValue     []byte
	BooleanValue   bool
	NumberValue    int64
	NumberExponent int32
	StringValue    string
	EnumValue      int32
	LocationLat    int64 // micro-degrees
	LocationLong   int64 // micro-degrees
	StructValues   []Value
}

// Marshal appends the wire encoding of v to b.
func (v Value) Marshal(b []byte) []byte {
	b = appendUint64(b, valueFieldDataType, uint64(v.DataType))
	b = appendString(b, valueFieldName, v.Name)
	switch v.DataType {
	case DataTypeBytes:
		b = appendBytes(b, valueFieldBytes, v.BytesValue)
	case DataTypeBoolean:
		b = appendBool(b, valueFieldBoolean, v.BooleanValue)
	case DataTypeNumber:
		b = appendInt64(b, valueFieldNumber, v.NumberValue)
		b = appendInt32(b, valueFieldExponent, v.NumberExponent)
	case DataTypeString:
		b = appendString(b, valueFieldString, v.StringValue)
	case DataTypeEnum:
		b = appendInt32(b, valueFieldEnum, v.EnumValue)
	case DataTypeLocation:
		b = appendInt64(b, valueFieldLatitude, v.LocationLat)
		b = appendInt64(b, valueFieldLongitude, v.LocationLong)
	case DataTypeStruct:
		for _, sv := range v.StructValues {
			b = appendMessage(b, valueFieldStructVals, sv.Marshal(nil))
		}
	}
	return b
}

// UnmarshalValue decodes a Value from data.
func UnmarshalValue(data []byte) (Value, error) {
	var v Value
	r := newFieldReader(data)
	for {
		num, typ, raw, ok, err := r.next()
		if err != nil {
			return Value{}, err
		}
		if !ok {
			break
		}
		switch num {
		case valueFieldDataType:
			v.DataType = DataType(readVarint(raw))
		case valueFieldName:
			v.Name = readString(raw)
		case valueFieldBytes:
			v.BytesValue = append([]byte(nil), raw...)
		case valueFieldBoolean:
			v.BooleanValue = readVarint(raw) != 0
		case valueFieldNumber:
			v.NumberValue = zigzagDecode(readVarint(raw))
		case valueFieldExponent:
			v.NumberExponent = int32(zigzagDecode(readVarint(raw)))
		case valueFieldString:
			v.StringValue = readString(raw)
		case valueFieldEnum:
			v.EnumValue = int32(zigzagDecode(readVarint(raw)))
		case valueFieldLatitude:
			v.LocationLat = zigzagDecode(readVarint(raw))
		case valueFieldLongitude:
			v.LocationLong = zigzagDecode(readVarint(raw))
		case valueFieldStructVals:
			sv, err := UnmarshalValue(raw)
			if err != nil {
				return Value{}, err
			}
			v.StructValues = append(v.StructValues, sv)
		default:
			_ = typ
		}
	}
	return v, nil
}

const (
	schemaFieldName           protowire.Number = 1
	schemaFieldDataType       protowire.Number = 2
	schemaFieldRequired       protowire.Number = 3
	schemaFieldEnumOptions    protowire.Number = 4
	schemaFieldStruct         protowire.Number = 5
	schemaFieldNumberExponent protowire.Number = 6
	schemaFieldUnit           protowire.Number = 7
)

// PropertySchema describes one property entry of a RecordType.
type PropertySchema struct {
	Name           string
	DataType       DataType
	Required       bool
	EnumOptions    []string
	Struct         []PropertySchema
	NumberExponent int32
	Unit           string
}

func (s PropertySchema) Marshal(b []byte) []byte {
	b = appendString(b, schemaFieldName, s.Name)
	b = appendUint64(b, schemaFieldDataType, uint64(s.DataType))
	b = appendBool(b, schemaFieldRequired, s.Required)
	for _, opt := range s.EnumOptions {
		b = appendString(b, schemaFieldEnumOptions, opt)
	}
	for _, sub := range s.Struct {
		b = appendMessage(b, schemaFieldStruct, sub.Marshal(nil))
	}
	b = appendInt32(b, schemaFieldNumberExponent, s.NumberExponent)
	b = appendString(b, schemaFieldUnit, s.Unit)
	return b
}

func UnmarshalPropertySchema(data []byte) (PropertySchema, error) {
	var s PropertySchema
	r := newFieldReader(data)
	for {
		num, _, raw, ok, err := r.next()
		if err != nil {
			return PropertySchema{}, err
		}
		if !ok {
			break
		}
		switch num {
		case schemaFieldName:
			s.Name = readString(raw)
		case schemaFieldDataType:
			s.DataType = DataType(readVarint(raw))
		case schemaFieldRequired:
			s.Required = readVarint(raw) != 0
		case schemaFieldEnumOptions:
			s.EnumOptions = append(s.EnumOptions, readString(raw))
		case schemaFieldStruct:
			sub, err := UnmarshalPropertySchema(raw)
			if err != nil {
				return PropertySchema{}, err
			}
			s.Struct = append(s.Struct, sub)
		case schemaFieldNumberExponent:
			s.NumberExponent = int32(zigzagDecode(readVarint(raw)))
		case schemaFieldUnit:
			s.Unit = readString(raw)
		}
	}
	return s, nil
}
