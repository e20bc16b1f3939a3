package processor

import "github.com/hyperledger-archives/sawtooth-supply-chain/wire"

// validatePropertySchema checks the CREATE_RECORD_TYPE contract for one
// property entry: nonempty name, a valid dataType, at least one ENUM
// option, and a present nested schema for STRUCT.
func validatePropertySchema(s wire.PropertySchema) error {
	if s.Name == "" {
		return invalidf("property name must not be empty")
	}
	if !s.DataType.Valid() {
		return invalidf("property %s has invalid dataType: %d", s.Name, s.DataType)
	}
	if s.DataType == wire.DataTypeEnum && len(s.EnumOptions) == 0 {
		return invalidf("property %s is ENUM but declares no options", s.Name)
	}
	if s.DataType == wire.DataTypeStruct {
		if len(s.Struct) == 0 {
			return invalidf("property %s is STRUCT but declares no nested schema", s.Name)
		}
		for _, sub := range s.Struct {
			if err := validatePropertySchema(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateValueShape checks that v conforms to the ENUM/NUMBER/STRUCT
// bounds declared by the schema it is reported against: an ENUM index
// within range, a NUMBER exponent matching the schema exactly, and
// STRUCT members each matching a sub-schema entry by name and type.
func validateValueShape(v wire.Value, enumOptions []string, numberExponent int32, structSchema []wire.PropertySchema) error {
	switch v.DataType {
	case wire.DataTypeEnum:
		if v.EnumValue < 0 || int(v.EnumValue) >= len(enumOptions) {
			return invalidf("enum value %d is out of range for %d option(s)", v.EnumValue, len(enumOptions))
		}
	case wire.DataTypeNumber:
		if v.NumberExponent != numberExponent {
			return invalidf("number exponent %d does not match schema exponent %d", v.NumberExponent, numberExponent)
		}
	case wire.DataTypeStruct:
		for _, sv := range v.StructValues {
			var sub *wire.PropertySchema
			for i := range structSchema {
				if structSchema[i].Name == sv.Name {
					sub = &structSchema[i]
					break
				}
			}
			if sub == nil {
				return invalidf("struct value %s is not in the schema", sv.Name)
			}
			if sv.DataType != sub.DataType {
				return invalidf("struct value %s has the wrong type", sv.Name)
			}
			if err := validateValueShape(sv, sub.EnumOptions, sub.NumberExponent, sub.Struct); err != nil {
				return err
			}
		}
	}
	return nil
}
