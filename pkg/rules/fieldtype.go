package rules

import "reflect"

// FieldType is the declared type of an annotated field. Numeric bound
// literals and match targets are checked against it with exact identity, so
// the enumeration distinguishes every numeric width rather than collapsing
// them into "number".
type FieldType string

const (
	TypeInvalid FieldType = ""
	TypeString  FieldType = "string"
	TypeBool    FieldType = "bool"
	TypeInt     FieldType = "int"
	TypeInt8    FieldType = "int8"
	TypeInt16   FieldType = "int16"
	TypeInt32   FieldType = "int32"
	TypeInt64   FieldType = "int64"
	TypeUint    FieldType = "uint"
	TypeUint8   FieldType = "uint8"
	TypeUint16  FieldType = "uint16"
	TypeUint32  FieldType = "uint32"
	TypeUint64  FieldType = "uint64"
	TypeFloat32 FieldType = "float32"
	TypeFloat64 FieldType = "float64"
)

var kindTypes = map[reflect.Kind]FieldType{
	reflect.String:  TypeString,
	reflect.Bool:    TypeBool,
	reflect.Int:     TypeInt,
	reflect.Int8:    TypeInt8,
	reflect.Int16:   TypeInt16,
	reflect.Int32:   TypeInt32,
	reflect.Int64:   TypeInt64,
	reflect.Uint:    TypeUint,
	reflect.Uint8:   TypeUint8,
	reflect.Uint16:  TypeUint16,
	reflect.Uint32:  TypeUint32,
	reflect.Uint64:  TypeUint64,
	reflect.Float32: TypeFloat32,
	reflect.Float64: TypeFloat64,
}

// TypeOf maps a Go type onto its FieldType. Pointer types map to their
// element type; optionality is tracked separately by the declaration. The
// second result is false for types the validator cannot operate on.
func TypeOf(t reflect.Type) (FieldType, bool) {
	if t == nil {
		return TypeInvalid, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	ftype, ok := kindTypes[t.Kind()]
	return ftype, ok
}

// ParseFieldType interprets a declared type name from a loader document.
func ParseFieldType(name string) (FieldType, bool) {
	switch ftype := FieldType(name); ftype {
	case TypeString, TypeBool,
		TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64,
		TypeFloat32, TypeFloat64:
		return ftype, true
	default:
		return TypeInvalid, false
	}
}

// IsNumeric reports whether the type supports min_value/max_value bounds.
func (t FieldType) IsNumeric() bool {
	switch t {
	case TypeString, TypeBool, TypeInvalid:
		return false
	default:
		return true
	}
}

// IsUnsigned reports whether the type is an unsigned integer.
func (t FieldType) IsUnsigned() bool {
	switch t {
	case TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is a floating point number.
func (t FieldType) IsFloat() bool {
	return t == TypeFloat32 || t == TypeFloat64
}

func (t FieldType) String() string {
	if t == TypeInvalid {
		return "<invalid>"
	}
	return string(t)
}
