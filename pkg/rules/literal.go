package rules

import (
	"fmt"
	"reflect"
	"strconv"
)

// Numeric constrains value-bound literals to the numeric types a field can
// declare.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Literal is a numeric bound together with its exact declared type. The
// resolver compares the literal's type against the annotated field's type, so
// MinValue(int64(18)) on an int32 field is rejected at build time instead of
// being silently widened.
type Literal struct {
	Type FieldType

	i int64
	u uint64
	f float64
}

// LiteralOf captures v and the numeric type it was written as.
func LiteralOf[T Numeric](v T) Literal {
	switch value := any(v).(type) {
	case int:
		return Literal{Type: TypeInt, i: int64(value)}
	case int8:
		return Literal{Type: TypeInt8, i: int64(value)}
	case int16:
		return Literal{Type: TypeInt16, i: int64(value)}
	case int32:
		return Literal{Type: TypeInt32, i: int64(value)}
	case int64:
		return Literal{Type: TypeInt64, i: value}
	case uint:
		return Literal{Type: TypeUint, u: uint64(value)}
	case uint8:
		return Literal{Type: TypeUint8, u: uint64(value)}
	case uint16:
		return Literal{Type: TypeUint16, u: uint64(value)}
	case uint32:
		return Literal{Type: TypeUint32, u: uint64(value)}
	case uint64:
		return Literal{Type: TypeUint64, u: value}
	case float32:
		return Literal{Type: TypeFloat32, f: float64(value)}
	case float64:
		return Literal{Type: TypeFloat64, f: value}
	default:
		// Named numeric types land here; classify by underlying kind.
		return literalFromValue(reflect.ValueOf(v))
	}
}

func literalFromValue(rv reflect.Value) Literal {
	ftype, ok := kindTypes[rv.Kind()]
	if !ok {
		panic(fmt.Sprintf("rules: unsupported literal type %s", rv.Type()))
	}
	switch {
	case ftype.IsFloat():
		return Literal{Type: ftype, f: rv.Float()}
	case ftype.IsUnsigned():
		return Literal{Type: ftype, u: rv.Uint()}
	default:
		return Literal{Type: ftype, i: rv.Int()}
	}
}

// ParseLiteral interprets text as a literal of the supplied numeric type.
// It reports false when the text does not represent a value of that exact
// type, e.g. "18.5" for an int field or "-1" for a uint field.
func ParseLiteral(text string, ftype FieldType) (Literal, bool) {
	switch ftype {
	case TypeInt, TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		i, err := strconv.ParseInt(text, 10, bitSize(ftype))
		if err != nil {
			return Literal{}, false
		}
		return Literal{Type: ftype, i: i}, true
	case TypeUint, TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		u, err := strconv.ParseUint(text, 10, bitSize(ftype))
		if err != nil {
			return Literal{}, false
		}
		return Literal{Type: ftype, u: u}, true
	case TypeFloat32, TypeFloat64:
		f, err := strconv.ParseFloat(text, bitSize(ftype))
		if err != nil {
			return Literal{}, false
		}
		return Literal{Type: ftype, f: f}, true
	default:
		return Literal{}, false
	}
}

func bitSize(ftype FieldType) int {
	switch ftype {
	case TypeInt8, TypeUint8:
		return 8
	case TypeInt16, TypeUint16:
		return 16
	case TypeInt32, TypeUint32, TypeFloat32:
		return 32
	case TypeInt, TypeUint:
		return 0 // strconv treats 0 as the platform word size
	default:
		return 64
	}
}

// Int returns the literal as a signed value. Valid for signed literal types.
func (l Literal) Int() int64 { return l.i }

// Uint returns the literal as an unsigned value.
func (l Literal) Uint() uint64 { return l.u }

// Float returns the literal as a float.
func (l Literal) Float() float64 { return l.f }

func (l Literal) String() string {
	switch {
	case l.Type.IsFloat():
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	case l.Type.IsUnsigned():
		return strconv.FormatUint(l.u, 10)
	default:
		return strconv.FormatInt(l.i, 10)
	}
}
