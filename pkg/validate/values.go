package validate

import (
	"math"
	"reflect"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Values carries one instance of a form declared without a backing Go
// struct, keyed by field name. Decoded JSON and YAML documents fit directly.
type Values map[string]any

// ValuesValidator evaluates a compiled form against Values instances. It is
// the runtime surface for forms loaded from YAML declarations or imported
// from OpenAPI documents.
type ValuesValidator struct {
	form *formspec.Form
}

// ForValues returns a validator over Values for the compiled form.
func ForValues(form *formspec.Form) *ValuesValidator {
	return &ValuesValidator{form: form}
}

// Form returns the compiled form backing the validator.
func (v *ValuesValidator) Form() *formspec.Form { return v.form }

// Validate evaluates every rule on every field in declaration order. A
// missing or nil value on a non-optional field yields one missing-value
// failure; a value that does not fit the declared type yields one
// wrong-type failure; either way the field's rules are skipped and
// validation continues with the remaining fields.
func (v *ValuesValidator) Validate(vals Values) Errors {
	var failures Errors

	lookup := func(index int) (reflect.Value, bool) {
		field := v.form.Fields()[index]
		raw, ok := vals[field.Name()]
		if !ok || raw == nil {
			return reflect.Value{}, false
		}
		return coerce(raw, field.Type())
	}

	for _, field := range v.form.Fields() {
		raw, ok := vals[field.Name()]
		if !ok || raw == nil {
			if field.Optional() {
				continue
			}
			failures = append(failures, FieldError{
				Field:   field.Name(),
				Rule:    rules.Rule{Kind: KindMissingValue},
				Message: "required value is missing",
			})
			continue
		}

		fv, fits := coerce(raw, field.Type())
		if !fits {
			failures = append(failures, FieldError{
				Field:   field.Name(),
				Rule:    rules.Rule{Kind: KindWrongType},
				Message: "value does not fit declared type " + field.Type().String(),
			})
			continue
		}

		for _, check := range field.Checks() {
			if failure := evalCheck(field.Name(), field.Type(), check, fv, lookup); failure != nil {
				failures = append(failures, *failure)
			}
		}
	}
	return failures
}

// ValidateField evaluates only the named field's local rules against raw,
// skipping match rules since the rest of the instance may not exist yet.
// Interactive front-ends use it to reject a value at entry time.
func (v *ValuesValidator) ValidateField(name string, raw any) Errors {
	index := v.form.FieldIndex(name)
	if index < 0 {
		return nil
	}
	field := v.form.Fields()[index]

	fv, fits := coerce(raw, field.Type())
	if !fits {
		return Errors{{
			Field:   name,
			Rule:    rules.Rule{Kind: KindWrongType},
			Message: "value does not fit declared type " + field.Type().String(),
		}}
	}

	noTargets := func(int) (reflect.Value, bool) { return reflect.Value{}, false }
	var failures Errors
	for _, check := range field.Checks() {
		if check.Rule.Kind == rules.KindMatch {
			continue
		}
		if failure := evalCheck(name, field.Type(), check, fv, noTargets); failure != nil {
			failures = append(failures, *failure)
		}
	}
	return failures
}

// coerce fits a dynamic value onto the declared field type, yielding a value
// of exactly that type. Numeric values convert across representations only
// when the conversion is exact, so a JSON-decoded float64(21) satisfies an
// int field while 21.5 does not.
func coerce(raw any, ftype rules.FieldType) (reflect.Value, bool) {
	rv := reflect.ValueOf(raw)

	switch ftype {
	case rules.TypeString:
		if rv.Kind() == reflect.String {
			return reflect.ValueOf(rv.String()), true
		}
		return reflect.Value{}, false
	case rules.TypeBool:
		if rv.Kind() == reflect.Bool {
			return reflect.ValueOf(rv.Bool()), true
		}
		return reflect.Value{}, false
	}

	target, ok := goType(ftype)
	if !ok {
		return reflect.Value{}, false
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if ftype.IsFloat() || fitsSigned(i, ftype) {
			return reflect.ValueOf(i).Convert(target), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if ftype.IsFloat() || fitsUnsigned(u, ftype) {
			return reflect.ValueOf(u).Convert(target), true
		}
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if ftype.IsFloat() {
			return reflect.ValueOf(f).Convert(target), true
		}
		if math.Trunc(f) != f || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, false
		}
		if f >= 0 && fitsUnsigned(uint64(f), ftype) {
			return reflect.ValueOf(uint64(f)).Convert(target), true
		}
		if f < 0 && fitsSigned(int64(f), ftype) {
			return reflect.ValueOf(int64(f)).Convert(target), true
		}
	}
	return reflect.Value{}, false
}

func fitsSigned(i int64, ftype rules.FieldType) bool {
	switch ftype {
	case rules.TypeInt, rules.TypeInt64:
		return true
	case rules.TypeInt8:
		return i >= math.MinInt8 && i <= math.MaxInt8
	case rules.TypeInt16:
		return i >= math.MinInt16 && i <= math.MaxInt16
	case rules.TypeInt32:
		return i >= math.MinInt32 && i <= math.MaxInt32
	case rules.TypeUint, rules.TypeUint64:
		return i >= 0
	case rules.TypeUint8:
		return i >= 0 && i <= math.MaxUint8
	case rules.TypeUint16:
		return i >= 0 && i <= math.MaxUint16
	case rules.TypeUint32:
		return i >= 0 && i <= math.MaxUint32
	default:
		return false
	}
}

func fitsUnsigned(u uint64, ftype rules.FieldType) bool {
	switch ftype {
	case rules.TypeUint, rules.TypeUint64:
		return true
	case rules.TypeUint8:
		return u <= math.MaxUint8
	case rules.TypeUint16:
		return u <= math.MaxUint16
	case rules.TypeUint32:
		return u <= math.MaxUint32
	case rules.TypeInt, rules.TypeInt64:
		return u <= math.MaxInt64
	case rules.TypeInt8:
		return u <= math.MaxInt8
	case rules.TypeInt16:
		return u <= math.MaxInt16
	case rules.TypeInt32:
		return u <= math.MaxInt32
	default:
		return false
	}
}

func goType(ftype rules.FieldType) (reflect.Type, bool) {
	switch ftype {
	case rules.TypeInt:
		return reflect.TypeOf(int(0)), true
	case rules.TypeInt8:
		return reflect.TypeOf(int8(0)), true
	case rules.TypeInt16:
		return reflect.TypeOf(int16(0)), true
	case rules.TypeInt32:
		return reflect.TypeOf(int32(0)), true
	case rules.TypeInt64:
		return reflect.TypeOf(int64(0)), true
	case rules.TypeUint:
		return reflect.TypeOf(uint(0)), true
	case rules.TypeUint8:
		return reflect.TypeOf(uint8(0)), true
	case rules.TypeUint16:
		return reflect.TypeOf(uint16(0)), true
	case rules.TypeUint32:
		return reflect.TypeOf(uint32(0)), true
	case rules.TypeUint64:
		return reflect.TypeOf(uint64(0)), true
	case rules.TypeFloat32:
		return reflect.TypeOf(float32(0)), true
	case rules.TypeFloat64:
		return reflect.TypeOf(float64(0)), true
	default:
		return nil, false
	}
}
