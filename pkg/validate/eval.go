package validate

import (
	"reflect"
	"unicode/utf8"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// targetLookup fetches the current value of the field at the given form
// index. The second result is false when the target is absent (nil optional).
type targetLookup func(index int) (reflect.Value, bool)

// evalCheck evaluates one resolved check against a concrete (non-pointer)
// field value and returns the failure to record, or nil on pass. All bounds
// are inclusive: a value exactly equal to the bound passes.
func evalCheck(fieldName string, ftype rules.FieldType, check formspec.Check, fv reflect.Value, target targetLookup) *FieldError {
	ok := true
	switch check.Rule.Kind {
	case rules.KindEmail, rules.KindPhone, rules.KindRegex, rules.KindCompiledRegex:
		ok = check.Pattern.MatchString(fv.String())

	case rules.KindMinLength:
		ok = uint(utf8.RuneCountInString(fv.String())) >= check.Rule.Length

	case rules.KindMaxLength:
		ok = uint(utf8.RuneCountInString(fv.String())) <= check.Rule.Length

	case rules.KindMinValue:
		ok = compare(ftype, fv, check.Rule.Bound) >= 0

	case rules.KindMaxValue:
		ok = compare(ftype, fv, check.Rule.Bound) <= 0

	case rules.KindMatch:
		tv, present := target(check.Target)
		ok = present && equalValues(ftype, fv, tv)
	}

	if ok {
		return nil
	}
	message := check.Message
	if message == "" {
		message = defaultMessage(check.Rule)
	}
	return &FieldError{Field: fieldName, Rule: check.Rule, Message: message}
}

// equalValues compares two field values within the declared type's canonical
// domain. Named types (type Token string) share a FieldType with their
// underlying type, so comparison goes through the kind accessors rather than
// interface equality, which would treat Token("x") and "x" as distinct.
func equalValues(ftype rules.FieldType, a, b reflect.Value) bool {
	switch {
	case ftype == rules.TypeString:
		return a.String() == b.String()
	case ftype == rules.TypeBool:
		return a.Bool() == b.Bool()
	case ftype.IsFloat():
		return a.Float() == b.Float()
	case ftype.IsUnsigned():
		return a.Uint() == b.Uint()
	default:
		return a.Int() == b.Int()
	}
}

// compare orders the field value against the bound literal within the
// field's own numeric domain. The compiler has already proven the literal's
// type equals the field's type.
func compare(ftype rules.FieldType, fv reflect.Value, bound rules.Literal) int {
	switch {
	case ftype.IsFloat():
		return cmpOrdered(fv.Float(), bound.Float())
	case ftype.IsUnsigned():
		return cmpOrdered(fv.Uint(), bound.Uint())
	default:
		return cmpOrdered(fv.Int(), bound.Int())
	}
}

func cmpOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
