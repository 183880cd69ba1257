package validate

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Validator is a compiled form bound to a concrete struct type. Binding
// resolves each declared field to its struct index once, so Validate is a
// pure walk over precomputed checks. A Validator is immutable and safe for
// concurrent use on independent instances.
type Validator[T any] struct {
	form   *formspec.Form
	fields []boundField
}

type boundField struct {
	spec    formspec.Field
	index   []int
	pointer bool
}

// Bind attaches form to the struct type T. Every declared field must exist
// on T as an exported field of the declared type; optional fields must be
// pointers and pointer fields must be optional. Binding failures are
// build-time errors reported as a *formspec.BuildError.
func Bind[T any](form *formspec.Form) (*Validator[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("validate: cannot bind form %s to non-struct type %s", form.Name(), rt)
	}

	var issues []formspec.Issue
	reject := func(field string, code formspec.IssueCode, format string, args ...any) {
		issues = append(issues, formspec.Issue{
			Form:    form.Name(),
			Field:   field,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		})
	}

	bound := make([]boundField, 0, len(form.Fields()))
	for _, spec := range form.Fields() {
		sf, ok := rt.FieldByName(spec.Name())
		if !ok || sf.PkgPath != "" {
			reject(spec.Name(), formspec.CodeMalformedDeclaration,
				"%s has no exported field %q", rt, spec.Name())
			continue
		}

		pointer := sf.Type.Kind() == reflect.Pointer
		switch {
		case pointer && !spec.Optional():
			reject(spec.Name(), formspec.CodeMalformedDeclaration,
				"pointer field %q must be declared optional", spec.Name())
			continue
		case !pointer && spec.Optional():
			reject(spec.Name(), formspec.CodeMalformedDeclaration,
				"optional field %q must be a pointer", spec.Name())
			continue
		}

		ftype, supported := rules.TypeOf(sf.Type)
		if !supported {
			reject(spec.Name(), formspec.CodeUnsupportedType,
				"field %q has unsupported type %s", spec.Name(), sf.Type)
			continue
		}
		if ftype != spec.Type() {
			reject(spec.Name(), formspec.CodeTypeMismatch,
				"field %q declared as %s but %s has %s", spec.Name(), spec.Type(), rt, ftype)
			continue
		}

		bound = append(bound, boundField{spec: spec, index: sf.Index, pointer: pointer})
	}

	if len(issues) > 0 {
		return nil, &formspec.BuildError{Form: form.Name(), Issues: issues}
	}
	return &Validator[T]{form: form, fields: bound}, nil
}

// Form returns the compiled form backing the validator.
func (v *Validator[T]) Form() *formspec.Form { return v.form }

// Validate evaluates every rule on every field in declaration order and
// returns the complete failure set, or nil when the instance passes. It
// never halts on the first failure.
func (v *Validator[T]) Validate(instance T) Errors {
	rv := reflect.ValueOf(instance)

	lookup := func(index int) (reflect.Value, bool) {
		return v.fieldValue(rv, v.form.Fields()[index].Name())
	}

	var failures Errors
	for _, field := range v.fields {
		fv := rv.FieldByIndex(field.index)
		if field.pointer {
			if fv.IsNil() {
				continue // optional and absent: every rule is skipped
			}
			fv = fv.Elem()
		}
		for _, check := range field.spec.Checks() {
			if failure := evalCheck(field.spec.Name(), field.spec.Type(), check, fv, lookup); failure != nil {
				failures = append(failures, *failure)
			}
		}
	}
	return failures
}

// fieldValue reads the named field's current value from the instance,
// reporting absence for nil optionals. Match rules read through this at
// validation time, never from declaration-time state.
func (v *Validator[T]) fieldValue(rv reflect.Value, name string) (reflect.Value, bool) {
	for _, field := range v.fields {
		if field.spec.Name() != name {
			continue
		}
		fv := rv.FieldByIndex(field.index)
		if field.pointer {
			if fv.IsNil() {
				return reflect.Value{}, false
			}
			fv = fv.Elem()
		}
		return fv, true
	}
	return reflect.Value{}, false
}
