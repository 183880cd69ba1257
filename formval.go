// Package formval compiles declarative validation rules into deterministic
// validation routines. Rules are declared once (builder API, struct tags,
// YAML documents, or an OpenAPI import), compiled into an immutable form
// specification, and evaluated at run time against instances, reporting
// every violation in one call.
package formval

import (
	"reflect"

	"github.com/goliatone/go-formval/internal/compiler"
	"github.com/goliatone/go-formval/internal/structtag"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/validate"
)

// New starts a form declaration with the builder API.
func New(name string) *formspec.Builder {
	return formspec.New(name)
}

// Compile resolves a declaration into an immutable form, or fails with a
// *formspec.BuildError carrying every issue found.
func Compile(decl formspec.Declaration) (*formspec.Form, error) {
	return compiler.Compile(decl)
}

// Bind attaches a compiled form to the struct type T.
func Bind[T any](form *formspec.Form) (*validate.Validator[T], error) {
	return validate.Bind[T](form)
}

// Struct derives the declaration from T's validation tags, compiles it and
// binds the result to T in one step.
func Struct[T any]() (*validate.Validator[T], error) {
	decl, err := structtag.Declare(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	form, err := compiler.Compile(decl)
	if err != nil {
		return nil, err
	}
	return validate.Bind[T](form)
}

// Values returns a validator over validate.Values for forms declared without
// a backing Go struct.
func Values(form *formspec.Form) *validate.ValuesValidator {
	return validate.ForValues(form)
}

// PatternProvider re-exports the struct-tag pattern hook so annotated types
// only import the root package.
type PatternProvider = structtag.PatternProvider
