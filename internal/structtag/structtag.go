// Package structtag derives a form declaration from the validation tags on
// a Go struct type. It is the declaration front-end closest to an annotated
// structure: field rules live in `validate` tags, cross-field equality in
// `validate_match` tags, and struct-level named patterns come from the
// PatternProvider interface since Go has no struct-level tags.
package structtag

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-formval/internal/ruleparse"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

const (
	// TagValidate carries the comma separated rule list for one field.
	TagValidate = "validate"
	// TagValidateMatch names the sibling field this field must equal.
	TagValidateMatch = "validate_match"
)

// PatternProvider declares struct-level named patterns for a tagged type,
// in declaration order. Implement it on the form struct to give
// compiled_regex tags something to reference.
type PatternProvider interface {
	FormPatterns() []formspec.PatternDecl
}

// Declare reads the validation tags of the struct type t into a Declaration.
// Tag syntax problems are collected across all fields and reported as one
// *formspec.BuildError.
func Declare(t reflect.Type) (formspec.Declaration, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return formspec.Declaration{}, fmt.Errorf("structtag: %s is not a struct type", t)
	}

	decl := formspec.Declaration{Name: t.Name()}
	if provider, ok := reflect.New(t).Interface().(PatternProvider); ok {
		decl.Patterns = provider.FormPatterns()
	}

	var issues []formspec.Issue
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		spec, tagged := sf.Tag.Lookup(TagValidate)
		matchTarget, matched := sf.Tag.Lookup(TagValidateMatch)
		if !tagged && !matched {
			continue
		}
		if sf.PkgPath != "" {
			issues = append(issues, formspec.Issue{
				Form:    decl.Name,
				Field:   sf.Name,
				Code:    formspec.CodeMalformedDeclaration,
				Message: "validation tags require an exported field",
			})
			continue
		}

		ftype, supported := rules.TypeOf(sf.Type)
		if !supported {
			issues = append(issues, formspec.Issue{
				Form:    decl.Name,
				Field:   sf.Name,
				Code:    formspec.CodeUnsupportedType,
				Message: fmt.Sprintf("cannot validate field of type %s", sf.Type),
			})
			continue
		}

		field := formspec.FieldDecl{Name: sf.Name, Type: ftype}
		if tagged {
			parsed, problems := ruleparse.Parse(spec, ftype)
			for _, problem := range problems {
				issues = append(issues, formspec.Issue{
					Form:    decl.Name,
					Field:   sf.Name,
					Attr:    problem.Attr,
					Code:    problem.Code,
					Message: problem.Message,
				})
			}
			field.Rules = parsed.Rules
			field.Optional = parsed.Optional
		}
		if matched {
			field.Rules = append(field.Rules, rules.MatchField(matchTarget))
		}
		decl.Fields = append(decl.Fields, field)
	}

	if len(issues) > 0 {
		return formspec.Declaration{}, &formspec.BuildError{Form: decl.Name, Issues: issues}
	}
	return decl, nil
}
