// Package ruleparse parses the textual rule grammar shared by the struct
// tag, YAML and CLI declaration front-ends. Parsing is purely syntactic and
// local to one field: cross-references are resolved later by the compiler.
//
// Grammar, comma separated:
//
//	email | phone | optional
//	min_length=N | max_length=N
//	min_value=N | max_value=N
//	regex='expr' | compiled_regex=id
//
// Values may be wrapped in single or double quotes so regex expressions can
// contain commas.
package ruleparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Result carries the rules parsed from one field's declaration.
type Result struct {
	Rules    []rules.Rule
	Optional bool
}

// Problem is one syntactic defect, reported against the offending attribute
// text. The compiler lifts problems into formspec issues.
type Problem struct {
	Attr    string
	Code    formspec.IssueCode
	Message string
}

// Parse reads a comma separated rule list declared on a field of the given
// type. It collects every problem instead of stopping at the first one.
func Parse(spec string, ftype rules.FieldType) (Result, []Problem) {
	var (
		result   Result
		problems []Problem
	)

	for _, item := range splitItems(spec) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		rule, optional, problem := parseItem(item, ftype)
		switch {
		case problem != nil:
			problems = append(problems, *problem)
		case optional:
			result.Optional = true
		default:
			result.Rules = append(result.Rules, rule)
		}
	}

	return result, problems
}

func parseItem(item string, ftype rules.FieldType) (rules.Rule, bool, *Problem) {
	name, value, hasValue := strings.Cut(item, "=")
	name = strings.TrimSpace(name)
	value = unquote(strings.TrimSpace(value))

	fail := func(code formspec.IssueCode, format string, args ...any) (rules.Rule, bool, *Problem) {
		return rules.Rule{}, false, &Problem{
			Attr:    item,
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		}
	}

	switch name {
	case "email":
		if hasValue {
			return fail(formspec.CodeMalformedDeclaration, "email takes no argument")
		}
		return rules.Email(), false, nil
	case "phone":
		if hasValue {
			return fail(formspec.CodeMalformedDeclaration, "phone takes no argument")
		}
		return rules.Phone(), false, nil
	case "optional":
		if hasValue {
			return fail(formspec.CodeMalformedDeclaration, "optional takes no argument")
		}
		return rules.Rule{}, true, nil
	case "min_length", "max_length":
		if !hasValue || value == "" {
			return fail(formspec.CodeMalformedDeclaration, "%s requires an integer argument", name)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fail(formspec.CodeMalformedDeclaration, "%s requires an unsigned integer, got %q", name, value)
		}
		if name == "min_length" {
			return rules.MinLength(uint(n)), false, nil
		}
		return rules.MaxLength(uint(n)), false, nil
	case "min_value", "max_value":
		if !hasValue || value == "" {
			return fail(formspec.CodeMalformedDeclaration, "%s requires a numeric argument", name)
		}
		if !ftype.IsNumeric() {
			return fail(formspec.CodeTypeMismatch, "%s declared on non-numeric field type %s", name, ftype)
		}
		literal, ok := rules.ParseLiteral(value, ftype)
		if !ok {
			return fail(formspec.CodeTypeMismatch, "%s argument %q is not a valid %s", name, value, ftype)
		}
		rule := rules.Rule{Kind: rules.KindMinValue, Bound: literal}
		if name == "max_value" {
			rule.Kind = rules.KindMaxValue
		}
		return rule, false, nil
	case "regex":
		if !hasValue || value == "" {
			return fail(formspec.CodeMalformedDeclaration, "regex requires a pattern argument")
		}
		return rules.Regex(value), false, nil
	case "compiled_regex":
		if !hasValue || value == "" {
			return fail(formspec.CodeMalformedDeclaration, "compiled_regex requires a pattern identifier")
		}
		return rules.CompiledRegex(value), false, nil
	default:
		return fail(formspec.CodeUnknownValidator, "unknown validator %q", name)
	}
}

// splitItems splits on commas that sit outside quoted values.
func splitItems(spec string) []string {
	var (
		items   []string
		current strings.Builder
		quote   rune
	)
	for _, r := range spec {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			current.WriteRune(r)
		case r == ',':
			items = append(items, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	items = append(items, current.String())
	return items
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
