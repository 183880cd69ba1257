// Package compiler turns a formspec.Declaration into a compiled Form. It
// performs the resolution pass: declaring patterns, binding compiled_regex
// references, resolving match targets, and proving that every bound literal
// matches its field's type. The pass is pure (no I/O, no runtime state) and
// it runs the whole declaration before failing so one compile reports every
// defect.
package compiler

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/patterns"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Compile resolves decl into an immutable Form or fails with a
// *formspec.BuildError aggregating every issue found.
func Compile(decl formspec.Declaration) (*formspec.Form, error) {
	c := &compilation{
		decl:     decl,
		registry: patterns.NewRegistry(),
	}

	if decl.Name == "" {
		c.report(formspec.Issue{
			Code:    formspec.CodeMalformedDeclaration,
			Message: "form name is required",
		})
	}

	c.declarePatterns()
	c.checkFieldNames()

	fields := make([]formspec.Field, 0, len(decl.Fields))
	for _, field := range decl.Fields {
		fields = append(fields, c.compileField(field))
	}

	if len(c.issues) > 0 {
		return nil, &formspec.BuildError{Form: decl.Name, Issues: c.issues}
	}
	return formspec.NewForm(decl.Name, fields, c.registry), nil
}

type compilation struct {
	decl     formspec.Declaration
	registry *patterns.Registry
	issues   []formspec.Issue
}

func (c *compilation) report(issue formspec.Issue) {
	issue.Form = c.decl.Name
	c.issues = append(c.issues, issue)
}

func (c *compilation) declarePatterns() {
	for _, pattern := range c.decl.Patterns {
		if _, err := c.registry.Declare(pattern.ID, pattern.Expr); err != nil {
			code := formspec.CodeInvalidPattern
			if errors.Is(err, patterns.ErrDuplicatePattern) {
				code = formspec.CodeDuplicatePattern
			}
			c.report(formspec.Issue{
				Attr:    fmt.Sprintf("validate_regex(%s)", pattern.ID),
				Code:    code,
				Message: err.Error(),
			})
		}
	}
}

func (c *compilation) checkFieldNames() {
	seen := make(map[string]struct{}, len(c.decl.Fields))
	for _, field := range c.decl.Fields {
		if field.Name == "" {
			c.report(formspec.Issue{
				Code:    formspec.CodeMalformedDeclaration,
				Message: "field name is required",
			})
			continue
		}
		if _, dup := seen[field.Name]; dup {
			c.report(formspec.Issue{
				Field:   field.Name,
				Code:    formspec.CodeMalformedDeclaration,
				Message: fmt.Sprintf("field %q declared twice", field.Name),
			})
		}
		seen[field.Name] = struct{}{}
	}
}

func (c *compilation) compileField(field formspec.FieldDecl) formspec.Field {
	if field.Type == rules.TypeInvalid {
		c.report(formspec.Issue{
			Field:   field.Name,
			Code:    formspec.CodeUnsupportedType,
			Message: "field type is not supported by the validator",
		})
		return formspec.NewField(field.Name, field.Type, field.Optional, nil)
	}

	checks := make([]formspec.Check, 0, len(field.Rules))
	adhoc := 0
	for _, rule := range field.Rules {
		check, ok := c.compileRule(field, rule, &adhoc)
		if !ok {
			continue
		}
		if field.Messages != nil {
			check.Message = field.Messages[rule.Kind]
		}
		checks = append(checks, check)
	}

	return formspec.NewField(field.Name, field.Type, field.Optional, checks)
}

func (c *compilation) compileRule(field formspec.FieldDecl, rule rules.Rule, adhoc *int) (formspec.Check, bool) {
	check := formspec.Check{Rule: rule, Target: -1}

	reject := func(code formspec.IssueCode, format string, args ...any) (formspec.Check, bool) {
		c.report(formspec.Issue{
			Field:   field.Name,
			Attr:    rule.String(),
			Code:    code,
			Message: fmt.Sprintf(format, args...),
		})
		return formspec.Check{}, false
	}

	switch rule.Kind {
	case rules.KindEmail, rules.KindPhone:
		if field.Type != rules.TypeString {
			return reject(formspec.CodeTypeMismatch, "%s requires a string field, have %s", rule.Kind, field.Type)
		}
		id, expr := patterns.EmailID, patterns.EmailExpr
		if rule.Kind == rules.KindPhone {
			id, expr = patterns.USPhoneID, patterns.USPhoneExpr
		}
		entry, err := c.registry.DeclareBuiltin(id, expr)
		if err != nil {
			return reject(formspec.CodeInvalidPattern, "%v", err)
		}
		check.Pattern = entry

	case rules.KindMinLength, rules.KindMaxLength:
		if field.Type != rules.TypeString {
			return reject(formspec.CodeTypeMismatch, "%s requires a string field, have %s", rule.Kind, field.Type)
		}

	case rules.KindMinValue, rules.KindMaxValue:
		if !field.Type.IsNumeric() {
			return reject(formspec.CodeTypeMismatch, "%s requires a numeric field, have %s", rule.Kind, field.Type)
		}
		if rule.Bound.Type != field.Type {
			return reject(formspec.CodeTypeMismatch,
				"%s bound is %s but field %s is %s", rule.Kind, rule.Bound.Type, field.Name, field.Type)
		}

	case rules.KindRegex:
		if field.Type != rules.TypeString {
			return reject(formspec.CodeTypeMismatch, "regex requires a string field, have %s", field.Type)
		}
		*adhoc++
		id := fmt.Sprintf("form_regex_%s_%d", field.Name, *adhoc)
		entry, err := c.registry.Declare(id, rule.Pattern)
		if err != nil {
			code := formspec.CodeInvalidPattern
			if errors.Is(err, patterns.ErrDuplicatePattern) {
				code = formspec.CodeDuplicatePattern
			}
			return reject(code, "%v", err)
		}
		check.Pattern = entry

	case rules.KindCompiledRegex:
		if field.Type != rules.TypeString {
			return reject(formspec.CodeTypeMismatch, "compiled_regex requires a string field, have %s", field.Type)
		}
		entry, err := c.registry.Resolve(rule.Ref)
		if err != nil {
			return reject(formspec.CodeUnknownPatternRef,
				"no validate_regex pattern declared under %q", rule.Ref)
		}
		check.Pattern = entry

	case rules.KindMatch:
		target, index := c.findField(rule.Target)
		if index < 0 {
			return reject(formspec.CodeUnknownMatchTarget,
				"validate_match target %q is not a field of %s", rule.Target, c.decl.Name)
		}
		if target.Name == field.Name {
			return reject(formspec.CodeUnknownMatchTarget, "validate_match target is the field itself")
		}
		if target.Type != field.Type {
			return reject(formspec.CodeTypeMismatch,
				"validate_match target %q is %s but %s is %s", rule.Target, target.Type, field.Name, field.Type)
		}
		check.Target = index

	default:
		return reject(formspec.CodeUnknownValidator, "unknown validator %q", rule.Kind)
	}

	return check, true
}

func (c *compilation) findField(name string) (formspec.FieldDecl, int) {
	for i, field := range c.decl.Fields {
		if field.Name == name {
			return field, i
		}
	}
	return formspec.FieldDecl{}, -1
}
