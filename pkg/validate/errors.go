// Package validate binds compiled forms to runtime values and evaluates
// every rule on every field, accumulating one FieldError per violated rule.
// A rule violation is ordinary data, never an exceptional control path: the
// generated routine's contract is "all rules checked, zero or more failures
// found".
package validate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formval/pkg/rules"
)

// Pseudo rule kinds reported by the values validator for structural problems
// in the supplied value map. They never appear in declarations.
const (
	KindMissingValue rules.Kind = "missing_value"
	KindWrongType    rules.Kind = "wrong_type"
)

// FieldError is one reported rule violation: the field, the violated rule,
// and a human-readable message. Rendering beyond Message is left to callers.
type FieldError struct {
	Field   string
	Rule    rules.Rule
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the complete failure set of one Validate call, in
// field-then-rule declaration order. A nil or empty Errors means the
// instance passed.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validate: no failures"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return "validate: " + strings.Join(parts, "; ")
}

// Empty reports whether validation passed.
func (e Errors) Empty() bool { return len(e) == 0 }

// ByField groups the failures by field name, preserving rule order.
func (e Errors) ByField() map[string][]FieldError {
	if len(e) == 0 {
		return nil
	}
	grouped := make(map[string][]FieldError)
	for _, fe := range e {
		grouped[fe.Field] = append(grouped[fe.Field], fe)
	}
	return grouped
}

func defaultMessage(rule rules.Rule) string {
	switch rule.Kind {
	case rules.KindEmail:
		return "invalid email address"
	case rules.KindPhone:
		return "invalid phone number"
	case rules.KindMinLength:
		return fmt.Sprintf("input too short: minimum length is %d", rule.Length)
	case rules.KindMaxLength:
		return fmt.Sprintf("input too long: maximum length is %d", rule.Length)
	case rules.KindMinValue:
		return fmt.Sprintf("value too small: minimum is %s", rule.Bound)
	case rules.KindMaxValue:
		return fmt.Sprintf("value too large: maximum is %s", rule.Bound)
	case rules.KindRegex, rules.KindCompiledRegex:
		return "input does not match the required pattern"
	case rules.KindMatch:
		return fmt.Sprintf("does not match field %q", rule.Target)
	default:
		return "validation failed"
	}
}
