package rules

import "fmt"

// Kind identifies one of the supported validator kinds. The string values
// match the declarative attribute grammar consumed by the rule parser.
type Kind string

const (
	KindEmail         Kind = "email"
	KindPhone         Kind = "phone"
	KindMinLength     Kind = "min_length"
	KindMaxLength     Kind = "max_length"
	KindMinValue      Kind = "min_value"
	KindMaxValue      Kind = "max_value"
	KindRegex         Kind = "regex"
	KindCompiledRegex Kind = "compiled_regex"
	KindMatch         Kind = "match"
)

// Rule is one declarative validator attached to a field. Only the argument
// slot matching the Kind is populated; the remaining slots stay zero.
type Rule struct {
	Kind Kind

	// Length is the bound for min_length/max_length, counted in characters.
	Length uint
	// Bound is the typed numeric literal for min_value/max_value.
	Bound Literal
	// Pattern is the expression for an ad hoc regex rule.
	Pattern string
	// Ref names a struct-level pattern for compiled_regex rules.
	Ref string
	// Target names the sibling field a match rule compares against.
	Target string
}

// Email checks the field against an RFC-5322 style address shape.
func Email() Rule {
	return Rule{Kind: KindEmail}
}

// Phone checks the field against the US numbering-plan shape: optional
// country code, area code, exchange and subscriber number with optional
// separators or parentheses.
func Phone() Rule {
	return Rule{Kind: KindPhone}
}

// MinLength requires at least n characters. The bound is inclusive: a value
// of exactly n characters passes.
func MinLength(n uint) Rule {
	return Rule{Kind: KindMinLength, Length: n}
}

// MaxLength allows at most n characters, inclusive.
func MaxLength(n uint) Rule {
	return Rule{Kind: KindMaxLength, Length: n}
}

// MinValue requires the field value to be >= bound. The literal's numeric
// type must equal the field's declared type; the compiler rejects the
// declaration otherwise.
func MinValue[T Numeric](bound T) Rule {
	return Rule{Kind: KindMinValue, Bound: LiteralOf(bound)}
}

// MaxValue requires the field value to be <= bound.
func MaxValue[T Numeric](bound T) Rule {
	return Rule{Kind: KindMaxValue, Bound: LiteralOf(bound)}
}

// Regex checks the field against a field-local pattern. The expression is
// compiled once at build time and cached alongside the struct-level patterns.
func Regex(expr string) Rule {
	return Rule{Kind: KindRegex, Pattern: expr}
}

// CompiledRegex references a struct-level pattern by identifier. The
// reference is resolved, never compiled, at the field site.
func CompiledRegex(id string) Rule {
	return Rule{Kind: KindCompiledRegex, Ref: id}
}

// MatchField requires equality with the named sibling field at validation
// time. The target must exist and share the source field's declared type.
func MatchField(name string) Rule {
	return Rule{Kind: KindMatch, Target: name}
}

// Arg renders the rule's argument for diagnostics and error messages.
func (r Rule) Arg() string {
	switch r.Kind {
	case KindMinLength, KindMaxLength:
		return fmt.Sprintf("%d", r.Length)
	case KindMinValue, KindMaxValue:
		return r.Bound.String()
	case KindRegex:
		return r.Pattern
	case KindCompiledRegex:
		return r.Ref
	case KindMatch:
		return r.Target
	default:
		return ""
	}
}

func (r Rule) String() string {
	if arg := r.Arg(); arg != "" {
		return fmt.Sprintf("%s(%s)", r.Kind, arg)
	}
	return string(r.Kind)
}
