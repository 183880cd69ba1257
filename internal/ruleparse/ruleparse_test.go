package ruleparse_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formval/internal/ruleparse"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

var literalComparer = cmp.Comparer(func(a, b rules.Literal) bool {
	return a.Type == b.Type && a.String() == b.String()
})

func TestParseRuleGrammar(t *testing.T) {
	cases := []struct {
		name     string
		spec     string
		ftype    rules.FieldType
		want     []rules.Rule
		optional bool
	}{
		{
			name:  "bare validators",
			spec:  "email",
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.Email()},
		},
		{
			name:  "phone",
			spec:  "phone",
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.Phone()},
		},
		{
			name:  "length bounds",
			spec:  "min_length=3,max_length=10",
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.MinLength(3), rules.MaxLength(10)},
		},
		{
			name:  "value bounds take the field type",
			spec:  "min_value=18,max_value=130",
			ftype: rules.TypeInt,
			want:  []rules.Rule{rules.MinValue(18), rules.MaxValue(130)},
		},
		{
			name:  "float bounds",
			spec:  "min_value=0.5",
			ftype: rules.TypeFloat64,
			want:  []rules.Rule{rules.MinValue(0.5)},
		},
		{
			name:  "quoted regex may contain commas",
			spec:  `regex='^\d{1,3}$'`,
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.Regex(`^\d{1,3}$`)},
		},
		{
			name:  "compiled regex reference",
			spec:  "compiled_regex=password",
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.CompiledRegex("password")},
		},
		{
			name:     "optional marker",
			spec:     "optional,min_length=2",
			ftype:    rules.TypeString,
			want:     []rules.Rule{rules.MinLength(2)},
			optional: true,
		},
		{
			name:  "whitespace tolerated",
			spec:  " min_length = 3 , email ",
			ftype: rules.TypeString,
			want:  []rules.Rule{rules.MinLength(3), rules.Email()},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, problems := ruleparse.Parse(tc.spec, tc.ftype)
			if len(problems) != 0 {
				t.Fatalf("unexpected problems: %+v", problems)
			}
			if result.Optional != tc.optional {
				t.Fatalf("optional = %v, want %v", result.Optional, tc.optional)
			}
			if diff := cmp.Diff(tc.want, result.Rules, literalComparer); diff != "" {
				t.Fatalf("rules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseProblems(t *testing.T) {
	cases := []struct {
		name  string
		spec  string
		ftype rules.FieldType
		code  formspec.IssueCode
	}{
		{"unknown validator", "uuid", rules.TypeString, formspec.CodeUnknownValidator},
		{"email takes no argument", "email=yes", rules.TypeString, formspec.CodeMalformedDeclaration},
		{"min_length requires value", "min_length", rules.TypeString, formspec.CodeMalformedDeclaration},
		{"min_length requires integer", "min_length=three", rules.TypeString, formspec.CodeMalformedDeclaration},
		{"negative length rejected", "min_length=-1", rules.TypeString, formspec.CodeMalformedDeclaration},
		{"min_value on non-numeric field", "min_value=18", rules.TypeString, formspec.CodeTypeMismatch},
		{"fractional bound on int field", "min_value=18.5", rules.TypeInt, formspec.CodeTypeMismatch},
		{"negative bound on uint field", "min_value=-1", rules.TypeUint, formspec.CodeTypeMismatch},
		{"regex requires pattern", "regex", rules.TypeString, formspec.CodeMalformedDeclaration},
		{"compiled_regex requires id", "compiled_regex=", rules.TypeString, formspec.CodeMalformedDeclaration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, problems := ruleparse.Parse(tc.spec, tc.ftype)
			if len(problems) != 1 {
				t.Fatalf("expected one problem, got %+v", problems)
			}
			if problems[0].Code != tc.code {
				t.Fatalf("code = %s, want %s (message: %s)", problems[0].Code, tc.code, problems[0].Message)
			}
		})
	}
}

func TestParseCollectsEveryProblem(t *testing.T) {
	_, problems := ruleparse.Parse("uuid,min_length=three,email", rules.TypeString)
	if len(problems) != 2 {
		t.Fatalf("expected two problems, got %+v", problems)
	}
}
