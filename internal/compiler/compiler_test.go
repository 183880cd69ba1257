package compiler_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formval/internal/compiler"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

func buildError(t *testing.T, err error) *formspec.BuildError {
	t.Helper()
	if err == nil {
		t.Fatal("expected a build error")
	}
	var buildErr *formspec.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected *formspec.BuildError, got %T: %v", err, err)
	}
	return buildErr
}

func TestCompileResolvesReferences(t *testing.T) {
	decl := formspec.New("SignupForm").
		Pattern("password", `^.{8,}$`).
		Field("Email", rules.TypeString, rules.Email()).
		Field("Password", rules.TypeString, rules.CompiledRegex("password")).
		Field("Password2", rules.TypeString, rules.CompiledRegex("password"), rules.MatchField("Password")).
		Declaration()

	form, err := compiler.Compile(decl)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if got := len(form.Fields()); got != 3 {
		t.Fatalf("expected 3 fields, got %d", got)
	}

	password := form.Fields()[1].Checks()[0]
	password2 := form.Fields()[2].Checks()[0]
	if password.Pattern == nil || password.Pattern != password2.Pattern {
		t.Fatal("compiled_regex references must share one compiled pattern handle")
	}

	match := form.Fields()[2].Checks()[1]
	if match.Target != 1 {
		t.Fatalf("match target index = %d, want 1", match.Target)
	}
}

func TestCompileDeclaresAdHocRegexOnce(t *testing.T) {
	decl := formspec.New("Form").
		Field("Code", rules.TypeString, rules.Regex(`^\d+$`), rules.Regex(`^.{2,}$`)).
		Declaration()

	form, err := compiler.Compile(decl)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	registry := form.Registry()
	if !registry.Has("form_regex_Code_1") || !registry.Has("form_regex_Code_2") {
		t.Fatalf("expected deterministic ad hoc pattern ids, have %v", registry.IDs())
	}
}

func TestCompileUnknownPatternRef(t *testing.T) {
	decl := formspec.New("Form").
		Field("Password", rules.TypeString, rules.CompiledRegex("missing_id")).
		Declaration()

	_, err := compiler.Compile(decl)
	buildErr := buildError(t, err)
	if !buildErr.HasCode(formspec.CodeUnknownPatternRef) {
		t.Fatalf("expected unknown_pattern_ref, got %v", buildErr)
	}
}

func TestCompileUnknownMatchTarget(t *testing.T) {
	decl := formspec.New("Form").
		Field("Password2", rules.TypeString, rules.MatchField("Password")).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeUnknownMatchTarget) {
		t.Fatal("expected unknown_match_target")
	}
}

func TestCompileMatchTypeIdentity(t *testing.T) {
	decl := formspec.New("Form").
		Field("Count", rules.TypeInt).
		Field("CountText", rules.TypeString, rules.MatchField("Count")).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeTypeMismatch) {
		t.Fatal("expected type_mismatch for differently typed match target")
	}
}

func TestCompileMatchSelfTarget(t *testing.T) {
	decl := formspec.New("Form").
		Field("Password", rules.TypeString, rules.MatchField("Password")).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeUnknownMatchTarget) {
		t.Fatal("expected rejection of self-referencing match")
	}
}

func TestCompileBoundLiteralTypeIdentity(t *testing.T) {
	// int64 literal on an int32 field: exact type identity is required.
	decl := formspec.New("Form").
		Field("Age", rules.TypeInt32, rules.MinValue(int64(18))).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeTypeMismatch) {
		t.Fatal("expected type_mismatch for bound literal of the wrong numeric type")
	}
}

func TestCompileBoundOnNonNumericField(t *testing.T) {
	decl := formspec.New("Form").
		Field("Name", rules.TypeString, rules.MinValue(18)).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeTypeMismatch) {
		t.Fatal("expected type_mismatch for min_value on a string field")
	}
}

func TestCompileLengthOnNonStringField(t *testing.T) {
	decl := formspec.New("Form").
		Field("Age", rules.TypeInt, rules.MinLength(3)).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeTypeMismatch) {
		t.Fatal("expected type_mismatch for min_length on an int field")
	}
}

func TestCompileDuplicatePattern(t *testing.T) {
	decl := formspec.New("Form").
		Pattern("pwd", `a+`).
		Pattern("pwd", `b+`).
		Field("Name", rules.TypeString).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeDuplicatePattern) {
		t.Fatal("expected duplicate_pattern")
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	decl := formspec.New("Form").
		Pattern("broken", `[unclosed`).
		Field("Name", rules.TypeString).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeInvalidPattern) {
		t.Fatal("expected invalid_pattern")
	}
}

func TestCompileCollectsAllIssues(t *testing.T) {
	decl := formspec.New("Form").
		Pattern("broken", `[unclosed`).
		Field("Password", rules.TypeString, rules.CompiledRegex("missing")).
		Field("Password2", rules.TypeString, rules.MatchField("Nope")).
		Field("Age", rules.TypeInt, rules.MinValue(int64(18))).
		Declaration()

	_, err := compiler.Compile(decl)
	buildErr := buildError(t, err)
	if len(buildErr.Issues) != 4 {
		t.Fatalf("expected 4 collected issues, got %d: %v", len(buildErr.Issues), buildErr)
	}
}

func TestCompileDuplicateFieldNames(t *testing.T) {
	decl := formspec.New("Form").
		Field("Name", rules.TypeString).
		Field("Name", rules.TypeString).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeMalformedDeclaration) {
		t.Fatal("expected malformed_declaration for duplicate field")
	}
}

func TestCompileEmailRequiresStringField(t *testing.T) {
	decl := formspec.New("Form").
		Field("Age", rules.TypeInt, rules.Email()).
		Declaration()

	_, err := compiler.Compile(decl)
	if !buildError(t, err).HasCode(formspec.CodeTypeMismatch) {
		t.Fatal("expected type_mismatch for email on an int field")
	}
}
