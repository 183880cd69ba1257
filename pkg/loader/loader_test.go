package loader_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/loader"
	"github.com/goliatone/go-formval/pkg/rules"
)

var literalComparer = cmp.Comparer(func(a, b rules.Literal) bool {
	return a.Type == b.Type && a.String() == b.String()
})

const signupYAML = `
forms:
  signup:
    patterns:
      password: "^.{8,}$"
    fields:
      - name: email
        type: string
        rules: ["email"]
      - name: password
        type: string
        rules: ["compiled_regex=password"]
        messages:
          compiled_regex: "<b>password</b> must be at least 8 characters"
      - name: password2
        type: string
        match: password
      - name: age
        type: int
        optional: true
        rules: ["min_value=18"]
`

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/signup.yaml": &fstest.MapFile{Data: []byte(signupYAML)},
	}

	set, err := loader.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Empty() {
		t.Fatal("expected declarations")
	}

	decl, ok := set.Declaration("signup")
	if !ok {
		t.Fatalf("signup not loaded; have %v", set.Names())
	}

	want := formspec.Declaration{
		Name:     "signup",
		Patterns: []formspec.PatternDecl{{ID: "password", Expr: `^.{8,}$`}},
		Fields: []formspec.FieldDecl{
			{Name: "email", Type: rules.TypeString, Rules: []rules.Rule{rules.Email()}},
			{
				Name:  "password",
				Type:  rules.TypeString,
				Rules: []rules.Rule{rules.CompiledRegex("password")},
				Messages: map[rules.Kind]string{
					rules.KindCompiledRegex: "password must be at least 8 characters",
				},
			},
			{Name: "password2", Type: rules.TypeString, Rules: []rules.Rule{rules.MatchField("password")}},
			{Name: "age", Type: rules.TypeInt, Optional: true, Rules: []rules.Rule{rules.MinValue(18)}},
		},
	}
	if diff := cmp.Diff(want, decl, literalComparer); diff != "" {
		t.Fatalf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSMessageSanitization(t *testing.T) {
	fsys := fstest.MapFS{
		"signup.yaml": &fstest.MapFile{Data: []byte(signupYAML)},
	}
	set, err := loader.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	decl, _ := set.Declaration("signup")
	message := decl.Fields[1].Messages[rules.KindCompiledRegex]
	if strings.Contains(message, "<") {
		t.Fatalf("markup must be stripped from messages, got %q", message)
	}
}

func TestLoadFSJSONDocument(t *testing.T) {
	doc := `{
  "forms": {
    "login": {
      "fields": [
        {"name": "username", "type": "string", "rules": ["min_length=3"]}
      ]
    }
  }
}`
	fsys := fstest.MapFS{
		"login.json": &fstest.MapFile{Data: []byte(doc)},
	}
	set, err := loader.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	decl, ok := set.Declaration("login")
	if !ok {
		t.Fatal("login not loaded")
	}
	if len(decl.Fields) != 1 || decl.Fields[0].Name != "username" {
		t.Fatalf("unexpected fields: %+v", decl.Fields)
	}
}

func TestLoadFSDuplicateForm(t *testing.T) {
	doc := `
forms:
  login:
    fields:
      - name: username
        type: string
        rules: ["min_length=3"]
`
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte(doc)},
		"b.yaml": &fstest.MapFile{Data: []byte(doc)},
	}
	if _, err := loader.LoadFS(fsys); err == nil {
		t.Fatal("expected duplicate form error")
	}
}

func TestParseRejectsBadRuleText(t *testing.T) {
	doc := `
forms:
  login:
    fields:
      - name: username
        type: string
        rules: ["uuid"]
`
	if _, err := loader.Parse([]byte(doc), "login.yaml"); err == nil {
		t.Fatal("expected rule parse error")
	}
}

func TestParseRejectsUnknownType(t *testing.T) {
	doc := `
forms:
  login:
    fields:
      - name: username
        type: text
        rules: ["min_length=3"]
`
	if _, err := loader.Parse([]byte(doc), "login.yaml"); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	if _, err := loader.Parse([]byte("   "), "empty.yaml"); err == nil {
		t.Fatal("expected empty document error")
	}
}

func TestLoadFSIgnoresOtherFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"README.md": &fstest.MapFile{Data: []byte("# nope")},
	}
	set, err := loader.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !set.Empty() {
		t.Fatal("expected empty set")
	}
}
