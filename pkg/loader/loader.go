// Package loader reads form declarations from YAML or JSON documents so
// validation rules can live next to deployment configuration instead of Go
// source. Loaded declarations compile through the same pipeline as builder
// and struct-tag declarations.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formval/internal/ruleparse"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Set holds the declarations collected from one filesystem walk.
type Set struct {
	declarations map[string]formspec.Declaration
}

// Declaration returns the named form's declaration.
func (s *Set) Declaration(name string) (formspec.Declaration, bool) {
	decl, ok := s.declarations[name]
	return decl, ok
}

// Names returns the loaded form names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.declarations))
	for name := range s.declarations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the walk found any declarations.
func (s *Set) Empty() bool { return s == nil || len(s.declarations) == 0 }

// LoadFS walks fsys and parses every .yaml/.yml/.json declaration file.
// A form name declared in two files is an error.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := &Set{declarations: make(map[string]formspec.Declaration)}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDeclarationFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		declarations, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, decl := range declarations {
			if _, exists := set.declarations[decl.Name]; exists {
				return fmt.Errorf("loader: duplicate form %q (file %s)", decl.Name, path)
			}
			set.declarations[decl.Name] = decl
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Patterns map[string]string `json:"patterns" yaml:"patterns"`
	Fields   []fieldFile       `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name     string            `json:"name" yaml:"name"`
	Type     string            `json:"type" yaml:"type"`
	Optional bool              `json:"optional" yaml:"optional"`
	Rules    []string          `json:"rules" yaml:"rules"`
	Match    string            `json:"match" yaml:"match"`
	Messages map[string]string `json:"messages" yaml:"messages"`
}

// Parse reads one declaration document. The source string is used for error
// context only.
func Parse(data []byte, source string) ([]formspec.Declaration, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("loader: file %s is empty", source)
	}

	var doc documentFile
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("loader: file %s declares no forms", source)
	}

	names := make([]string, 0, len(doc.Forms))
	for name := range doc.Forms {
		names = append(names, name)
	}
	sort.Strings(names)

	declarations := make([]formspec.Declaration, 0, len(names))
	for _, name := range names {
		decl, err := declareForm(name, doc.Forms[name], source)
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)
	}
	return declarations, nil
}

func declareForm(name string, form formFile, source string) (formspec.Declaration, error) {
	decl := formspec.Declaration{Name: name}

	patternIDs := make([]string, 0, len(form.Patterns))
	for id := range form.Patterns {
		patternIDs = append(patternIDs, id)
	}
	sort.Strings(patternIDs)
	for _, id := range patternIDs {
		decl.Patterns = append(decl.Patterns, formspec.PatternDecl{ID: id, Expr: form.Patterns[id]})
	}

	var issues []formspec.Issue
	for _, field := range form.Fields {
		fieldDecl, fieldIssues := declareField(name, field)
		issues = append(issues, fieldIssues...)
		decl.Fields = append(decl.Fields, fieldDecl)
	}
	if len(issues) > 0 {
		return formspec.Declaration{}, fmt.Errorf("loader: file %s: %w",
			source, &formspec.BuildError{Form: name, Issues: issues})
	}
	return decl, nil
}

func declareField(form string, field fieldFile) (formspec.FieldDecl, []formspec.Issue) {
	var issues []formspec.Issue

	ftype, ok := rules.ParseFieldType(field.Type)
	if !ok {
		issues = append(issues, formspec.Issue{
			Form:    form,
			Field:   field.Name,
			Code:    formspec.CodeUnsupportedType,
			Message: fmt.Sprintf("unknown field type %q", field.Type),
		})
	}

	decl := formspec.FieldDecl{Name: field.Name, Type: ftype, Optional: field.Optional}
	parsed, problems := ruleparse.Parse(strings.Join(field.Rules, ","), ftype)
	for _, problem := range problems {
		issues = append(issues, formspec.Issue{
			Form:    form,
			Field:   field.Name,
			Attr:    problem.Attr,
			Code:    problem.Code,
			Message: problem.Message,
		})
	}
	decl.Rules = parsed.Rules
	if parsed.Optional {
		decl.Optional = true
	}
	if field.Match != "" {
		decl.Rules = append(decl.Rules, rules.MatchField(field.Match))
	}

	if len(field.Messages) > 0 {
		decl.Messages = make(map[rules.Kind]string, len(field.Messages))
		for kind, message := range field.Messages {
			decl.Messages[rules.Kind(kind)] = sanitizeMessage(message)
		}
	}
	return decl, issues
}

func isDeclarationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
