// Package formspec defines the declarative input to the rule compiler and
// the immutable compiled form it produces. A Declaration is ordinary data:
// it can come from the builder API, struct tags, a YAML document, or an
// OpenAPI import, and it stays inert until compiled.
package formspec

import "github.com/goliatone/go-formval/pkg/rules"

// PatternDecl registers one named pattern at the form level.
type PatternDecl struct {
	ID   string
	Expr string
}

// FieldDecl describes one field and the ordered rules attached to it. Rule
// order is declaration order and fixes the evaluation (and therefore error)
// order.
type FieldDecl struct {
	Name     string
	Type     rules.FieldType
	Optional bool
	Rules    []rules.Rule
	// Messages overrides the generated failure message per rule kind.
	Messages map[rules.Kind]string
}

// Declaration is the unresolved description of one form. Compile turns it
// into a Form or rejects it with a BuildError.
type Declaration struct {
	Name     string
	Patterns []PatternDecl
	Fields   []FieldDecl
}

// Builder assembles a Declaration fluently. It performs no checking; every
// structural problem surfaces from Compile so diagnostics arrive in one
// batch.
type Builder struct {
	decl Declaration
}

// New starts a declaration for the named form.
func New(name string) *Builder {
	return &Builder{decl: Declaration{Name: name}}
}

// Pattern declares a named pattern scoped to the form.
func (b *Builder) Pattern(id, expr string) *Builder {
	b.decl.Patterns = append(b.decl.Patterns, PatternDecl{ID: id, Expr: expr})
	return b
}

// Field declares a field of the given type with its ordered rules.
func (b *Builder) Field(name string, ftype rules.FieldType, ruleList ...rules.Rule) *Builder {
	b.decl.Fields = append(b.decl.Fields, FieldDecl{
		Name:  name,
		Type:  ftype,
		Rules: append([]rules.Rule(nil), ruleList...),
	})
	return b
}

// Optional declares an optional field: when the value is absent at
// validation time every rule on the field is skipped.
func (b *Builder) Optional(name string, ftype rules.FieldType, ruleList ...rules.Rule) *Builder {
	b.Field(name, ftype, ruleList...)
	b.decl.Fields[len(b.decl.Fields)-1].Optional = true
	return b
}

// Message overrides the failure message for one rule kind on the most
// recently declared field.
func (b *Builder) Message(kind rules.Kind, message string) *Builder {
	if len(b.decl.Fields) == 0 {
		return b
	}
	field := &b.decl.Fields[len(b.decl.Fields)-1]
	if field.Messages == nil {
		field.Messages = make(map[rules.Kind]string)
	}
	field.Messages[kind] = message
	return b
}

// Declaration returns the assembled declaration.
func (b *Builder) Declaration() Declaration {
	return b.decl
}
