package formspec

import (
	"github.com/goliatone/go-formval/pkg/patterns"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Check is one resolved rule: the declared rule plus whatever the resolver
// bound it to, such as a compiled pattern for regex-backed kinds, the target
// field index for match rules, and the message override when the declaration
// carries one.
type Check struct {
	Rule    rules.Rule
	Pattern *patterns.Entry
	// Target is the index of the matched field within the form. Valid only
	// for match rules.
	Target  int
	Message string
}

// Field is one compiled field: name, declared type, optional flag and the
// ordered resolved checks.
type Field struct {
	name     string
	ftype    rules.FieldType
	optional bool
	checks   []Check
}

// Name returns the declared field name.
func (f Field) Name() string { return f.name }

// Type returns the declared field type.
func (f Field) Type() rules.FieldType { return f.ftype }

// Optional reports whether an absent value skips the field's rules.
func (f Field) Optional() bool { return f.optional }

// Checks returns the resolved checks in declaration order.
func (f Field) Checks() []Check { return f.checks }

// Form is the compiled, immutable description of one form's validation
// rules. Parsing and resolution never run again after Compile; at run time
// only the checks and the owned pattern registry are consulted. A Form is
// safe for concurrent use.
type Form struct {
	name     string
	fields   []Field
	registry *patterns.Registry
}

// Name returns the form name.
func (f *Form) Name() string { return f.name }

// Fields returns the compiled fields in declaration order.
func (f *Form) Fields() []Field { return f.fields }

// FieldIndex returns the position of the named field, or -1.
func (f *Form) FieldIndex(name string) int {
	for i, field := range f.fields {
		if field.name == name {
			return i
		}
	}
	return -1
}

// Registry exposes the form's pattern table.
func (f *Form) Registry() *patterns.Registry { return f.registry }

// NewForm assembles a compiled form. It is exported for the compiler and the
// test support code; library consumers obtain Forms from Compile.
func NewForm(name string, fields []Field, registry *patterns.Registry) *Form {
	return &Form{name: name, fields: fields, registry: registry}
}

// NewField assembles a compiled field for NewForm.
func NewField(name string, ftype rules.FieldType, optional bool, checks []Check) Field {
	return Field{name: name, ftype: ftype, optional: optional, checks: checks}
}
