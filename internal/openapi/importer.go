// Package openapi converts OpenAPI request-body schemas into form
// declarations using kin-openapi.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
)

// Options mirrors pkg/openapi.Options for the internal implementation.
type Options struct {
	AllowPartialDocuments bool
	ResolveReferences     bool
}

// Issue records one schema construct the importer skipped.
type Issue struct {
	Operation string
	Field     string
	Message   string
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %s", i.Operation, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Operation, i.Field, i.Message)
}

// Import loads the document and derives one declaration per operation with
// a request body. Properties are visited in sorted order so repeated imports
// of the same document produce identical declarations.
func Import(ctx context.Context, raw []byte, opts Options) ([]formspec.Declaration, []Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, errors.New("openapi importer: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("openapi importer: load document: %w", err)
	}
	if opts.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, nil, fmt.Errorf("openapi importer: validate: %w", err)
		}
	}
	if (spec.Paths == nil || spec.Paths.Len() == 0) && !opts.AllowPartialDocuments {
		return nil, nil, errors.New("openapi importer: document does not contain any paths")
	}

	imp := &importer{}
	if spec.Paths != nil {
		paths := make([]string, 0, spec.Paths.Len())
		for path := range spec.Paths.Map() {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			item := spec.Paths.Map()[path]
			if item == nil {
				continue
			}
			for _, method := range []string{"POST", "PUT", "PATCH"} {
				imp.collect(method, path, item.GetOperation(method))
			}
		}
	}

	if len(imp.declarations) == 0 && !opts.AllowPartialDocuments {
		return nil, nil, errors.New("openapi importer: no operations with request bodies found")
	}
	return imp.declarations, imp.issues, nil
}

type importer struct {
	declarations []formspec.Declaration
	issues       []Issue
}

func (imp *importer) note(operation, field, format string, args ...any) {
	imp.issues = append(imp.issues, Issue{
		Operation: operation,
		Field:     field,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (imp *importer) collect(method, path string, op *openapi3.Operation) {
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return
	}
	opID := op.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}

	schema := requestSchema(op.RequestBody.Value.Content)
	if schema == nil {
		imp.note(opID, "", "request body has no usable schema")
		return
	}
	if !schemaIs(schema, "object") || len(schema.Properties) == 0 {
		imp.note(opID, "", "request body is not a flat object schema")
		return
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	decl := formspec.Declaration{Name: opID}
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			imp.note(opID, name, "unresolved property reference")
			continue
		}
		_, isRequired := required[name]
		field, ok := imp.property(opID, name, ref.Value, isRequired)
		if ok {
			decl.Fields = append(decl.Fields, field)
		}
	}
	if len(decl.Fields) == 0 {
		imp.note(opID, "", "no properties could be imported")
		return
	}
	imp.declarations = append(imp.declarations, decl)
}

func (imp *importer) property(opID, name string, schema *openapi3.Schema, required bool) (formspec.FieldDecl, bool) {
	ftype, ok := fieldType(schema)
	if !ok {
		imp.note(opID, name, "unsupported property type %q", schemaType(schema))
		return formspec.FieldDecl{}, false
	}

	field := formspec.FieldDecl{Name: name, Type: ftype, Optional: !required}

	if ftype == rules.TypeString {
		if schema.Format == "email" {
			field.Rules = append(field.Rules, rules.Email())
		}
		if schema.MinLength != 0 {
			field.Rules = append(field.Rules, rules.MinLength(uint(schema.MinLength)))
		}
		if schema.MaxLength != nil {
			field.Rules = append(field.Rules, rules.MaxLength(uint(*schema.MaxLength)))
		}
		if schema.Pattern != "" {
			field.Rules = append(field.Rules, rules.Regex(schema.Pattern))
		}
	}

	if ftype.IsNumeric() {
		if schema.Min != nil {
			if schema.ExclusiveMin {
				imp.note(opID, name, "exclusive minimum is not supported; bound skipped")
			} else if rule, ok := boundRule(rules.KindMinValue, *schema.Min, ftype); ok {
				field.Rules = append(field.Rules, rule)
			} else {
				imp.note(opID, name, "minimum %v does not fit %s; bound skipped", *schema.Min, ftype)
			}
		}
		if schema.Max != nil {
			if schema.ExclusiveMax {
				imp.note(opID, name, "exclusive maximum is not supported; bound skipped")
			} else if rule, ok := boundRule(rules.KindMaxValue, *schema.Max, ftype); ok {
				field.Rules = append(field.Rules, rule)
			} else {
				imp.note(opID, name, "maximum %v does not fit %s; bound skipped", *schema.Max, ftype)
			}
		}
	}

	return field, true
}

func boundRule(kind rules.Kind, bound float64, ftype rules.FieldType) (rules.Rule, bool) {
	if !ftype.IsFloat() && math.Trunc(bound) != bound {
		return rules.Rule{}, false
	}
	literal, ok := rules.ParseLiteral(formatBound(bound, ftype), ftype)
	if !ok {
		return rules.Rule{}, false
	}
	return rules.Rule{Kind: kind, Bound: literal}, true
}

func formatBound(bound float64, ftype rules.FieldType) string {
	if ftype.IsFloat() {
		return fmt.Sprintf("%g", bound)
	}
	return fmt.Sprintf("%d", int64(bound))
}

func requestSchema(content openapi3.Content) *openapi3.Schema {
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldType(schema *openapi3.Schema) (rules.FieldType, bool) {
	switch schemaType(schema) {
	case "string":
		return rules.TypeString, true
	case "boolean":
		return rules.TypeBool, true
	case "integer":
		if schema.Format == "int32" {
			return rules.TypeInt32, true
		}
		return rules.TypeInt64, true
	case "number":
		if schema.Format == "float" {
			return rules.TypeFloat32, true
		}
		return rules.TypeFloat64, true
	default:
		return rules.TypeInvalid, false
	}
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func schemaIs(schema *openapi3.Schema, t string) bool {
	if schema.Type == nil {
		// Schemas without an explicit type but with properties behave as
		// objects in practice.
		return t == "object" && len(schema.Properties) > 0
	}
	return schema.Type.Is(t)
}
