// Package openapi imports validation declarations from OpenAPI documents.
// Request-body schema constraints (length bounds, numeric bounds, patterns,
// email formats, required lists) map onto the same rule IR produced by the
// builder and tag front-ends, so an API contract can drive server-side form
// validation without duplicating the rules.
package openapi

import (
	"context"

	internalopenapi "github.com/goliatone/go-formval/internal/openapi"
	"github.com/goliatone/go-formval/pkg/formspec"
)

// Options configures the importer.
type Options struct {
	// AllowPartialDocuments accepts documents without paths or operations.
	AllowPartialDocuments bool
	// ResolveReferences validates and resolves $ref targets before import.
	ResolveReferences bool
}

// Option mutates importer options.
type Option func(*Options)

// WithPartialDocuments accepts documents that do not declare any operations.
func WithPartialDocuments(allow bool) Option {
	return func(o *Options) { o.AllowPartialDocuments = allow }
}

// WithReferenceResolution toggles $ref resolution.
func WithReferenceResolution(resolve bool) Option {
	return func(o *Options) { o.ResolveReferences = resolve }
}

// Issue records a schema construct the importer could not express as a rule.
// Issues are advisory: the surrounding declaration still imports.
type Issue = internalopenapi.Issue

// Result carries the imported declarations plus any advisory issues.
type Result struct {
	Declarations []formspec.Declaration
	Issues       []Issue
}

// Import reads an OpenAPI document and derives one declaration per operation
// that carries a request body, named by operation id.
func Import(ctx context.Context, raw []byte, options ...Option) (Result, error) {
	var opts Options
	for _, opt := range options {
		opt(&opts)
	}
	declarations, issues, err := internalopenapi.Import(ctx, raw, internalopenapi.Options{
		AllowPartialDocuments: opts.AllowPartialDocuments,
		ResolveReferences:     opts.ResolveReferences,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Declarations: declarations, Issues: issues}, nil
}
