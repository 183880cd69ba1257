// Command formval-lint compiles form declaration files and reports every
// build-time issue. It accepts YAML/JSON declaration documents and, with
// -openapi, OpenAPI documents whose request bodies are imported as forms.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-formval/internal/compiler"
	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/loader"
	"github.com/goliatone/go-formval/pkg/openapi"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	openapiMode := flag.Bool("openapi", false, "treat inputs as OpenAPI documents")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-openapi] paths...\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nCompile form declarations and report build-time issues.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, path, *openapiMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(ctx context.Context, path string, openapiMode bool) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var declarations []formspec.Declaration
	var violations []violation

	if openapiMode {
		result, err := openapi.Import(ctx, raw, openapi.WithPartialDocuments(true))
		if err != nil {
			return nil, err
		}
		for _, issue := range result.Issues {
			violations = append(violations, violation{
				file:     path,
				location: issue.Operation,
				message:  issue.String(),
			})
		}
		declarations = result.Declarations
	} else {
		declarations, err = loader.Parse(raw, path)
		if err != nil {
			var buildErr *formspec.BuildError
			if errors.As(err, &buildErr) {
				return buildViolations(path, buildErr), nil
			}
			return nil, err
		}
	}

	for _, decl := range declarations {
		if _, err := compiler.Compile(decl); err != nil {
			var buildErr *formspec.BuildError
			if !errors.As(err, &buildErr) {
				return nil, err
			}
			violations = append(violations, buildViolations(path, buildErr)...)
		}
	}
	return violations, nil
}

func buildViolations(path string, buildErr *formspec.BuildError) []violation {
	violations := make([]violation, 0, len(buildErr.Issues))
	for _, issue := range buildErr.Issues {
		location := issue.Form
		if issue.Field != "" {
			location += "." + issue.Field
		}
		violations = append(violations, violation{
			file:     path,
			location: location,
			message:  fmt.Sprintf("%s: %s", issue.Code, issue.Message),
		})
	}
	return violations
}
