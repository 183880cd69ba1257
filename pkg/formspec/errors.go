package formspec

import (
	"fmt"
	"strings"
)

// IssueCode classifies one build-time defect in a declaration.
type IssueCode string

const (
	CodeMalformedDeclaration IssueCode = "malformed_declaration"
	CodeUnknownValidator     IssueCode = "unknown_validator"
	CodeDuplicatePattern     IssueCode = "duplicate_pattern"
	CodeInvalidPattern       IssueCode = "invalid_pattern"
	CodeUnknownPatternRef    IssueCode = "unknown_pattern_ref"
	CodeUnknownMatchTarget   IssueCode = "unknown_match_target"
	CodeTypeMismatch         IssueCode = "type_mismatch"
	CodeUnsupportedType      IssueCode = "unsupported_type"
)

// Issue is one build-time diagnostic with enough context to fix the
// offending declaration.
type Issue struct {
	Form    string
	Field   string
	Attr    string
	Code    IssueCode
	Message string
}

func (i Issue) String() string {
	location := i.Form
	if i.Field != "" {
		location += "." + i.Field
	}
	if i.Attr != "" {
		location += " (" + i.Attr + ")"
	}
	return fmt.Sprintf("%s: %s: %s", location, i.Code, i.Message)
}

// BuildError aggregates every issue found while compiling one declaration.
// The compiler runs the whole declaration before failing, so a single
// compile reports all defects at once.
type BuildError struct {
	Form   string
	Issues []Issue
}

func (e *BuildError) Error() string {
	if len(e.Issues) == 1 {
		return "formspec: " + e.Issues[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "formspec: %d issues in form %s:", len(e.Issues), e.Form)
	for _, issue := range e.Issues {
		sb.WriteString("\n\t")
		sb.WriteString(issue.String())
	}
	return sb.String()
}

// HasCode reports whether any collected issue carries the given code.
func (e *BuildError) HasCode(code IssueCode) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
