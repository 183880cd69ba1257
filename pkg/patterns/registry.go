// Package patterns holds the per-form table of named, pre-compiled regular
// expressions. A pattern is compiled exactly once per identifier and the
// compiled handle is shared by every field that references it, so two
// password fields can reuse one expression without recompiling it.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

var (
	// ErrDuplicatePattern reports an identifier declared twice in one scope.
	ErrDuplicatePattern = errors.New("patterns: duplicate identifier")
	// ErrInvalidPattern reports an expression that does not compile.
	ErrInvalidPattern = errors.New("patterns: invalid expression")
	// ErrUnknownPattern reports a reference to an undeclared identifier.
	ErrUnknownPattern = errors.New("patterns: unknown identifier")
)

// Entry is one named, compiled pattern. Immutable after creation.
type Entry struct {
	id   string
	expr string
	re   *regexp.Regexp
}

// ID returns the identifier the entry was declared under.
func (e *Entry) ID() string { return e.id }

// Expr returns the source expression text.
func (e *Entry) Expr() string { return e.expr }

// MatchString reports whether the compiled pattern matches s.
func (e *Entry) MatchString(s string) bool { return e.re.MatchString(s) }

// Registry maps identifiers to compiled patterns within one form's scope.
// Declarations happen during the build step only; after that the registry is
// read-only and safe for concurrent use.
type Registry struct {
	entries map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Declare compiles expr under id. It fails with ErrDuplicatePattern when the
// identifier is already taken and ErrInvalidPattern when the expression does
// not compile.
func (r *Registry) Declare(id, expr string) (*Entry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidPattern)
	}
	if _, exists := r.entries[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, id)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, id, err)
	}
	entry := &Entry{id: id, expr: expr, re: re}
	r.entries[id] = entry
	return entry, nil
}

// Resolve returns the entry declared under id, or ErrUnknownPattern.
func (r *Registry) Resolve(id string) (*Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}
	return entry, nil
}

// Has reports whether id is declared.
func (r *Registry) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs returns the declared identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
