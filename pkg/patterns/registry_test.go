package patterns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formval/pkg/patterns"
)

func TestRegistryDeclareAndResolve(t *testing.T) {
	registry := patterns.NewRegistry()

	entry, err := registry.Declare("password", `^.{8,}$`)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "password", entry.ID())
	assert.Equal(t, `^.{8,}$`, entry.Expr())
	assert.True(t, entry.MatchString("longenough"))
	assert.False(t, entry.MatchString("short"))

	resolved, err := registry.Resolve("password")
	require.NoError(t, err)
	assert.Same(t, entry, resolved, "resolve must return the shared compiled handle")
}

func TestRegistryDuplicateIdentifier(t *testing.T) {
	registry := patterns.NewRegistry()

	_, err := registry.Declare("id", `a+`)
	require.NoError(t, err)

	_, err = registry.Declare("id", `b+`)
	require.ErrorIs(t, err, patterns.ErrDuplicatePattern)
}

func TestRegistryInvalidPattern(t *testing.T) {
	registry := patterns.NewRegistry()

	_, err := registry.Declare("broken", `[unclosed`)
	require.ErrorIs(t, err, patterns.ErrInvalidPattern)
	assert.False(t, registry.Has("broken"))
}

func TestRegistryUnknownIdentifier(t *testing.T) {
	registry := patterns.NewRegistry()

	_, err := registry.Resolve("missing")
	require.ErrorIs(t, err, patterns.ErrUnknownPattern)
}

func TestRegistryEmptyIdentifier(t *testing.T) {
	registry := patterns.NewRegistry()

	_, err := registry.Declare("", `a`)
	require.ErrorIs(t, err, patterns.ErrInvalidPattern)
}

func TestDeclareBuiltinReusesEntry(t *testing.T) {
	registry := patterns.NewRegistry()

	first, err := registry.DeclareBuiltin(patterns.EmailID, patterns.EmailExpr)
	require.NoError(t, err)
	second, err := registry.DeclareBuiltin(patterns.EmailID, patterns.EmailExpr)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestBuiltinExpressions(t *testing.T) {
	registry := patterns.NewRegistry()

	email, err := registry.DeclareBuiltin(patterns.EmailID, patterns.EmailExpr)
	require.NoError(t, err)
	assert.True(t, email.MatchString("a@b.com"))
	assert.True(t, email.MatchString("first.last+tag@example.co.uk"))
	assert.False(t, email.MatchString("not-an-email"))
	assert.False(t, email.MatchString("missing@domain"))

	phone, err := registry.DeclareBuiltin(patterns.USPhoneID, patterns.USPhoneExpr)
	require.NoError(t, err)
	assert.True(t, phone.MatchString("555-123-4567"))
	assert.True(t, phone.MatchString("(555) 123-4567"))
	assert.True(t, phone.MatchString("+1 555.123.4567"))
	assert.False(t, phone.MatchString("12345"))
}

func TestRegistryIDsSorted(t *testing.T) {
	registry := patterns.NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		_, err := registry.Declare(id, `a`)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.IDs())
}
