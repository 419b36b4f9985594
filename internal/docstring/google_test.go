package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleParamsAndReturns(t *testing.T) {
	doc := `Summary line.

Args:
    path (str): The path of the file to wrap.
    count (int): Number of things,
        wrapped onto a second line.
    untyped: no parenthesized type here.

Returns:
    bool: True on success.
`
	parsed := mustParse(t, doc, DefaultOptions(), nil)

	assert.Equal(t, []rawField{
		{Name: "path", Arg: Arg{Type: "str", Line: 3}},
		{Name: "count", Arg: Arg{Type: "int", Line: 4}},
	}, namedArgs(parsed.Params))

	require.NotNil(t, parsed.Result)
	assert.Equal(t, Arg{Type: "bool", Line: 9}, *parsed.Result)
}

func TestGoogleYields(t *testing.T) {
	doc := "Yields:\n    str: description\n"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	require.NotNil(t, parsed.Result)
	assert.Equal(t, Arg{Type: "Iterator[str]", Line: 1}, *parsed.Result)
}

func TestGoogleYieldsDisallowed(t *testing.T) {
	doc := "Yields:\n    str: description\n"
	sink := &recordingSink{}
	parsed := mustParse(t, doc, Options{AllowNamedResults: true, AllowYields: false}, sink)
	assert.Nil(t, parsed.Result)
	require.Len(t, sink.warnings, 1)
	assert.Equal(t, YieldsNotAllowedMsg, sink.warnings[0].Msg)
}

func TestGoogleHeaderRequiresIndentedBody(t *testing.T) {
	// A line that merely looks like a section header is prose when the next
	// line is not indented deeper.
	doc := "Args:\nnothing indented here\n"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	assert.Zero(t, parsed.Params.Len())
	assert.Nil(t, parsed.Result)
}

func TestGoogleSkipsUnrelatedSections(t *testing.T) {
	doc := `Args:
    x (int): a value.

Raises:
    ValueError: when x is negative.

Examples:
    >>> f(1)
`
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	assert.Equal(t, []string{"x"}, parsed.Params.Names())
	assert.Nil(t, parsed.Result)
}

func TestGoogleStarArgsEscaped(t *testing.T) {
	doc := `Args:
    *args (str): positional rest.
    **kwargs (int): keyword rest.
`
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	assert.Equal(t, []string{`\*args`, `\*\*kwargs`}, parsed.Params.Names())
}

func TestGoogleReturnsWithoutColonHasNoType(t *testing.T) {
	doc := "Returns:\n    just a description with no type\n"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	assert.Nil(t, parsed.Result)
}

func TestGoogleRoleMarkupInType(t *testing.T) {
	// Colons inside cross-reference roles must not confuse field splitting.
	doc := "Args:\n    x (:class:`Foo`): the foo to use.\n"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	arg, ok := parsed.Params.Get("x")
	require.True(t, ok)
	assert.Equal(t, ":class:Foo", arg.Type)
}
