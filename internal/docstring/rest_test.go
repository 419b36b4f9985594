package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestBasicFields(t *testing.T) {
	doc := `
:param path: The path of the :obj:` + "`file`" + ` to wrap
:type path: str
:param basic_type: basic type description
:type basic_type: bool`
	parsed := mustParse(t, doc, DefaultOptions(), nil)

	assert.Equal(t, []rawField{
		{Name: "path", Arg: Arg{Type: "str", Line: 1}},
		{Name: "basic_type", Arg: Arg{Type: "bool", Line: 3}},
	}, namedArgs(parsed.Params))
	assert.Nil(t, parsed.Result)
}

func TestRestComplexTypes(t *testing.T) {
	doc := `:param complex: a compound type
:type complex: Union[Dict[str, int], str]
:param multiline: type spanning multiple lines
:type multiline: Union[Dict[str,int],
    List[Tuple[str, int]]]
:param  whitespace: leading and trailing whitespace
:type  whitespace:   Union[Dict[str, int], str]
:param leading_newline: type starts on the next line
:type leading_newline:
    Union[Dict[str, int], str]`
	parsed := mustParse(t, doc, DefaultOptions(), nil)

	assert.Equal(t, []rawField{
		{Name: "complex", Arg: Arg{Type: "Union[Dict[str, int], str]", Line: 1}},
		{Name: "multiline", Arg: Arg{Type: "Union[Dict[str,int], List[Tuple[str, int]]]", Line: 3}},
		{Name: "whitespace", Arg: Arg{Type: "Union[Dict[str, int], str]", Line: 6}},
		{Name: "leading_newline", Arg: Arg{Type: "Union[Dict[str, int], str]", Line: 8}},
	}, namedArgs(parsed.Params))
}

func TestRestCustomTypeWithRole(t *testing.T) {
	doc := ":param custom_type: The :class:`CustomType` instance to wrap\n" +
		":type custom_type: CustomType"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	arg, ok := parsed.Params.Get("custom_type")
	require.True(t, ok)
	assert.Equal(t, "CustomType", arg.Type)
}

func TestRestParamWithoutTypeField(t *testing.T) {
	// A :param: with no matching :type: contributes nothing.
	doc := ":param missing_type: parameter that has no type pair\n" +
		":type  missing_param: bool"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	assert.Equal(t, []string{"missing_param"}, parsed.Params.Names())
}

func TestRestReturns(t *testing.T) {
	doc := ":returns: simple return value\n:rtype: bool"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	require.NotNil(t, parsed.Result)
	assert.Equal(t, Arg{Type: "bool", Line: 1}, *parsed.Result)
}

func TestRestEmptyFieldsAreSkipped(t *testing.T) {
	doc := ":returns:\n:rtype:"
	sink := &recordingSink{}
	parsed := mustParse(t, doc, DefaultOptions(), sink)
	assert.Nil(t, parsed.Result)
	assert.Zero(t, parsed.Params.Len())
	assert.Empty(t, sink.warnings)
	assert.Empty(t, sink.errors)
}

func TestRestNamedMultiReturn(t *testing.T) {
	doc := `:param x: an input
:type x: int
:returns: * **result1** (*str*) -- Description of first item
          * **result2** (*bool*)
          * *other stuff that is not a return value.*`

	t.Run("allowed", func(t *testing.T) {
		parsed := mustParse(t, doc, DefaultOptions(), nil)
		require.NotNil(t, parsed.Result)
		// untyped bullet items are dropped from the tuple
		assert.Equal(t, "Tuple[str, bool]", parsed.Result.Type)
	})

	t.Run("disallowed", func(t *testing.T) {
		sink := &recordingSink{}
		parsed := mustParse(t, doc, Options{AllowNamedResults: false, AllowYields: true}, sink)
		assert.Nil(t, parsed.Result)
		require.Len(t, sink.warnings, 1)
		assert.Equal(t, NamedResultsNotAllowedMsg, sink.warnings[0].Msg)
	})
}

func TestRestYields(t *testing.T) {
	doc := ":Yields: *bool* -- Description of yielded value."
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	require.NotNil(t, parsed.Result)
	assert.Equal(t, "Iterator[bool]", parsed.Result.Type)
}

func TestRestYieldsWithoutDescription(t *testing.T) {
	doc := ":Yields: *bool*"
	parsed := mustParse(t, doc, DefaultOptions(), nil)
	require.NotNil(t, parsed.Result)
	assert.Equal(t, "Iterator[bool]", parsed.Result.Type)
}

func TestRestMalformedMarkupDoesNotCrash(t *testing.T) {
	docs := []string{
		"::\n:::\n",
		":param \n:type : \n",
		": not a field\n",
		":type x:",
	}
	for _, doc := range docs {
		parsed := mustParse(t, doc, DefaultOptions(), nil)
		assert.Zero(t, parsed.Params.Len(), "doc %q", doc)
		assert.Nil(t, parsed.Result)
	}
}
