package pyscan

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `class Greeter:
    """Greets people."""

    def __init__(self, name):
        """
        :param name: who to greet
        :type name: str
        """
        self.name = name

    def greet(self, loud=False):
        # type: (bool) -> str
        """Say hello."""
        return "hi"

def top(a, b=1, *args, **kwargs):
    '''doc'''
    return a

async def fetch(
    url,
    timeout=5.0,
):  # notype
    pass
`

func scanSample(t *testing.T) *Module {
	t.Helper()
	mod := Scan(sampleSource)
	require.Len(t, mod.Functions, 4)
	return mod
}

func TestScanMethods(t *testing.T) {
	mod := scanSample(t)

	init := mod.Functions[0]
	assert.Equal(t, "__init__", init.Name)
	assert.True(t, init.IsMethod)
	assert.Equal(t, "Greeter", init.Class)
	assert.Equal(t, []string{"self", "name"}, init.Params)
	assert.Equal(t, 4, init.DefLine)
	assert.Equal(t, 5, init.DocLine)
	assert.Equal(t, 5, init.InsertLine)
	assert.Equal(t, "        ", init.Indent)
	assert.Contains(t, init.Docstring, ":type name: str")

	greet := mod.Functions[1]
	assert.Equal(t, "greet", greet.Name)
	assert.Equal(t, []string{"self", "loud"}, greet.Params)
	assert.Equal(t, 12, greet.TypeComment)
	assert.Equal(t, 12, greet.InsertLine)
	assert.Equal(t, "Say hello.", greet.Docstring)
	assert.Equal(t, 13, greet.DocLine)
}

func TestScanModuleLevelFunction(t *testing.T) {
	mod := scanSample(t)

	top := mod.Functions[2]
	assert.Equal(t, "top", top.Name)
	assert.False(t, top.IsMethod)
	assert.Empty(t, top.Class)
	assert.Equal(t, []string{"a", "b", "*args", "**kwargs"}, top.Params)
	assert.Equal(t, "doc", top.Docstring)
	assert.Equal(t, 17, top.InsertLine)
	assert.Equal(t, "    ", top.Indent)
}

func TestScanMultiLineAsyncDef(t *testing.T) {
	mod := scanSample(t)

	fetch := mod.Functions[3]
	assert.Equal(t, "fetch", fetch.Name)
	assert.Equal(t, []string{"url", "timeout"}, fetch.Params)
	assert.True(t, fetch.NoType)
	assert.Equal(t, 24, fetch.InsertLine)
	assert.Empty(t, fetch.Docstring)
}

func TestScanClassDocstrings(t *testing.T) {
	mod := scanSample(t)
	assert.Equal(t, ClassDoc{Text: "Greets people.", Line: 2}, mod.ClassDocs["Greeter"])
}

func TestScanNoTypeBodyComment(t *testing.T) {
	src := `def skipped():
    # notype
    """doc"""
    return 1
`
	mod := Scan(src)
	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.True(t, fn.NoType)
	assert.Zero(t, fn.TypeComment)
	assert.Equal(t, "doc", fn.Docstring)
	assert.Equal(t, 2, fn.InsertLine)
}

func TestScanNestedDefIsNotMethod(t *testing.T) {
	src := `class A:
    def outer(self):
        def inner(x):
            pass

    def second(self):
        pass
`
	mod := Scan(src)
	require.Len(t, mod.Functions, 3)

	assert.True(t, mod.Functions[0].IsMethod)

	inner := mod.Functions[1]
	assert.Equal(t, "inner", inner.Name)
	assert.False(t, inner.IsMethod)

	// dedenting back to class level restores method detection
	second := mod.Functions[2]
	assert.Equal(t, "second", second.Name)
	assert.True(t, second.IsMethod)
	assert.Equal(t, "A", second.Class)
}

func TestScanAnnotatedSignature(t *testing.T) {
	src := "def f(a: int, b: Dict[str, int] = {}, *, c: str = \"x\") -> bool:\n    pass\n"
	mod := Scan(src)
	require.Len(t, mod.Functions, 1)
	assert.Equal(t, []string{"a", "b", "c"}, mod.Functions[0].Params)
}

func TestScanFunctionWithoutDocstring(t *testing.T) {
	src := "def f(x):\n    return x\n"
	mod := Scan(src)
	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Empty(t, fn.Docstring)
	assert.Zero(t, fn.DocLine)
	assert.Equal(t, 2, fn.InsertLine)
}

func TestScanHashInsideStringIsNotComment(t *testing.T) {
	src := "def f(sep=\"#\"):\n    return sep\n"
	mod := Scan(src)
	require.Len(t, mod.Functions, 1)
	assert.Equal(t, []string{"sep"}, mod.Functions[0].Params)
}

func TestScanEmptyAndDeflessSource(t *testing.T) {
	for _, src := range []string{"", "x = 1\n", "# just a comment\n"} {
		mod := Scan(src)
		assert.Empty(t, mod.Functions, "source %q", src)
	}
}

func TestScanFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "mod.py", []byte(sampleSource), 0o644))

	mod, err := ScanFile(fs, "mod.py")
	require.NoError(t, err)
	assert.Len(t, mod.Functions, 4)

	_, err = ScanFile(fs, "missing.py")
	assert.Error(t, err)
}
