// Package docstring parses human-written Python docstrings (NumPy, Google and
// reST field-list conventions) into a canonical model of parameter and return
// types. Parsing is best-effort and purely syntactic: type expressions are
// extracted as raw strings, never validated, and a docstring that cannot be
// parsed simply contributes nothing.
package docstring

import (
	"fmt"
	"regexp"
	"strings"
)

// Warning messages emitted through the diagnostic sink for documentation
// shapes the active options disallow.
const (
	YieldsNotAllowedMsg = "'Yields' is not allowed. Use 'Returns' with Iterator[], " +
		"or enable allow_yields"
	NamedResultsNotAllowedMsg = "Named results are not allowed. Use Tuple[] or " +
		"NamedTuple, or enable allow_named_results"
	returnAndYieldMsg = "types found for both return and yield"
)

// Arg is one extracted type annotation: the raw type expression exactly as
// written, and the line it appeared on as a zero-based offset from the start
// of the cleaned docstring.
type Arg struct {
	Type string
	Line int
}

// Params is an ordered parameter-name → Arg mapping. Insertion keeps
// first-occurrence order; re-inserting an existing name overwrites the value
// in place (last value wins).
type Params struct {
	names []string
	args  map[string]Arg
}

func (p *Params) Set(name string, arg Arg) {
	if p.args == nil {
		p.args = make(map[string]Arg)
	}
	if _, seen := p.args[name]; !seen {
		p.names = append(p.names, name)
	}
	p.args[name] = arg
}

func (p *Params) Get(name string) (Arg, bool) {
	arg, ok := p.args[name]
	return arg, ok
}

// Names returns parameter names in first-occurrence order.
func (p *Params) Names() []string {
	return p.names
}

func (p *Params) Len() int {
	return len(p.names)
}

// ParsedDocstring is the canonical, convention-independent parse result. The
// params mapping may be sparse: not every declared parameter need appear.
// Result is nil when the docstring documented neither a return nor a yield
// type.
type ParsedDocstring struct {
	Params Params
	Result *Arg
}

// Options control which documentation shapes may produce a result type.
type Options struct {
	// AllowNamedResults permits multi-value return/yield documentation to be
	// folded into a synthesized Tuple type.
	AllowNamedResults bool
	// AllowYields permits Yields sections to produce an Iterator result type.
	AllowYields bool
}

func DefaultOptions() Options {
	return Options{AllowNamedResults: true, AllowYields: true}
}

// convention binds a name to its detection patterns and raw parser.
type convention struct {
	name     string
	patterns []*regexp.Regexp
	parse    func(string) rawDocstring
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// conventions in fixed detection priority order. The reST convention is last
// and doubles as the fallback: plain field-list text needs no introducer
// pattern to be valid.
var conventions = []convention{
	{
		name: "numpy",
		patterns: compilePatterns(
			`(\n|^)Parameters\n----------\n`,
			`(\n|^)Returns\n-------\n`,
			`(\n|^)Yields\n------\n`,
		),
		parse: parseNumpy,
	},
	{
		name: "google",
		patterns: compilePatterns(
			`(\n|^)Args:\n`,
			`(\n|^)Returns:\n`,
			`(\n|^)Yields:\n`,
		),
		parse: parseGoogle,
	},
	{
		name: "rest",
		patterns: compilePatterns(
			`(\n|^):param `,
			`(\n|^):rtype:`,
			`(\n|^):Yields:`,
		),
		parse: restParse,
	},
}

// Conventions lists the supported convention names in detection order.
func Conventions() []string {
	names := make([]string, len(conventions))
	for i, c := range conventions {
		names[i] = c.name
	}
	return names
}

func conventionByName(name string) (convention, bool) {
	for _, c := range conventions {
		if c.name == name {
			return c, true
		}
	}
	return convention{}, false
}

// Detect classifies a docstring by scanning for each convention's section
// introducers in priority order. Detection is a pure function of the text and
// deliberately non-exclusive: the first convention with any match wins, and
// text matching nothing falls back to "rest".
func Detect(docstring string) string {
	cleaned := Clean(docstring)
	for _, c := range conventions {
		for _, re := range c.patterns {
			if re.MatchString(cleaned) {
				return c.name
			}
		}
	}
	return "rest"
}

// Clean dedents a docstring body the way conventional docstring handling
// does: the first line never counts toward the common indentation, and
// leading/trailing blank lines are removed. Backticks (cross-reference
// markup noise) are stripped.
func Clean(docstring string) string {
	lines := strings.Split(strings.ReplaceAll(docstring, "\t", strings.Repeat(" ", 8)), "\n")
	margin := -1
	for _, l := range lines[1:] {
		stripped := strings.TrimLeft(l, " ")
		if stripped == "" {
			continue
		}
		if ind := len(l) - len(stripped); margin < 0 || ind < margin {
			margin = ind
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i, l := range lines[1:] {
			if len(l) >= margin {
				lines[i+1] = l[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(l, " ")
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.ReplaceAll(strings.Join(lines, "\n"), "`", "")
}

// Parse parses a docstring into the canonical model.
//
// startLine is the source line the docstring begins on; it is added to the
// docstring-relative line of every diagnostic sent to sink. conventionName
// selects a parser explicitly ("numpy", "google" or "rest"); when empty the
// convention is detected from the text. An unknown explicit name is a
// configuration error and fails immediately — everything else degrades
// without error, worst case to an empty model.
func Parse(docstring string, startLine int, conventionName string, opts Options, sink Sink) (ParsedDocstring, error) {
	var conv convention
	if conventionName == "" {
		conv, _ = conventionByName(Detect(docstring))
	} else {
		var ok bool
		conv, ok = conventionByName(conventionName)
		if !ok {
			return ParsedDocstring{}, fmt.Errorf(
				"unknown docstring convention %q (supported: %s)",
				conventionName, strings.Join(Conventions(), ", "))
		}
	}
	if sink == nil {
		sink = NopSink{}
	}
	f := formatAdapter{startLine: startLine, opts: opts, sink: sink}
	return f.cast(conv.parse(Clean(docstring))), nil
}

// formatAdapter folds a raw convention-specific extraction into the canonical
// model, applying the shared shape policies.
type formatAdapter struct {
	startLine int
	opts      Options
	sink      Sink
}

func (f formatAdapter) warning(msg string, line int) {
	f.sink.Warning(msg, f.startLine+line)
}

func (f formatAdapter) cast(raw rawDocstring) ParsedDocstring {
	var parsed ParsedDocstring
	for _, field := range raw.params {
		typ := normalizeType(field.Arg.Type)
		if field.Name == "" || typ == "" {
			continue
		}
		parsed.Params.Set(field.Name, Arg{Type: typ, Line: field.Arg.Line})
	}
	if len(raw.returns) > 0 && len(raw.yields) > 0 {
		f.warning(returnAndYieldMsg, raw.returns[0].Line)
	}
	if len(raw.yields) > 0 {
		parsed.Result = f.castYields(raw.yields)
	} else {
		parsed.Result = f.castReturns(raw.returns)
	}
	return parsed
}

func (f formatAdapter) castReturns(returns []Arg) *Arg {
	switch {
	case len(returns) == 0:
		return nil
	case len(returns) == 1:
		typ := normalizeType(returns[0].Type)
		if typ == "" {
			return nil
		}
		return &Arg{Type: typ, Line: returns[0].Line}
	case f.opts.AllowNamedResults:
		// Named multi-value return: fold the typed entries into a tuple.
		// Entries documented with a name but no type are dropped.
		var types []string
		for _, r := range returns {
			if typ := normalizeType(r.Type); typ != "" {
				types = append(types, typ)
			}
		}
		if len(types) == 0 {
			return nil
		}
		return &Arg{
			Type: fmt.Sprintf("Tuple[%s]", strings.Join(types, ", ")),
			Line: returns[0].Line,
		}
	default:
		f.warning(NamedResultsNotAllowedMsg, returns[0].Line)
		return nil
	}
}

func (f formatAdapter) castYields(yields []Arg) *Arg {
	if !f.opts.AllowYields {
		f.warning(YieldsNotAllowedMsg, yields[0].Line)
		return nil
	}
	result := f.castReturns(yields)
	if result == nil {
		return nil
	}
	return &Arg{
		Type: fmt.Sprintf("Iterator[%s]", result.Type),
		Line: result.Line,
	}
}

// normalizeType collapses all internal whitespace runs, including newlines,
// to single spaces.
func normalizeType(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
