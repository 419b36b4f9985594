package docstring

import (
	"regexp"
	"strings"
)

// rawField is a single extracted parameter entry before canonicalization.
type rawField struct {
	Name string
	Arg  Arg
}

// rawDocstring is the convention-specific extraction before it is cast into a
// ParsedDocstring. Returns and yields are lists because a docstring may
// describe a multi-valued result as several named fields.
type rawDocstring struct {
	params  []rawField
	returns []Arg
	yields  []Arg
}

type sectionKind int

const (
	sectionSkip sectionKind = iota
	sectionParams
	sectionReturns
	sectionYields
)

// sectionTable maps lowercased section names to their handler kind. Names not
// present here are not recognized as sections at all.
var sectionTable = map[string]sectionKind{
	"args":              sectionParams,
	"arguments":         sectionParams,
	"parameters":        sectionParams,
	"return":            sectionReturns,
	"returns":           sectionReturns,
	"yield":             sectionYields,
	"yields":            sectionYields,
	"attributes":        sectionSkip,
	"example":           sectionSkip,
	"examples":          sectionSkip,
	"keyword args":      sectionSkip,
	"keyword arguments": sectionSkip,
	"methods":           sectionSkip,
	"note":              sectionSkip,
	"notes":             sectionSkip,
	"other parameters":  sectionSkip,
	"raises":            sectionSkip,
	"references":        sectionSkip,
	"see also":          sectionSkip,
	"todo":              sectionSkip,
	"warning":           sectionSkip,
	"warnings":          sectionSkip,
	"warns":             sectionSkip,
}

var (
	directiveRe      = regexp.MustCompile(`^\.\. \S+::`)
	googleSectionRe  = regexp.MustCompile(`^[\s\w]+:\s*$`)
	googleTypedArgRe = regexp.MustCompile(`^\s*(.+?)\s*\(\s*(.+?)\s*\)`)
	numpySectionRe   = regexp.MustCompile("^[=\\-`:'\"~^_*+#<>]{2,}\\s*$")
	// Backtick-quoted forms plus the bare ":role:target" shape left behind
	// once Clean has stripped backticks.
	xrefRe = regexp.MustCompile("(:\\w+:\\S+:`.+?`|:\\S+:`.+?`|`.+?`|:\\w+:\\S+)")
)

// sectionSyntax is the convention-specific part of the section state machine.
// Google- and NumPy-style docstrings run the same parse loop and differ only
// in how headers, breaks and fields are recognized.
type sectionSyntax interface {
	isSectionHeader(p *sectionParser) bool
	consumeSectionHeader(p *sectionParser) string
	isSectionBreak(p *sectionParser) bool
	consumeField(p *sectionParser, parseType, preferType bool) rawField
	consumeReturnsSection(p *sectionParser) []Arg
}

// sectionParser drives the shared state machine over docstring lines,
// dispatching recognized sections to their handlers.
type sectionParser struct {
	cur           *cursor
	syn           sectionSyntax
	inSection     bool
	sectionIndent int
	out           rawDocstring
}

func parseSections(doc string, syn sectionSyntax) rawDocstring {
	p := &sectionParser{cur: newCursor(doc), syn: syn}
	p.run()
	return p.out
}

func (p *sectionParser) run() {
	p.consumeEmpty()
	for p.cur.HasNext() {
		if !p.syn.isSectionHeader(p) {
			p.consumeToNextSection()
			continue
		}
		name := p.syn.consumeSectionHeader(p)
		p.inSection = true
		p.sectionIndent = p.currentIndent(0)
		switch sectionTable[strings.ToLower(strings.TrimSpace(name))] {
		case sectionParams:
			p.out.params = p.consumeFields(true, false)
		case sectionReturns:
			p.out.returns = p.syn.consumeReturnsSection(p)
		case sectionYields:
			p.out.yields = p.syn.consumeReturnsSection(p)
		default:
			// Recognized-but-ignored sections and directives.
			p.consumeToNextSection()
		}
		p.inSection = false
		p.sectionIndent = 0
	}
}

// consumeEmpty consumes blank lines.
func (p *sectionParser) consumeEmpty() {
	for {
		line, ok := p.cur.Peek(0)
		if !ok || line.Text != "" {
			return
		}
		p.cur.Next()
	}
}

// consumeToNextSection discards leading blank lines, then collects everything
// up to the next section break, including any trailing blank lines.
func (p *sectionParser) consumeToNextSection() []Line {
	p.consumeEmpty()
	var lines []Line
	for !p.syn.isSectionBreak(p) {
		line, ok := p.cur.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	for {
		line, ok := p.cur.Peek(0)
		if !ok || line.Text != "" {
			break
		}
		p.cur.Next()
		lines = append(lines, line)
	}
	return lines
}

// consumeIndentedBlock discards a field's description block: lines that are
// blank or indented at least `indent` columns, up to the next section break.
func (p *sectionParser) consumeIndentedBlock(indent int) {
	for {
		line, ok := p.cur.Peek(0)
		if !ok || p.syn.isSectionBreak(p) {
			return
		}
		if line.Text != "" && !isIndented(line.Text, indent) {
			return
		}
		p.cur.Next()
	}
}

func (p *sectionParser) consumeFields(parseType, preferType bool) []rawField {
	p.consumeEmpty()
	var fields []rawField
	for !p.syn.isSectionBreak(p) {
		f := p.syn.consumeField(p, parseType, preferType)
		if f.Name != "" || f.Arg.Type != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// currentIndent reports the indentation of the next non-blank line, starting
// the search peekAhead lines forward. Returns 0 at end of input.
func (p *sectionParser) currentIndent(peekAhead int) int {
	for {
		line, ok := p.cur.Peek(peekAhead)
		if !ok {
			return 0
		}
		if line.Text != "" {
			return lineIndent(line.Text)
		}
		peekAhead++
	}
}

func lineIndent(line string) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return len(line)
}

// isIndented reports whether line starts with at least `indent` columns of
// whitespace and has content beyond them.
func isIndented(line string, indent int) bool {
	for i, r := range line {
		if i >= indent {
			return true
		}
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return false
}

// dedentLines strips the common minimum indentation from the given lines.
func dedentLines(lines []Line) []Line {
	min := -1
	for _, l := range lines {
		if l.Text == "" {
			continue
		}
		if ind := lineIndent(l.Text); min < 0 || ind < min {
			min = ind
		}
	}
	if min <= 0 {
		return lines
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		if len(l.Text) >= min {
			out[i] = Line{Text: l.Text[min:], Number: l.Number}
		} else {
			out[i] = l
		}
	}
	return out
}

// EscapeArgName escapes the varargs/kwargs markers so that a starred name
// survives as a distinct key when matched against a real parameter list.
func EscapeArgName(name string) string {
	switch {
	case strings.HasPrefix(name, "**"):
		return `\*\*` + name[2:]
	case strings.HasPrefix(name, "*"):
		return `\*` + name[1:]
	default:
		return name
	}
}

// splitKeep splits s around matches of re, keeping the matched text. Matches
// sit at odd indices of the result, like Python's re.split with one group.
func splitKeep(re *regexp.Regexp, s string) []string {
	var out []string
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		out = append(out, s[last:loc[0]], s[loc[0]:loc[1]])
		last = loc[1]
	}
	return append(out, s[last:])
}

// partitionFieldOnColon splits a field line on its first colon that is not
// embedded inside cross-reference markup (e.g. :class:`Foo`).
func partitionFieldOnColon(line string) (before, colon, after string) {
	var b, a strings.Builder
	found := false
	for i, seg := range splitKeep(xrefRe, line) {
		if found {
			a.WriteString(seg)
			continue
		}
		if i%2 == 0 && strings.Contains(seg, ":") {
			found = true
			colon = ":"
			bef, aft, _ := strings.Cut(seg, ":")
			b.WriteString(bef)
			a.WriteString(aft)
		} else {
			b.WriteString(seg)
		}
	}
	return strings.TrimSpace(b.String()), colon, strings.TrimSpace(a.String())
}
