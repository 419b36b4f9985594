package docstring

import "strings"

// numpySyntax recognizes NumPy-style sections: a known name on its own line
// followed by an underline row of repeated punctuation.
type numpySyntax struct{}

func parseNumpy(doc string) rawDocstring {
	return parseSections(doc, numpySyntax{})
}

func (n numpySyntax) isSectionHeader(p *sectionParser) bool {
	line, ok := p.cur.Peek(0)
	if !ok {
		return false
	}
	section := strings.ToLower(line.Text)
	if _, known := sectionTable[section]; known {
		underline, ok := p.cur.Peek(1)
		return ok && numpySectionRe.MatchString(underline.Text)
	}
	// ".. index::" style directives double as skippable headers.
	return directiveRe.MatchString(section)
}

func (n numpySyntax) consumeSectionHeader(p *sectionParser) string {
	line, _ := p.cur.Next()
	if !directiveRe.MatchString(line.Text) {
		// consume the underline row
		p.cur.Next()
	}
	return line.Text
}

func (n numpySyntax) isSectionBreak(p *sectionParser) bool {
	line, ok := p.cur.Peek(0)
	if !ok || n.isSectionHeader(p) {
		return true
	}
	if next, ok := p.cur.Peek(1); ok && line.Text == "" && next.Text == "" {
		return true
	}
	return p.inSection && line.Text != "" && !isIndented(line.Text, p.sectionIndent)
}

// consumeField consumes one "name : type" entry plus its indented
// description block.
func (n numpySyntax) consumeField(p *sectionParser, parseType, preferType bool) rawField {
	line, ok := p.cur.Next()
	if !ok {
		return rawField{}
	}
	var name, typ string
	if parseType {
		name, _, typ = partitionFieldOnColon(line.Text)
	} else {
		name = line.Text
	}
	name = EscapeArgName(strings.TrimSpace(name))
	typ = strings.TrimSpace(typ)
	if preferType && typ == "" {
		typ, name = name, ""
	}
	p.consumeIndentedBlock(lineIndent(line.Text) + 1)
	return rawField{Name: name, Arg: Arg{Type: typ, Line: line.Number}}
}

// consumeReturnsSection consumes the section as fields, preferring the type
// position: "str" alone on a line is a type, "result1 : str" is a named
// entry. Multiple entries signal a named multi-value return.
func (n numpySyntax) consumeReturnsSection(p *sectionParser) []Arg {
	fields := p.consumeFields(true, true)
	args := make([]Arg, 0, len(fields))
	for _, f := range fields {
		args = append(args, f.Arg)
	}
	return args
}
