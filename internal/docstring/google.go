package docstring

import "strings"

// googleSyntax recognizes Google-style sections: a "Name:" header line whose
// body is indented more deeply than the header itself.
type googleSyntax struct{}

func parseGoogle(doc string) rawDocstring {
	return parseSections(doc, googleSyntax{})
}

func (g googleSyntax) isSectionHeader(p *sectionParser) bool {
	line, ok := p.cur.Peek(0)
	if !ok {
		return false
	}
	section := strings.ToLower(line.Text)
	if !googleSectionRe.MatchString(section) {
		return false
	}
	if _, known := sectionTable[strings.Trim(section, ":")]; !known {
		return false
	}
	// A line that merely ends in a colon is only a header if the following
	// content is indented deeper than the header line.
	headerIndent := lineIndent(section)
	return p.currentIndent(1) > headerIndent
}

func (g googleSyntax) consumeSectionHeader(p *sectionParser) string {
	line, _ := p.cur.Next()
	return strings.Trim(line.Text, ":")
}

func (g googleSyntax) isSectionBreak(p *sectionParser) bool {
	line, ok := p.cur.Peek(0)
	if !ok || g.isSectionHeader(p) {
		return true
	}
	return p.inSection && line.Text != "" && !isIndented(line.Text, p.sectionIndent)
}

// consumeField consumes one "name (type): description" entry plus its
// indented description block.
func (g googleSyntax) consumeField(p *sectionParser, parseType, preferType bool) rawField {
	line, ok := p.cur.Next()
	if !ok {
		return rawField{}
	}
	before, _, _ := partitionFieldOnColon(line.Text)
	name := before
	typ := ""
	if parseType {
		if m := googleTypedArgRe.FindStringSubmatch(before); m != nil {
			name = m[1]
			typ = m[2]
		}
	}
	name = EscapeArgName(name)
	if preferType && typ == "" {
		typ, name = name, ""
	}
	p.consumeIndentedBlock(lineIndent(line.Text) + 1)
	return rawField{Name: name, Arg: Arg{Type: typ, Line: line.Number}}
}

// consumeReturnsSection reads the whole section and extracts a single
// "type: description" entry from its first line, if any.
func (g googleSyntax) consumeReturnsSection(p *sectionParser) []Arg {
	lines := dedentLines(p.consumeToNextSection())
	if len(lines) == 0 {
		return nil
	}
	line := lines[0]
	before, colon, _ := partitionFieldOnColon(line.Text)
	typ := ""
	if colon != "" {
		if m := googleTypedArgRe.FindStringSubmatch(before); m != nil {
			typ = m[2]
		} else {
			typ = before
		}
	}
	if typ == "" {
		return nil
	}
	return []Arg{{Type: typ, Line: line.Number}}
}
