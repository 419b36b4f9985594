// Package pyscan locates function definitions and their docstrings in Python
// source text. It is a line-oriented scanner, not a Python parser: it tracks
// just enough structure (indentation, class scopes, signature parentheses,
// string quoting) to pair each def with its docstring and to find where a
// type comment belongs.
package pyscan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Function describes one scanned def statement.
type Function struct {
	Name     string
	Class    string // enclosing class name, "" at module level
	IsMethod bool
	Params   []string // signature order; "*"/"**" markers preserved

	DefLine   int    // 1-based line of the def keyword
	Docstring string // raw docstring content, "" if none
	DocLine   int    // 1-based line the docstring literal opens on

	// Type-comment placement. InsertLine is the 1-based first body line; a
	// new comment is inserted before it, with Indent as its indentation.
	InsertLine  int
	Indent      string
	TypeComment int // 1-based line of an existing "# type:" comment, 0 if none
	NoType      bool
}

// ClassDoc is a class docstring and the 1-based line it opens on.
type ClassDoc struct {
	Text string
	Line int
}

// Module is the scan result for one source file.
type Module struct {
	Functions []Function
	ClassDocs map[string]ClassDoc
}

var (
	defRe         = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	classRe       = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	commentRe     = regexp.MustCompile(`^\s*#`)
	typeCommentRe = regexp.MustCompile(`^\s*#\s*type:`)
	stringOpenRe  = regexp.MustCompile(`^(\s*)([rRuUbBfF]{0,2})("""|'''|"|')`)
)

// ScanFile reads path through fs and scans it.
func ScanFile(fs afero.Fs, path string) (*Module, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Scan(string(data)), nil
}

type scopeKind int

const (
	scopeClass scopeKind = iota
	scopeDef
)

type scope struct {
	indent int
	kind   scopeKind
	name   string
}

// Scan walks the source line by line collecting functions and class
// docstrings. It never fails: source it cannot make sense of contributes no
// functions.
func Scan(src string) *Module {
	lines := strings.Split(src, "\n")
	mod := &Module{ClassDocs: map[string]ClassDoc{}}

	var scopes []scope
	pop := func(indent int) {
		for len(scopes) > 0 && scopes[len(scopes)-1].indent >= indent {
			scopes = scopes[:len(scopes)-1]
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m := classRe.FindStringSubmatch(line); m != nil {
			indent := len(m[1])
			pop(indent)
			scopes = append(scopes, scope{indent: indent, kind: scopeClass, name: m[2]})
			if doc, docLine, ok := scanDocstring(lines, endOfHeader(lines, i)+1); ok && doc != "" {
				mod.ClassDocs[m[2]] = ClassDoc{Text: doc, Line: docLine}
			}
			continue
		}

		m := defRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent := len(m[1])
		pop(indent)

		fn := Function{
			Name:    m[2],
			DefLine: i + 1,
		}
		if len(scopes) > 0 && scopes[len(scopes)-1].kind == scopeClass {
			fn.IsMethod = true
			fn.Class = scopes[len(scopes)-1].name
		}

		end, header := collectHeader(lines, i)
		fn.Params = splitParams(header)
		if c := trailingComment(lines[end]); c == "# notype" {
			fn.NoType = true
		}
		scanBody(lines, end+1, &fn)
		mod.Functions = append(mod.Functions, fn)

		scopes = append(scopes, scope{indent: indent, kind: scopeDef, name: fn.Name})
		i = end
	}
	return mod
}

// endOfHeader returns the index of the line that closes the statement header
// opened at start (the line whose code, outside strings, ends with ":" once
// all brackets are balanced).
func endOfHeader(lines []string, start int) int {
	depth := 0
	for i := start; i < len(lines); i++ {
		code := stripComment(lines[i])
		depth += bracketDelta(code)
		if depth <= 0 && strings.HasSuffix(strings.TrimSpace(code), ":") {
			return i
		}
	}
	return start
}

// collectHeader consumes a possibly multi-line def header and returns the
// closing line index plus the text between the signature parentheses.
func collectHeader(lines []string, start int) (end int, params string) {
	end = endOfHeader(lines, start)
	var b strings.Builder
	for i := start; i <= end; i++ {
		b.WriteString(stripComment(lines[i]))
		b.WriteString(" ")
	}
	header := b.String()
	open := strings.Index(header, "(")
	if open < 0 {
		return end, ""
	}
	// find the matching close paren
	depth := 0
	for j := open; j < len(header); j++ {
		switch header[j] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return end, header[open+1 : j]
			}
		}
	}
	return end, header[open+1:]
}

// splitParams splits a signature parameter list into bare names, dropping
// annotations, defaults and the positional-only / keyword-only markers.
func splitParams(params string) []string {
	var out []string
	depth := 0
	start := 0
	flush := func(piece string) {
		name := paramName(piece)
		if name != "" {
			out = append(out, name)
		}
	}
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				flush(params[start:i])
				start = i + 1
			}
		}
	}
	flush(params[start:])
	return out
}

func paramName(piece string) string {
	piece = strings.TrimSpace(piece)
	if piece == "" || piece == "*" || piece == "/" {
		return ""
	}
	stars := ""
	for strings.HasPrefix(piece, "*") {
		stars += "*"
		piece = piece[1:]
	}
	// drop annotation and default value
	if i := strings.IndexAny(piece, ":="); i >= 0 {
		piece = piece[:i]
	}
	piece = strings.TrimSpace(piece)
	if piece == "" {
		return ""
	}
	return stars + piece
}

// scanBody inspects the statement lines following a def header: it records
// the first comment (a possible existing type comment or a "# notype"
// opt-out), the docstring, and where a new type comment should be inserted.
func scanBody(lines []string, start int, fn *Function) {
	sawComment := false
	for i := start; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if fn.InsertLine == 0 {
			fn.InsertLine = i + 1
			fn.Indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		}
		if commentRe.MatchString(line) {
			if !sawComment {
				sawComment = true
				if typeCommentRe.MatchString(line) {
					fn.TypeComment = i + 1
				}
				if trimmed == "# notype" {
					fn.NoType = true
				}
			}
			continue
		}
		if doc, docLine, ok := scanDocstring(lines, i); ok {
			fn.Docstring = doc
			fn.DocLine = docLine
		}
		return
	}
}

// scanDocstring reads a string literal starting at or after index start
// (skipping blanks and comments) and returns its content and 1-based line.
func scanDocstring(lines []string, start int) (string, int, bool) {
	i := start
	for i < len(lines) && (strings.TrimSpace(lines[i]) == "" || commentRe.MatchString(lines[i])) {
		i++
	}
	if i >= len(lines) {
		return "", 0, false
	}
	m := stringOpenRe.FindStringSubmatch(lines[i])
	if m == nil {
		return "", 0, false
	}
	quote := m[3]
	rest := lines[i][len(m[0]):]
	if end := strings.Index(rest, quote); end >= 0 {
		return rest[:end], i + 1, true
	}
	if len(quote) == 1 {
		// unterminated single-quoted string; not a docstring we can use
		return "", 0, false
	}
	parts := []string{rest}
	for j := i + 1; j < len(lines); j++ {
		if end := strings.Index(lines[j], quote); end >= 0 {
			parts = append(parts, lines[j][:end])
			return strings.Join(parts, "\n"), i + 1, true
		}
		parts = append(parts, lines[j])
	}
	return "", 0, false
}

// trailingComment returns the "#..." tail of a line, trimmed, or "".
func trailingComment(line string) string {
	if i := commentStart(line); i >= 0 {
		return strings.TrimSpace(line[i:])
	}
	return ""
}

func stripComment(line string) string {
	if i := commentStart(line); i >= 0 {
		return line[:i]
	}
	return line
}

// commentStart finds the first '#' that is not inside a quoted string.
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return i
		}
	}
	return -1
}

func bracketDelta(code string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[' || c == '{':
			delta++
		case c == ')' || c == ']' || c == '}':
			delta--
		}
	}
	return delta
}
