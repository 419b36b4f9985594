package docstring

import (
	"regexp"
	"strings"
)

// restParse extracts typed fields from a reST field list (":param x:",
// ":type x:", ":rtype:", ":returns:", ":Yields:"). It is a purpose-built
// scanner rather than a full document-tree builder; anything it cannot make
// sense of is treated as "no fields found" rather than an error.

var (
	bulletItemRe   = regexp.MustCompile(`^\s*[*+-]\s+(\S.*)$`)
	namedResultRe  = regexp.MustCompile(`\*\*([A-Za-z_][A-Za-z0-9_]*)\*\*\s*\(([^)]+)\)`)
	fieldMarkerRe  = regexp.MustCompile(`^:\S`)
	descriptionSep = " -- "
)

// restField is one raw field-list entry: its whitespace-split name tokens,
// the body lines (first line plus indented continuations), and the line the
// field starts on.
type restField struct {
	tokens []string
	body   []Line
	line   int
}

func restParse(doc string) rawDocstring {
	var out rawDocstring
	for _, f := range scanFieldList(doc) {
		switch {
		case len(f.tokens) == 2 && f.tokens[0] == "type":
			typ := cleanTypeText(f.body)
			if typ == "" {
				// malformed/empty field bodies are skipped, never an error
				continue
			}
			out.params = append(out.params, rawField{
				Name: f.tokens[1],
				Arg:  Arg{Type: typ, Line: f.line},
			})
		case len(f.tokens) == 1 && f.tokens[0] == "rtype":
			if typ := cleanTypeText(f.body); typ != "" && out.returns == nil {
				out.returns = []Arg{{Type: typ, Line: f.line}}
			}
		case len(f.tokens) == 1 && f.tokens[0] == "returns":
			if args := parseResultItems(f.body); args != nil && out.returns == nil {
				out.returns = args
			}
		case len(f.tokens) == 1 && f.tokens[0] == "Yields":
			if out.yields != nil {
				continue
			}
			if args := parseResultItems(f.body); args != nil {
				out.yields = args
			} else if typ := cleanYieldText(f.body); typ != "" {
				out.yields = []Arg{{Type: typ, Line: f.line}}
			}
		}
	}
	return out
}

// scanFieldList walks the docstring collecting ":name: body" fields together
// with their indented continuation lines.
func scanFieldList(doc string) []restField {
	cur := newCursor(doc)
	var fields []restField
	for cur.HasNext() {
		line, _ := cur.Next()
		if !fieldMarkerRe.MatchString(line.Text) {
			continue
		}
		// Strip the opening colon, then split on the first colon that is not
		// part of cross-reference markup.
		name, colon, rest := partitionFieldOnColon(line.Text[1:])
		if colon == "" || name == "" {
			continue
		}
		body := []Line{{Text: rest, Number: line.Number}}
		for {
			next, ok := cur.Peek(0)
			if !ok {
				break
			}
			if next.Text != "" && !isIndented(next.Text, 1) {
				break
			}
			cur.Next()
			body = append(body, next)
		}
		fields = append(fields, restField{
			tokens: strings.Fields(name),
			body:   body,
			line:   line.Number,
		})
	}
	return fields
}

// cleanTypeText joins the body into a single whitespace-normalized type
// string: newlines collapse to single spaces.
func cleanTypeText(body []Line) string {
	parts := make([]string, 0, len(body))
	for _, l := range body {
		parts = append(parts, l.Text)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// cleanYieldText extracts a type from a plain ":Yields: *str* -- description"
// body: description stripped, emphasis markers removed.
func cleanYieldText(body []Line) string {
	s := cleanTypeText(body)
	if i := strings.Index(s, descriptionSep); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), "*")
}

// parseResultItems interprets a field body shaped as a bullet list of named
// results ("* **name** (*type*) -- description") as a multi-value return.
// Items without a parenthesized type contribute an empty type, which the
// adapter drops when synthesizing a tuple. A body without bullet items
// returns nil: plain prose carries no type information here.
func parseResultItems(body []Line) []Arg {
	var args []Arg
	for _, l := range body {
		m := bulletItemRe.FindStringSubmatch(l.Text)
		if m == nil {
			continue
		}
		item := m[1]
		if nm := namedResultRe.FindStringSubmatch(item); nm != nil {
			args = append(args, Arg{Type: strings.Trim(nm[2], "* "), Line: l.Number})
		} else {
			args = append(args, Arg{Type: "", Line: l.Number})
		}
	}
	return args
}
