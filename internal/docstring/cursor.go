package docstring

import "strings"

// Line is one physical docstring line paired with its position. Number is a
// zero-based offset from the start of the cleaned docstring; callers that need
// absolute source positions add the docstring's own start line.
type Line struct {
	Text   string
	Number int
}

// cursor is a pull-based view over docstring lines with arbitrary lookahead.
// Lines are numbered and right-trimmed once, eagerly, at construction.
type cursor struct {
	lines []Line
	pos   int
}

func newCursor(text string) *cursor {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, s := range raw {
		lines[i] = Line{Text: strings.TrimRight(s, " \t\r"), Number: i}
	}
	return &cursor{lines: lines}
}

// Peek returns the line n positions ahead without consuming anything. The
// second return value is false past the end of the input, which keeps "blank
// line" and "no more lines" distinguishable.
func (c *cursor) Peek(n int) (Line, bool) {
	i := c.pos + n
	if i >= len(c.lines) {
		return Line{}, false
	}
	return c.lines[i], true
}

// Next consumes and returns the next line.
func (c *cursor) Next() (Line, bool) {
	if c.pos >= len(c.lines) {
		return Line{}, false
	}
	line := c.lines[c.pos]
	c.pos++
	return line, true
}

func (c *cursor) HasNext() bool {
	return c.pos < len(c.lines)
}
