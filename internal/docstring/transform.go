package docstring

import (
	"regexp"
	"strings"
)

// Best-effort normalization of loose English type words into PEP-484-like
// syntax. This is layered on top of extraction and is not required to
// succeed: unknown words pass through untouched.

var typeTranslations = map[string]string{
	"boolean":    "bool",
	"string":     "str",
	"integer":    "int",
	"list":       "List",
	"dict":       "Dict",
	"dictionary": "Dict",
	"any":        "Any",
	"tuple":      "Tuple",
	"set":        "Set",
	"sequence":   "Sequence",
	"iterable":   "Iterable",
	"mapping":    "Mapping",
}

var (
	unionRe    = regexp.MustCompile(`(?:\s+or\s+)|(?:\s*\|\s*)`)
	optionalRe = regexp.MustCompile(`(.*),\s*optional\s*$`)
	typeWordRe = regexp.MustCompile(`\b[a-z]+\b`)
)

// StandardizeType rewrites a docstring type expression: "int or str" and
// "int | str" become Union[int, str], a trailing ", optional" becomes
// Optional[...] (for parameters only, never results), and common loose words
// ("string", "dictionary", ...) are replaced with their typing spellings.
func StandardizeType(s string, isResult bool) string {
	s = normalizeType(s)
	if s == "" {
		return s
	}

	optional := false
	if !isResult {
		if m := optionalRe.FindStringSubmatch(s); m != nil {
			optional = true
			s = m[1]
		}
	}

	parts := unionRe.Split(s, -1)
	for i, part := range parts {
		parts[i] = typeWordRe.ReplaceAllStringFunc(part, func(w string) string {
			if repl, ok := typeTranslations[w]; ok {
				return repl
			}
			return w
		})
	}
	if len(parts) > 1 {
		s = "Union[" + strings.Join(parts, ", ") + "]"
	} else {
		s = parts[0]
	}

	if optional {
		s = "Optional[" + s + "]"
	}
	return s
}
