// Package pattern tokenizes free-text search strings into Terms and parses
// term values into typed values.
//
// A search string is a sequence of whitespace-separated tokens, each an
// optional `name:` prefix followed by a comma-separated list of values:
//
//	Russula user:jason,"Alan R." date:2009-2010 "has notes"
//
// Values may be double-quoted, single-quoted, or bare; a backslash escapes
// the next character anywhere. Tokens without a prefix belong to the
// "pattern" field.
package pattern

import (
	"regexp"
	"strings"

	"github.com/roach88/obsparse/internal/parseerr"
)

// PatternField is the field of tokens written without a name prefix.
const PatternField = "pattern"

const valueExpr = `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|(?:\\.|[^\s,\\])+`

var (
	// Alternatives are tried in order, so an unterminated or run-on quote
	// falls back to a bare value, and a prefix with no value falls back to
	// a bare value containing the colon.
	tokenRe = regexp.MustCompile(
		`^(?:([A-Za-z0-9_]+):)?((?:` + valueExpr + `)(?:,(?:` + valueExpr + `))*)(?:\s+|$)`)

	valueRe = regexp.MustCompile(`^(` + valueExpr + `)(?:,|$)`)
)

// Term is one field of a search string with its dequoted raw values.
type Term struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// Tokenize splits input into terms in order of each field's first
// appearance. Repeated fields accumulate values on the first term. The whole
// input is consumed or a SyntaxError carrying the unparsed remainder is
// returned.
func Tokenize(input string) ([]Term, error) {
	s := strings.Join(strings.Fields(input), " ")

	var (
		terms []Term
		index = make(map[string]int)
	)
	for s != "" {
		m := tokenRe.FindStringSubmatchIndex(s)
		if m == nil {
			return nil, parseerr.Syntax(s)
		}
		field := PatternField
		if m[2] >= 0 {
			field = s[m[2]:m[3]]
		}
		values := splitValues(s[m[4]:m[5]])

		if i, ok := index[field]; ok {
			terms[i].Values = append(terms[i].Values, values...)
		} else {
			index[field] = len(terms)
			terms = append(terms, Term{Field: field, Values: values})
		}
		s = s[m[1]:]
	}
	return terms, nil
}

// splitValues splits a comma list already accepted by tokenRe.
func splitValues(list string) []string {
	var out []string
	for list != "" {
		m := valueRe.FindStringSubmatchIndex(list)
		if m == nil {
			// tokenRe accepted list, so this is unreachable
			out = append(out, Dequote(list))
			break
		}
		out = append(out, Dequote(list[m[2]:m[3]]))
		list = list[m[1]:]
	}
	return out
}

// Dequote strips one matching pair of surrounding quotes, then replaces each
// `\X` with X.
func Dequote(v string) string {
	if n := len(v); n >= 2 && (v[0] == '"' || v[0] == '\'') && v[n-1] == v[0] {
		v = v[1 : n-1]
	}
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

// Quote renders v so that Tokenize reads it back as the single value v.
// Values that are empty or contain whitespace, quotes, backslashes, commas
// or colons are double-quoted with `"`, `'` and `\` escaped.
func Quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\r\n\f\v\"'\\,:") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '"', '\'', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(v[i])
	}
	b.WriteByte('"')
	return b.String()
}

// Format renders terms as a search string that tokenizes back to them.
func Format(terms []Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}

// String renders the term as `field:v1,v2`, omitting the prefix for the
// pattern field. Pattern values are space separated since a comma list
// without a prefix is still one term.
func (t Term) String() string {
	quoted := make([]string, len(t.Values))
	for i, v := range t.Values {
		quoted[i] = Quote(v)
	}
	if t.Field == PatternField {
		return strings.Join(quoted, " ")
	}
	return t.Field + ":" + strings.Join(quoted, ",")
}
