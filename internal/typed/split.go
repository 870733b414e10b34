package typed

import "strings"

// SplitList splits an API list value on unescaped commas. Elements are
// trimmed and `\,` is unescaped to a literal comma.
func SplitList(val string) []string {
	var (
		out []string
		b   strings.Builder
	)
	for i := 0; i < len(val); i++ {
		c := val[i]
		switch {
		case c == '\\' && i+1 < len(val) && val[i+1] == ',':
			b.WriteByte(',')
			i++
		case c == ',':
			out = append(out, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(out, strings.TrimSpace(b.String()))
}

// SplitRange finds the first '-' that divides val into two trimmed halves
// both accepted by ok. found is false when no such split exists.
func SplitRange(val string, ok func(string) bool) (from, to string, found bool) {
	for i := 1; i < len(val)-1; i++ {
		if val[i] != '-' {
			continue
		}
		l, r := strings.TrimSpace(val[:i]), strings.TrimSpace(val[i+1:])
		if ok(l) && ok(r) {
			return l, r, true
		}
	}
	return "", "", false
}
