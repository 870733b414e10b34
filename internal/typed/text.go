package typed

import (
	"regexp"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/obsparse/internal/parseerr"
)

var emailRe = regexp.MustCompile(`^[\w-]+@[\w-]+(\.[\w-]+)+$`)

// MaxSuggestions caps the suggestions attached to a rejected value.
const MaxSuggestions = 3

// ParseEmail accepts a bare address of the form local@host.tld.
func ParseEmail(val string) (string, error) {
	if !emailRe.MatchString(val) {
		return "", parseerr.BadParameterValue(val, TypeEmail)
	}
	return val, nil
}

func fold(s string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(s)
}

// MatchEnum returns the member of allowed that equals val ignoring case.
func MatchEnum(val string, allowed []string) (string, error) {
	if m, ok := findFolded(val, allowed); ok {
		return m, nil
	}
	return "", parseerr.BadLimitedSet(val, allowed, Suggest(val, allowed))
}

func findFolded(val string, allowed []string) (string, bool) {
	v := fold(val)
	for _, a := range allowed {
		if fold(a) == v {
			return a, true
		}
	}
	return "", false
}

// MatchLanguage is MatchEnum for language tags, falling back to the primary
// subtag: "en-US" matches an allowed "en".
func MatchLanguage(val string, allowed []string) (string, error) {
	if m, ok := findFolded(val, allowed); ok {
		return m, nil
	}
	if tag, err := language.Parse(val); err == nil {
		base, _ := tag.Base()
		for _, a := range allowed {
			at, err := language.Parse(a)
			if err != nil {
				continue
			}
			if ab, _ := at.Base(); ab == base {
				return a, nil
			}
		}
	}
	return "", parseerr.BadLimitedSet(val, allowed, Suggest(val, allowed))
}

// Suggest returns up to MaxSuggestions entries of candidates that fuzzily
// match val, best first.
func Suggest(val string, candidates []string) []string {
	if val == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(fold(val), foldAll(candidates))
	var out []string
	for _, m := range matches {
		out = append(out, candidates[m.Index])
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}

func foldAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fold(s)
	}
	return out
}
