package typed

import (
	"strings"

	"github.com/roach88/obsparse/internal/parseerr"
)

// Tri-state results of ParseYesNoBoth.
const (
	Only   = "only"
	No     = "no"
	Either = "either"
)

// Synonym tables, matched case-insensitively.
var (
	TrueWords  = []string{"1", "yes", "true"}
	FalseWords = []string{"0", "no", "false"}
	BothWords  = []string{"both", "either"}
)

func matchesAny(val string, words []string) bool {
	for _, w := range words {
		if strings.EqualFold(val, w) {
			return true
		}
	}
	return false
}

// IsTrue reports whether val is one of TrueWords.
func IsTrue(val string) bool { return matchesAny(val, TrueWords) }

// IsFalse reports whether val is one of FalseWords.
func IsFalse(val string) bool { return matchesAny(val, FalseWords) }

// ParseBoolean maps yes/no synonyms to a bool. With onlyYes, a false-ish
// value is rejected with BadYes instead of returning false.
func ParseBoolean(val string, onlyYes bool) (bool, error) {
	if IsTrue(val) {
		return true, nil
	}
	if onlyYes {
		return false, parseerr.BadYes(val)
	}
	if IsFalse(val) {
		return false, nil
	}
	return false, parseerr.BadBoolean(val)
}

// ParseYesNoBoth maps yes/no/both synonyms to Only, No or Either.
func ParseYesNoBoth(val string) (string, error) {
	switch {
	case IsTrue(val):
		return Only, nil
	case IsFalse(val):
		return No, nil
	case matchesAny(val, BothWords):
		return Either, nil
	}
	return "", parseerr.BadYesNoBoth(val)
}
