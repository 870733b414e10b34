package parseerr

import "strconv"

// Syntax creates a SyntaxError carrying the unconsumed input.
func Syntax(remaining string) *Error {
	return &Error{Code: CodeSyntax, Value: remaining}
}

// MissingValue creates a MissingValue error for field.
func MissingValue(field string) *Error {
	return &Error{Code: CodeMissingValue, Field: field}
}

// TooManyValues creates a TooManyValues error for field.
func TooManyValues(field string) *Error {
	return &Error{Code: CodeTooManyValues, Field: field}
}

// BadBoolean creates a BadBoolean error.
func BadBoolean(value string) *Error {
	return &Error{Code: CodeBadBoolean, Value: value}
}

// BadYes creates a BadYes error, produced when only "yes" is acceptable.
func BadYes(value string) *Error {
	return &Error{Code: CodeBadYes, Value: value}
}

// BadYesNoBoth creates a BadYesNoBoth error.
func BadYesNoBoth(value string) *Error {
	return &Error{Code: CodeBadYesNoBoth, Value: value}
}

// BadFloat creates a BadFloat error with inclusive bounds.
func BadFloat(value string, min, max float64) *Error {
	return &Error{Code: CodeBadFloat, Value: value, Min: min, Max: max}
}

// BadDateRange creates a BadDateRange error.
func BadDateRange(value string) *Error {
	return &Error{Code: CodeBadDateRange, Value: value}
}

// BadRankRange creates a BadRankRange error.
func BadRankRange(value string, suggestions []string) *Error {
	return &Error{Code: CodeBadRankRange, Value: value, Suggestions: suggestions}
}

// BadParameterValue creates a BadParameterValue error for a value type.
func BadParameterValue(value, typ string) *Error {
	return &Error{Code: CodeBadParameterValue, Value: value, Type: typ}
}

// BadLimitedRange creates a BadLimitedParameterValue error for an
// inclusive range limit.
func BadLimitedRange(value string, min, max any) *Error {
	return &Error{Code: CodeBadLimitedParameterValue, Value: value, Min: min, Max: max}
}

// BadLimitedSet creates a BadLimitedParameterValue error for a set limit.
func BadLimitedSet(value string, allowed, suggestions []string) *Error {
	return &Error{
		Code:        CodeBadLimitedParameterValue,
		Value:       value,
		Allowed:     allowed,
		Suggestions: suggestions,
	}
}

// CantBeBlank creates a ParameterCantBeBlank error for field.
func CantBeBlank(field string) *Error {
	return &Error{Code: CodeParameterCantBeBlank, Field: field}
}

// NotFoundByID creates an ObjectNotFoundById error.
func NotFoundByID(typ string, id int64) *Error {
	return &Error{Code: CodeObjectNotFoundByID, Type: typ, Value: strconv.FormatInt(id, 10)}
}

// NotFoundByString creates an ObjectNotFoundByString error.
func NotFoundByString(typ, text string) *Error {
	return &Error{Code: CodeObjectNotFoundByString, Type: typ, Value: text}
}

// Ambiguous creates an Ambiguous error listing candidate ids.
func Ambiguous(typ, text string, candidates []int64) *Error {
	return &Error{Code: CodeAmbiguous, Type: typ, Value: text, Candidates: candidates}
}

// PermissionDenied creates a PermissionDenied error.
func PermissionDenied(typ, value, permission string) *Error {
	return &Error{Code: CodePermissionDenied, Type: typ, Value: value, Permission: permission}
}

// BadTerm creates a BadTerm error for an undeclared search field.
func BadTerm(field string) *Error {
	return &Error{Code: CodeBadTerm, Field: field}
}
