// Package parseerr defines the structured errors produced by every parser in
// obsparse.
//
// Errors are values, not messages. Each one carries a Code from a closed set
// plus the data a presentation layer needs to render it: the offending field,
// the raw value, and any bounds, allowed values, or candidates. Rendering a
// localized message is the caller's job; Error() only produces a terse
// diagnostic for logs and tests.
//
// Every parser returns either a value or exactly one *Error. Nothing in the
// parsing packages swallows, logs, or coerces these errors.
package parseerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of parse failure.
type Code string

const (
	// CodeSyntax indicates the search string could not be tokenized.
	CodeSyntax Code = "SYNTAX_ERROR"

	// CodeMissingValue indicates a term or parameter has no value.
	CodeMissingValue Code = "MISSING_VALUE"

	// CodeTooManyValues indicates a single-value accessor got a list.
	CodeTooManyValues Code = "TOO_MANY_VALUES"

	CodeBadBoolean   Code = "BAD_BOOLEAN"
	CodeBadYes       Code = "BAD_YES"
	CodeBadYesNoBoth Code = "BAD_YES_NO_BOTH"
	CodeBadFloat     Code = "BAD_FLOAT"
	CodeBadDateRange Code = "BAD_DATE_RANGE"
	CodeBadRankRange Code = "BAD_RANK_RANGE"

	// CodeBadParameterValue indicates a value does not match the grammar of
	// its type. Error.Type names the type (integer, float, date, ...).
	CodeBadParameterValue Code = "BAD_PARAMETER_VALUE"

	// CodeBadLimitedParameterValue indicates a well-formed value outside the
	// configured limit. Min/Max or Allowed describe the limit.
	CodeBadLimitedParameterValue Code = "BAD_LIMITED_PARAMETER_VALUE"

	// CodeParameterCantBeBlank indicates a supplied but blank value for a
	// parameter declared not-blank.
	CodeParameterCantBeBlank Code = "PARAMETER_CANT_BE_BLANK"

	CodeObjectNotFoundByID     Code = "OBJECT_NOT_FOUND_BY_ID"
	CodeObjectNotFoundByString Code = "OBJECT_NOT_FOUND_BY_STRING"

	// CodeAmbiguous indicates a textual reference matched several entities.
	// Error.Candidates lists their ids.
	CodeAmbiguous Code = "AMBIGUOUS"

	// CodePermissionDenied indicates a resolved entity failed a permission
	// check. Error.Permission names the check.
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// CodeBadTerm indicates a search string used a field name the search
	// schema does not declare.
	CodeBadTerm Code = "BAD_TERM"
)

// Codes lists every code in declaration order.
var Codes = []Code{
	CodeSyntax,
	CodeMissingValue,
	CodeTooManyValues,
	CodeBadBoolean,
	CodeBadYes,
	CodeBadYesNoBoth,
	CodeBadFloat,
	CodeBadDateRange,
	CodeBadRankRange,
	CodeBadParameterValue,
	CodeBadLimitedParameterValue,
	CodeParameterCantBeBlank,
	CodeObjectNotFoundByID,
	CodeObjectNotFoundByString,
	CodeAmbiguous,
	CodePermissionDenied,
	CodeBadTerm,
}

// Valid reports whether c is one of the declared codes.
func (c Code) Valid() bool {
	for _, known := range Codes {
		if c == known {
			return true
		}
	}
	return false
}

// Error is a structured parse failure.
//
// Only the fields relevant to Code are populated:
//   - Min/Max: BadFloat, BadLimitedParameterValue with a range limit
//   - Allowed: BadLimitedParameterValue with a set limit
//   - Type: BadParameterValue (value type), ObjectNotFound*/Ambiguous (entity type)
//   - Candidates: Ambiguous
//   - Permission: PermissionDenied
//   - Suggestions: BadRankRange, BadLimitedParameterValue (closest allowed values)
type Error struct {
	Code        Code     `json:"code"`
	Field       string   `json:"field,omitempty"`
	Value       string   `json:"value,omitempty"`
	Type        string   `json:"type,omitempty"`
	Min         any      `json:"min,omitempty"`
	Max         any      `json:"max,omitempty"`
	Allowed     []string `json:"allowed,omitempty"`
	Candidates  []int64  `json:"candidates,omitempty"`
	Permission  string   `json:"permission,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Field != "" {
		fmt.Fprintf(&b, " (field=%s)", e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	switch {
	case e.Min != nil || e.Max != nil:
		fmt.Fprintf(&b, " not in [%v, %v]", e.Min, e.Max)
	case len(e.Allowed) > 0:
		fmt.Fprintf(&b, " not one of %v", e.Allowed)
	case len(e.Candidates) > 0:
		fmt.Fprintf(&b, " matches %v", e.Candidates)
	case e.Permission != "":
		fmt.Fprintf(&b, " lacks %s permission", e.Permission)
	case e.Type != "":
		fmt.Fprintf(&b, " (%s)", e.Type)
	}
	return b.String()
}

// WithField returns a copy of e naming field. Parsers in the shared typed
// layer leave Field empty; the term and parameter layers fill it in.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

// As extracts a *Error from err, following wrapped errors.
func As(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	pe, ok := As(err)
	return ok && pe.Code == code
}

// CodeOf returns the code of err, or "" when err is not a *Error.
func CodeOf(err error) Code {
	if pe, ok := As(err); ok {
		return pe.Code
	}
	return ""
}

// Attach names field on err when err is a *Error without a field.
// Other errors pass through unchanged.
func Attach(err error, field string) error {
	if err == nil {
		return nil
	}
	pe, ok := As(err)
	if !ok || pe.Field != "" {
		return err
	}
	return pe.WithField(field)
}
