// Package typed holds the value grammars shared by the search-term accessors
// (internal/pattern) and the API parameter parsers (internal/param).
//
// Every function here takes one raw string and returns either a typed value
// or a *parseerr.Error with an empty Field; callers attach the field name.
// Nothing in this package performs I/O, logs, or keeps state.
package typed
