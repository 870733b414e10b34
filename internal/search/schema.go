// Package search interprets free-text search strings against a declared set
// of fields. Each field names the Term accessor that reads its values.
package search

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/obsparse/internal/pattern"
	"github.com/roach88/obsparse/internal/resolver"
)

// Accessor names the Term accessor a field is read with.
type Accessor string

const (
	AccString     Accessor = "string"
	AccStrings    Accessor = "strings"
	AccPattern    Accessor = "pattern"
	AccBoolean    Accessor = "boolean"
	AccYes        Accessor = "yes"
	AccYesNoBoth  Accessor = "yes_no_both"
	AccFloat      Accessor = "float"
	AccLatitude   Accessor = "latitude"
	AccLongitude  Accessor = "longitude"
	AccConfidence Accessor = "confidence"
	AccDateRange  Accessor = "date_range"
	AccRankRange  Accessor = "rank_range"
	AccList       Accessor = "list"
)

// Accessors lists every accessor.
var Accessors = []Accessor{
	AccString, AccStrings, AccPattern, AccBoolean, AccYes, AccYesNoBoth,
	AccFloat, AccLatitude, AccLongitude, AccConfidence, AccDateRange,
	AccRankRange, AccList,
}

// Valid reports whether a is a known accessor.
func (a Accessor) Valid() bool {
	for _, k := range Accessors {
		if k == a {
			return true
		}
	}
	return false
}

// Field declares one search field.
type Field struct {
	Accessor Accessor

	// Type is the entity type of an AccList field.
	Type resolver.Type

	// Min and Max bound an AccFloat field.
	Min, Max float64
}

func (f Field) validate() error {
	if !f.Accessor.Valid() {
		return fmt.Errorf("unknown accessor %q", f.Accessor)
	}
	switch f.Accessor {
	case AccList:
		if !f.Type.Valid() {
			return fmt.Errorf("list field needs an entity type, got %q", f.Type)
		}
	case AccFloat:
		if f.Min > f.Max {
			return fmt.Errorf("float bounds %v..%v are not ordered", f.Min, f.Max)
		}
	}
	return nil
}

// ErrInvalidSchema is wrapped by every NewSchema failure.
var ErrInvalidSchema = errors.New("invalid search schema")

// Schema is an immutable set of search fields. The free-text field
// pattern.PatternField is always present; it reads with AccPattern unless
// declared otherwise.
type Schema struct {
	names  []string
	fields map[string]Field
}

// NewSchema validates and freezes fields.
func NewSchema(fields map[string]Field) (*Schema, error) {
	s := &Schema{fields: make(map[string]Field, len(fields)+1)}
	for name, f := range fields {
		if name == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidSchema)
		}
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, name, err)
		}
		s.fields[name] = f
	}
	if _, ok := s.fields[pattern.PatternField]; !ok {
		s.fields[pattern.PatternField] = Field{Accessor: AccPattern}
	}
	for name := range s.fields {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// MustSchema is NewSchema that panics, for static declarations.
func MustSchema(fields map[string]Field) *Schema {
	s, err := NewSchema(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Lookup returns the declaration of name.
func (s *Schema) Lookup(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// Names returns the declared field names in sorted order.
func (s *Schema) Names() []string {
	return append([]string(nil), s.names...)
}
