package schema

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/obsparse/internal/search"
)

var searchKeys = []string{"accessor", "ref", "min", "max"}

// CompileSearchField compiles one search declaration: either an accessor
// name or a struct with accessor, ref, min and max.
func CompileSearchField(name string, v cue.Value) (search.Field, error) {
	path := fieldPath("search", name)
	if err := v.Err(); err != nil {
		return search.Field{}, formatCUEError(err, path)
	}

	// Shorthand: date: "date_range"
	if s, err := v.String(); err == nil {
		return searchField(name, v, search.Accessor(s), nil)
	}

	if err := checkKeys(v, path, searchKeys...); err != nil {
		return search.Field{}, err
	}
	acc, ok, err := lookupString(v, "accessor", fieldPath("search", name, "accessor"))
	if err != nil {
		return search.Field{}, err
	}
	if !ok {
		return search.Field{}, &CompileError{
			Code:    ErrCodeAccessor,
			Field:   fieldPath("search", name, "accessor"),
			Message: "accessor is required",
			Pos:     v.Pos(),
		}
	}
	return searchField(name, v, search.Accessor(acc), &v)
}

func searchField(name string, at cue.Value, acc search.Accessor, body *cue.Value) (search.Field, error) {
	if !acc.Valid() {
		return search.Field{}, &CompileError{
			Code:    ErrCodeAccessor,
			Field:   fieldPath("search", name, "accessor"),
			Message: fmt.Sprintf("unknown accessor %q", acc),
			Pos:     at.Pos(),
		}
	}
	f := search.Field{Accessor: acc}

	switch acc {
	case search.AccList:
		v := at
		if body != nil {
			v = *body
		}
		t, err := entityType(name, v, "search")
		if err != nil {
			return search.Field{}, err
		}
		f.Type = t
	case search.AccFloat:
		if body == nil {
			return search.Field{}, &CompileError{
				Code:    ErrCodeLimit,
				Field:   fieldPath("search", name),
				Message: "float fields need min and max",
				Pos:     at.Pos(),
			}
		}
		min, okMin, err := lookupFloat(*body, "min", fieldPath("search", name, "min"))
		if err != nil {
			return search.Field{}, err
		}
		max, okMax, err := lookupFloat(*body, "max", fieldPath("search", name, "max"))
		if err != nil {
			return search.Field{}, err
		}
		if !okMin || !okMax {
			return search.Field{}, &CompileError{
				Code:    ErrCodeLimit,
				Field:   fieldPath("search", name),
				Message: "float fields need min and max",
				Pos:     at.Pos(),
			}
		}
		f.Min, f.Max = min, max
	}

	if body != nil && acc != search.AccList {
		if ref := body.LookupPath(cue.ParsePath("ref")); ref.Exists() {
			return search.Field{}, &CompileError{
				Code:    ErrCodeRef,
				Field:   fieldPath("search", name, "ref"),
				Message: "ref applies to list fields only",
				Pos:     ref.Pos(),
			}
		}
	}
	return f, nil
}
