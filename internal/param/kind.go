// Package param parses already-separated API parameter strings into typed
// values according to an immutable per-parameter configuration.
//
// Every parameter has a Kind from a closed set and is parsed in one of three
// modes: a scalar, a comma-separated list, or a dash-separated range. The
// value grammars are shared with the search-term accessors in
// internal/pattern through internal/typed.
package param

import (
	"fmt"

	"github.com/roach88/obsparse/internal/geo"
	"github.com/roach88/obsparse/internal/resolver"
)

// Kind is the value type of a parameter. The set of kinds is closed; the
// unexported method keeps other packages from adding to it.
type Kind interface {
	// Name is the type name used in errors and introspection.
	Name() string
	kind()
}

type (
	Integer struct{}
	Float   struct{}
	Boolean struct{}
	String  struct{}
	Date    struct{}
	Time    struct{}
	Email   struct{}

	// Coordinate is a latitude, longitude or altitude.
	Coordinate struct {
		Axis geo.Axis
	}

	// Enum accepts one of Allowed, ignoring case, and yields the member as
	// declared.
	Enum struct {
		Allowed []string
	}

	// Language is an Enum of language tags that also matches on the
	// primary subtag.
	Language struct {
		Allowed []string
	}

	// Object is a reference to a catalog entity by id or name. Permissions
	// are checked against the parser's actor after resolution.
	Object struct {
		Type        resolver.Type
		Permissions []resolver.Permission
	}
)

func (Integer) kind()    {}
func (Float) kind()      {}
func (Boolean) kind()    {}
func (String) kind()     {}
func (Date) kind()       {}
func (Time) kind()       {}
func (Email) kind()      {}
func (Coordinate) kind() {}
func (Enum) kind()       {}
func (Language) kind()   {}
func (Object) kind()     {}

func (Integer) Name() string      { return "integer" }
func (Float) Name() string        { return "float" }
func (Boolean) Name() string      { return "boolean" }
func (String) Name() string       { return "string" }
func (Date) Name() string         { return "date" }
func (Time) Name() string         { return "time" }
func (Email) Name() string        { return "email" }
func (c Coordinate) Name() string { return string(c.Axis) }
func (Enum) Name() string         { return "enum" }
func (Language) Name() string     { return "lang" }
func (o Object) Name() string     { return string(o.Type) }

// ordinal reports whether values of k have a natural order, which range
// mode requires.
func ordinal(k Kind) bool {
	switch k.(type) {
	case Integer, Float, Date, Time, Coordinate:
		return true
	}
	return false
}

func validateKind(k Kind) error {
	switch k := k.(type) {
	case nil:
		return fmt.Errorf("kind is required")
	case Coordinate:
		if !k.Axis.Valid() {
			return fmt.Errorf("unknown coordinate axis %q", k.Axis)
		}
	case Enum:
		if len(k.Allowed) == 0 {
			return fmt.Errorf("enum needs at least one allowed value")
		}
	case Language:
		if len(k.Allowed) == 0 {
			return fmt.Errorf("lang needs at least one allowed value")
		}
	case Object:
		if !k.Type.Valid() {
			return fmt.Errorf("unknown object type %q", k.Type)
		}
		for _, p := range k.Permissions {
			if !p.Valid() {
				return fmt.Errorf("unknown permission %q", p)
			}
		}
	}
	return nil
}
