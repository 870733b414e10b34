package schema

import (
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"github.com/jinzhu/inflection"

	"github.com/roach88/obsparse/internal/geo"
	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/param"
	"github.com/roach88/obsparse/internal/resolver"
	"github.com/roach88/obsparse/internal/typed"
)

var paramKeys = []string{"kind", "ref", "allowed", "permissions", "list", "range", "not_blank", "default", "limit"}

// CompileParam compiles one param declaration. name is the parameter name;
// it supplies the entity type of an object parameter without ref.
func CompileParam(name string, v cue.Value) (param.Config, error) {
	path := fieldPath("param", name)
	if err := v.Err(); err != nil {
		return param.Config{}, formatCUEError(err, path)
	}
	if err := checkKeys(v, path, paramKeys...); err != nil {
		return param.Config{}, err
	}

	kind, err := compileKind(name, v)
	if err != nil {
		return param.Config{}, err
	}
	cfg := param.Config{Kind: kind}

	if cfg.List, err = lookupBool(v, "list", fieldPath("param", name, "list")); err != nil {
		return param.Config{}, err
	}
	if cfg.Range, err = lookupBool(v, "range", fieldPath("param", name, "range")); err != nil {
		return param.Config{}, err
	}
	if cfg.NotBlank, err = lookupBool(v, "not_blank", fieldPath("param", name, "not_blank")); err != nil {
		return param.Config{}, err
	}

	if d := v.LookupPath(cue.ParsePath("default")); d.Exists() {
		cfg.Default, err = compileValue(kind, d)
		if err != nil {
			return param.Config{}, &CompileError{
				Code:    ErrCodeDefault,
				Field:   fieldPath("param", name, "default"),
				Message: err.Error(),
				Pos:     d.Pos(),
			}
		}
	}

	if l := v.LookupPath(cue.ParsePath("limit")); l.Exists() {
		cfg.Limit, err = compileLimit(kind, l, fieldPath("param", name, "limit"))
		if err != nil {
			return param.Config{}, err
		}
	}
	return cfg, nil
}

func compileKind(name string, v cue.Value) (param.Kind, error) {
	path := fieldPath("param", name, "kind")
	kindName, ok, err := lookupString(v, "kind", path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &CompileError{Code: ErrCodeKind, Field: path, Message: "kind is required", Pos: v.Pos()}
	}

	switch kindName {
	case "integer":
		return param.Integer{}, nil
	case "float":
		return param.Float{}, nil
	case "boolean":
		return param.Boolean{}, nil
	case "string":
		return param.String{}, nil
	case "date":
		return param.Date{}, nil
	case "time":
		return param.Time{}, nil
	case "email":
		return param.Email{}, nil
	case string(geo.Latitude), string(geo.Longitude), string(geo.Altitude):
		return param.Coordinate{Axis: geo.Axis(kindName)}, nil
	case "enum", "lang":
		allowed, err := allowedValues(name, v)
		if err != nil {
			return nil, err
		}
		if kindName == "lang" {
			return param.Language{Allowed: allowed}, nil
		}
		return param.Enum{Allowed: allowed}, nil
	case "object":
		return compileObject(name, v)
	}
	return nil, &CompileError{
		Code:    ErrCodeKind,
		Field:   path,
		Message: fmt.Sprintf("unknown kind %q", kindName),
		Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
	}
}

func allowedValues(name string, v cue.Value) ([]string, error) {
	path := fieldPath("param", name, "allowed")
	a := v.LookupPath(cue.ParsePath("allowed"))
	if !a.Exists() {
		return nil, &CompileError{Code: ErrCodeKind, Field: path, Message: "allowed is required", Pos: v.Pos()}
	}
	return stringList(a, path)
}

func compileObject(name string, v cue.Value) (param.Kind, error) {
	t, err := entityType(name, v, "param")
	if err != nil {
		return nil, err
	}
	obj := param.Object{Type: t}

	if p := v.LookupPath(cue.ParsePath("permissions")); p.Exists() {
		path := fieldPath("param", name, "permissions")
		perms, err := stringList(p, path)
		if err != nil {
			return nil, err
		}
		for _, s := range perms {
			perm := resolver.Permission(s)
			if !perm.Valid() {
				return nil, &CompileError{
					Code:    ErrCodeKind,
					Field:   path,
					Message: fmt.Sprintf("unknown permission %q", s),
					Pos:     p.Pos(),
				}
			}
			obj.Permissions = append(obj.Permissions, perm)
		}
	}
	return obj, nil
}

// entityType reads ref, or derives the type from the singular of name.
func entityType(name string, v cue.Value, section string) (resolver.Type, error) {
	path := fieldPath(section, name, "ref")
	ref, ok, err := lookupString(v, "ref", path)
	if err != nil {
		return "", err
	}
	if !ok {
		ref = inflection.Singular(name)
	}
	t := resolver.Type(ref)
	if !t.Valid() {
		msg := fmt.Sprintf("unknown entity type %q", ref)
		if !ok {
			msg = fmt.Sprintf("cannot derive entity type from %q; set ref", name)
		}
		return "", &CompileError{Code: ErrCodeRef, Field: path, Message: msg, Pos: v.Pos()}
	}
	return t, nil
}

// compileValue converts a CUE literal to the value kind k parses to.
func compileValue(k param.Kind, v cue.Value) (ir.Value, error) {
	switch k := k.(type) {
	case param.Integer, param.Object:
		n, err := v.Int64()
		return ir.Int(n), err
	case param.Float:
		f, err := number(v)
		return ir.Float(f), err
	case param.Coordinate:
		if k.Axis == geo.Altitude {
			n, err := v.Int64()
			return ir.Int(n), err
		}
		f, err := number(v)
		return ir.Float(f), err
	case param.Boolean:
		b, err := v.Bool()
		return ir.Bool(b), err
	case param.String:
		s, err := v.String()
		return ir.String(s), err
	case param.Email:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		s, err = typed.ParseEmail(s)
		return ir.String(s), err
	case param.Enum:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		s, err = typed.MatchEnum(s, k.Allowed)
		return ir.String(s), err
	case param.Language:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		s, err = typed.MatchLanguage(s, k.Allowed)
		return ir.String(s), err
	case param.Date:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return typed.ParseDate(s)
	case param.Time:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		return typed.ParseTime(s, time.UTC)
	}
	return nil, fmt.Errorf("no literal form for kind %s", k.Name())
}

var limitKeys = []string{"min", "max", "one_of", "exactly"}

func compileLimit(k param.Kind, v cue.Value, path string) (param.Limit, error) {
	if err := checkKeys(v, path, limitKeys...); err != nil {
		return nil, err
	}
	bad := func(msg string) error {
		return &CompileError{Code: ErrCodeLimit, Field: path, Message: msg, Pos: v.Pos()}
	}

	min := v.LookupPath(cue.ParsePath("min"))
	max := v.LookupPath(cue.ParsePath("max"))
	oneOf := v.LookupPath(cue.ParsePath("one_of"))
	exactly := v.LookupPath(cue.ParsePath("exactly"))

	switch {
	case min.Exists() || max.Exists():
		if !min.Exists() || !max.Exists() {
			return nil, bad("min and max must be set together")
		}
		if oneOf.Exists() || exactly.Exists() {
			return nil, bad("a limit is either min/max, one_of or exactly")
		}
		lo, err := compileValue(k, min)
		if err != nil {
			return nil, bad(fmt.Sprintf("min: %v", err))
		}
		hi, err := compileValue(k, max)
		if err != nil {
			return nil, bad(fmt.Sprintf("max: %v", err))
		}
		return param.Between(lo, hi), nil
	case oneOf.Exists():
		if exactly.Exists() {
			return nil, bad("a limit is either min/max, one_of or exactly")
		}
		values, err := stringList(oneOf, path+".one_of")
		if err != nil {
			return nil, err
		}
		return param.OneOf(values...), nil
	case exactly.Exists():
		b, err := exactly.Bool()
		if err != nil {
			return nil, formatCUEError(err, path+".exactly")
		}
		return param.Exactly(b), nil
	}
	return nil, bad("empty limit")
}
