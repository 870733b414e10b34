package schema

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
)

// fieldPath names a declaration and an optional key within it.
func fieldPath(section, name string, keys ...string) string {
	p := section + "." + name
	for _, k := range keys {
		p += "." + k
	}
	return p
}

// checkKeys rejects struct keys outside allowed.
func checkKeys(v cue.Value, path string, allowed ...string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err, path)
	}
	for iter.Next() {
		key := iter.Selector().Unquoted()
		known := false
		for _, a := range allowed {
			if key == a {
				known = true
				break
			}
		}
		if !known {
			return &CompileError{
				Code:    ErrCodeUnknown,
				Field:   path + "." + key,
				Message: fmt.Sprintf("unknown key %q", key),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func lookupString(v cue.Value, key, path string) (string, bool, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		return "", false, nil
	}
	s, err := f.String()
	if err != nil {
		return "", true, formatCUEError(err, path)
	}
	return s, true, nil
}

func lookupBool(v cue.Value, key, path string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err, path)
	}
	return b, nil
}

func lookupFloat(v cue.Value, key, path string) (float64, bool, error) {
	f := v.LookupPath(cue.ParsePath(key))
	if !f.Exists() {
		return 0, false, nil
	}
	n, err := number(f)
	if err != nil {
		return 0, true, formatCUEError(err, path)
	}
	return n, true, nil
}

func number(v cue.Value) (float64, error) {
	if v.IncompleteKind() == cue.IntKind {
		n, err := v.Int64()
		return float64(n), err
	}
	return v.Float64()
}

func stringList(v cue.Value, path string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err, path)
	}
	var out []string
	for iter.Next() {
		s, err := scalarString(iter.Value())
		if err != nil {
			return nil, formatCUEError(err, path)
		}
		out = append(out, s)
	}
	return out, nil
}

// scalarString renders a string, number or bool the way a raw parameter
// would spell it.
func scalarString(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
		n, err := v.Int64()
		return strconv.FormatInt(n, 10), err
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64), err
	case cue.BoolKind:
		b, err := v.Bool()
		return strconv.FormatBool(b), err
	}
	return v.String()
}
