package param

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// Raw maps parameter names to their unparsed values. A missing key is an
// absent parameter.
type Raw map[string]string

// FromValues builds Raw from query or form values. Repeated keys are joined
// with commas, so they parse as one list.
func FromValues(values url.Values) Raw {
	raw := make(Raw, len(values))
	for k, vs := range values {
		escaped := make([]string, len(vs))
		for i, v := range vs {
			escaped[i] = escapeComma(v)
		}
		if len(vs) == 1 {
			raw[k] = vs[0]
			continue
		}
		raw[k] = strings.Join(escaped, ",")
	}
	return raw
}

// FromJSON builds Raw from a flat JSON object. Strings are taken as is;
// numbers keep their literal text; booleans become "true"/"false"; arrays of
// scalars become comma lists; nulls are absent. Nested objects are rejected.
func FromJSON(body []byte) (Raw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON parameter body")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("JSON parameter body must be an object")
	}

	raw := make(Raw)
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		var s string
		var ok bool
		s, ok, err = jsonScalar(key.String(), value)
		if err != nil {
			return false
		}
		if ok {
			raw[key.String()] = s
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func jsonScalar(key string, v gjson.Result) (string, bool, error) {
	switch {
	case v.Type == gjson.Null:
		return "", false, nil
	case v.Type == gjson.String:
		return v.Str, true, nil
	case v.Type == gjson.Number:
		return v.Raw, true, nil
	case v.Type == gjson.True, v.Type == gjson.False:
		return v.String(), true, nil
	case v.IsArray():
		var parts []string
		for _, el := range v.Array() {
			switch el.Type {
			case gjson.String:
				parts = append(parts, escapeComma(el.Str))
			case gjson.Number:
				parts = append(parts, el.Raw)
			case gjson.True, gjson.False:
				parts = append(parts, el.String())
			default:
				return "", false, fmt.Errorf("parameter %q: array elements must be scalars", key)
			}
		}
		return strings.Join(parts, ","), true, nil
	}
	return "", false, fmt.Errorf("parameter %q: nested objects are not parameters", key)
}

func escapeComma(s string) string {
	return strings.ReplaceAll(s, ",", `\,`)
}

// Result is the outcome of ParseAll.
type Result struct {
	// Values holds every parameter that parsed to a non-nil value.
	Values ir.Object

	// Errors holds BadTerm errors for undeclared keys, then one error per
	// failed parameter, each group in name order.
	Errors []error
}

// OK reports whether every parameter parsed.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// ParseAll parses every declared parameter from raw, each in the mode
// Config.ModeFor picks. A failure in one parameter does not stop the others.
// Keys in raw that are not declared are reported as BadTerm.
func (p *Parser) ParseAll(ctx context.Context, raw Raw) Result {
	res := Result{Values: ir.Object{}}

	var undeclared []string
	for k := range raw {
		if _, ok := p.configs.Lookup(k); !ok {
			undeclared = append(undeclared, k)
		}
	}
	sort.Strings(undeclared)
	for _, k := range undeclared {
		res.Errors = append(res.Errors, parseerr.BadTerm(k))
	}

	for _, name := range p.configs.Names() {
		cfg, _ := p.configs.Lookup(name)
		var ptr *string
		mode := Scalar
		if s, ok := raw[name]; ok {
			ptr = &s
			mode = cfg.ModeFor(s)
		}
		v, err := p.Parse(ctx, name, ptr, mode)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		if v != nil {
			res.Values[name] = v
		}
	}
	return res
}
