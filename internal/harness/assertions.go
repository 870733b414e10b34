package harness

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// checkExpect compares a case outcome with its expectation and returns a
// mismatch description, or "" when they agree.
func checkExpect(exp Expect, values ir.Object, errs []*parseerr.Error) string {
	if exp.Error != "" {
		if len(errs) == 0 {
			return fmt.Sprintf("expected error %s, got values %s", exp.Error, canonicalString(values))
		}
		first := errs[0]
		if first.Code != exp.Error {
			return fmt.Sprintf("expected error %s, got %v", exp.Error, first)
		}
		if exp.Field != "" && first.Field != exp.Field {
			return fmt.Sprintf("expected error on field %q, got field %q", exp.Field, first.Field)
		}
		return ""
	}

	if len(errs) > 0 {
		return fmt.Sprintf("expected values, got error %v", errs[0])
	}

	fields := make([]string, 0, len(exp.Values))
	for f := range exp.Values {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		want := exp.Values[f]
		got, present := values[f]
		if want == nil {
			if present {
				return fmt.Sprintf("field %s: expected absent, got %s", f, canonicalString(got))
			}
			continue
		}
		if !present {
			return fmt.Sprintf("field %s: expected %s, got nothing", f, canonicalString(normalize(want)))
		}
		wantJSON, err := ir.MarshalCanonical(normalize(want))
		if err != nil {
			return fmt.Sprintf("field %s: bad expectation: %v", f, err)
		}
		gotJSON, err := ir.MarshalCanonical(got)
		if err != nil {
			return fmt.Sprintf("field %s: unmarshalable value: %v", f, err)
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			return fmt.Sprintf("field %s: expected %s, got %s", f, wantJSON, gotJSON)
		}
	}
	return ""
}

// normalize converts YAML-decoded values to types MarshalCanonical accepts.
// Unquoted YAML dates may arrive as time.Time.
func normalize(v any) any {
	switch val := v.(type) {
	case time.Time:
		if val.Equal(val.Truncate(24*time.Hour)) && val.Location() == time.UTC {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalize(elem)
		}
		return out
	}
	return v
}

func canonicalString(v any) string {
	b, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
